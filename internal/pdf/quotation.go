package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Corporate palette carried over from the print design.
var (
	agromaqGreen  = props.Color{Red: 45, Green: 80, Blue: 22}   // #2D5016
	agromaqYellow = props.Color{Red: 244, Green: 208, Blue: 63} // #F4D03F
	lightGray     = props.Color{Red: 242, Green: 242, Blue: 242}
)

// QuotationData carries everything the document needs; the renderer does no
// lookups and no arithmetic beyond formatting.
type QuotationData struct {
	MachineCode     string
	MachineName     string
	MachineCategory string
	BasePrice       float64
	Quantity        int
	Subtotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	FinalPrice      float64

	ClientCuit    string
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	ClientCompany string
	Notes         string

	CompanyName    string
	CompanyEmail   string
	CompanyPhone   string
	CompanyWebsite string

	// IssuedAt defaults to time.Now when zero; pinned in tests.
	IssuedAt time.Time
}

// Number returns the quotation reference, e.g. COT-20250901-ACO001.
func (d QuotationData) Number() string {
	return fmt.Sprintf("COT-%s-%s", d.issuedAt().Format("20060102"), d.MachineCode)
}

func (d QuotationData) issuedAt() time.Time {
	if d.IssuedAt.IsZero() {
		return time.Now()
	}
	return d.IssuedAt
}

// Filename returns the attachment name used by the HTTP layer and the bot.
func (d QuotationData) Filename() string {
	name := strings.ReplaceAll(d.ClientName, " ", "-")
	return fmt.Sprintf("cotizacion-%s-%s.pdf", name, d.MachineCode)
}

// Quotation renders the quotation document and returns the PDF bytes.
func Quotation(d QuotationData) ([]byte, error) {
	m := newMaroto()

	m.AddRow(12, text.NewCol(12, "AGROMAQ", props.Text{
		Size: 22, Style: fontstyle.Bold, Align: align.Center, Color: &agromaqGreen,
	}))
	m.AddRow(7, text.NewCol(12, "Maquinaria Agrícola", props.Text{
		Size: 11, Align: align.Center,
	}))
	m.AddRow(10, text.NewCol(12, "COTIZACIÓN", props.Text{
		Size: 15, Style: fontstyle.Bold, Align: align.Center, Color: &agromaqGreen, Top: 3,
	}))

	issued := d.issuedAt()
	m.AddRows(
		labelRow("Fecha:", issued.Format("02/01/2006")),
		labelRow("Válida hasta:", issued.AddDate(0, 0, 30).Format("02/01/2006")),
		labelRow("Cotización N°:", d.Number()),
	)

	m.AddRow(9, sectionCol("DATOS DEL CLIENTE"))
	m.AddRows(
		boxedRow("CUIT:", d.ClientCuit),
		boxedRow("Nombre:", d.ClientName),
		boxedRow("Teléfono:", d.ClientPhone),
	)
	if d.ClientEmail != "" {
		m.AddRows(boxedRow("Email:", d.ClientEmail))
	}
	if d.ClientCompany != "" {
		m.AddRows(boxedRow("Empresa:", d.ClientCompany))
	}

	m.AddRow(9, sectionCol("DETALLE DEL PRODUCTO"))
	m.AddRows(
		boxedRow("Código:", d.MachineCode),
		boxedRow("Producto:", d.MachineName),
		boxedRow("Categoría:", d.MachineCategory),
		boxedRow("Cantidad:", fmt.Sprintf("%d", d.Quantity)),
		boxedRow("Precio base:", formatAmount(d.BasePrice)),
	)
	if d.Quantity > 1 {
		m.AddRows(boxedRow("Subtotal:", formatAmount(d.Subtotal)))
	}
	if d.DiscountPercent > 0 {
		m.AddRows(boxedRow("Descuento:",
			fmt.Sprintf("%s (%g%%)", formatAmount(d.DiscountAmount), d.DiscountPercent)))
	}
	m.AddRow(9,
		text.NewCol(4, "PRECIO FINAL:", props.Text{
			Size: 13, Style: fontstyle.Bold, Color: &agromaqGreen,
		}).WithStyle(&props.Cell{BackgroundColor: &agromaqYellow}),
		text.NewCol(8, formatAmount(d.FinalPrice), props.Text{
			Size: 13, Style: fontstyle.Bold, Align: align.Right, Color: &agromaqGreen,
		}).WithStyle(&props.Cell{BackgroundColor: &agromaqYellow}),
	)

	if d.Notes != "" {
		m.AddRow(9, sectionCol("OBSERVACIONES"))
		m.AddRow(16, text.NewCol(12, d.Notes, props.Text{Size: 10}))
	}

	m.AddRow(9, sectionCol("CONDICIONES GENERALES"))
	for _, term := range terms {
		m.AddRow(5, text.NewCol(12, "• "+term, props.Text{Size: 10}))
	}

	footer := props.Text{Size: 9, Align: align.Center, Color: &agromaqGreen, Top: 2}
	m.AddRow(10, text.NewCol(12, d.CompanyName, footer))
	m.AddRow(5, text.NewCol(12, d.CompanyEmail+" | "+d.CompanyPhone, footer))
	m.AddRow(5, text.NewCol(12, d.CompanyWebsite, footer))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

var terms = []string{
	"Esta cotización tiene una validez de 30 días.",
	"Los precios están expresados en pesos argentinos.",
	"No incluye flete ni instalación salvo indicación contraria.",
	"Forma de pago: a convenir según condiciones comerciales.",
	"Garantía según términos y condiciones del fabricante.",
}

func newMaroto() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(8).
		WithRightMargin(10).
		Build()
	return maroto.New(cfg)
}

func sectionCol(title string) core.Col {
	return text.NewCol(12, title, props.Text{
		Size: 13, Style: fontstyle.Bold, Color: &agromaqGreen, Top: 3,
	})
}

func labelRow(label, value string) core.Row {
	return row.New(6).Add(
		text.NewCol(3, label, props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(9, value, props.Text{Size: 10}),
	)
}

func boxedRow(label, value string) core.Row {
	return row.New(7).Add(
		text.NewCol(3, label, props.Text{Size: 10, Style: fontstyle.Bold}).
			WithStyle(&props.Cell{BackgroundColor: &lightGray, BorderColor: &agromaqGreen, BorderType: border.Full}),
		text.NewCol(9, value, props.Text{Size: 10}).
			WithStyle(&props.Cell{BorderColor: &agromaqGreen, BorderType: border.Full}),
	)
}

func formatAmount(v float64) string {
	return "$" + humanize(v)
}

// humanize formats 1234567.5 as 1.234.567,50 (es-AR convention).
func humanize(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart := s[:len(s)-3], s[len(s)-2:]
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 && c != '-' {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return string(out) + "," + fracPart
}
