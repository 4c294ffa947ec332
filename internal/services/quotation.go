package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/models"
	"github.com/agromaq/quotation-server/internal/pdf"
	"github.com/agromaq/quotation-server/internal/quote"
)

var ErrMachineNotFound = errors.New("machine_not_found")

// CompanyInfo is the letterhead block stamped onto every document.
type CompanyInfo struct {
	Name    string
	Email   string
	Phone   string
	Website string
}

// QuoteRequest is the inbound payload after transport decoding. Quantity
// defaults to 1 when unset; the historical contract carried quantity only
// inside the free-text notes.
type QuoteRequest struct {
	MachineCode     string
	ClientCuit      string
	ClientName      string
	ClientPhone     string
	ClientAddress   string
	ClientEmail     string
	ClientCompany   string
	Notes           string
	Quantity        int
	DiscountPercent float64
	IdempotencyKey  string
}

// QuoteResult bundles the rendered document with the persisted record.
// Replayed is set when an idempotency key matched an earlier submission and
// the original quotation was re-rendered instead of recorded again.
type QuoteResult struct {
	PDF       []byte
	Filename  string
	Quotation models.Quotation
	Breakdown quote.Breakdown
	Replayed  bool
}

// QuotationService encapsulates quotation business logic: machine resolution,
// pricing, persistence and document rendering.
type QuotationService struct {
	DB      *gorm.DB
	Company CompanyInfo
}

func NewQuotationService(db *gorm.DB, company CompanyInfo) *QuotationService {
	return &QuotationService{DB: db, Company: company}
}

// Generate validates the request, records the quotation and renders its PDF.
// Validation failures happen before any write. A request whose idempotency
// key was already recorded replays the stored quotation.
func (s *QuotationService) Generate(req QuoteRequest) (*QuoteResult, error) {
	code := strings.TrimSpace(req.MachineCode)
	if code == "" {
		return nil, quote.ErrNoMachineSelected
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var machine models.Machine
	if err := s.DB.Where("code = ? AND active = ?", code, true).First(&machine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}

	breakdown, err := quote.Compute(machine.Price, req.Quantity, req.DiscountPercent)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		var existing models.Quotation
		err := s.DB.Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error
		if err == nil {
			return s.render(machine, existing, true)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	notes := req.Notes
	if notes == "" {
		notes = quote.BuildNotes(req.ClientAddress, req.Quantity, req.DiscountPercent)
	}
	q := models.Quotation{
		MachineCode:     machine.Code,
		ClientCuit:      req.ClientCuit,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		ClientCompany:   req.ClientCompany,
		Notes:           notes,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
		DiscountApplied: req.DiscountPercent > 0,
		FinalPrice:      breakdown.Total,
		IdempotencyKey:  req.IdempotencyKey,
	}
	if err := s.DB.Create(&q).Error; err != nil {
		return nil, err
	}
	return s.render(machine, q, false)
}

func (s *QuotationService) render(machine models.Machine, q models.Quotation, replayed bool) (*QuoteResult, error) {
	breakdown, err := quote.Compute(machine.Price, q.Quantity, q.DiscountPercent)
	if err != nil {
		return nil, err
	}
	data := pdf.QuotationData{
		MachineCode:     machine.Code,
		MachineName:     machine.Name,
		MachineCategory: machine.Category,
		BasePrice:       machine.Price,
		Quantity:        q.Quantity,
		Subtotal:        breakdown.Subtotal,
		DiscountPercent: q.DiscountPercent,
		DiscountAmount:  breakdown.DiscountAmount,
		FinalPrice:      q.FinalPrice,
		ClientCuit:      q.ClientCuit,
		ClientName:      q.ClientName,
		ClientPhone:     q.ClientPhone,
		ClientEmail:     q.ClientEmail,
		ClientCompany:   q.ClientCompany,
		Notes:           q.Notes,
		CompanyName:     s.Company.Name,
		CompanyEmail:    s.Company.Email,
		CompanyPhone:    s.Company.Phone,
		CompanyWebsite:  s.Company.Website,
		IssuedAt:        q.CreatedAt,
	}
	doc, err := pdf.Quotation(data)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		PDF:       doc,
		Filename:  data.Filename(),
		Quotation: q,
		Breakdown: breakdown,
		Replayed:  replayed,
	}, nil
}

// Stats summarizes recorded quotations for the admin dashboard.
type Stats struct {
	TotalQuotations        int64   `json:"total_quotations"`
	QuotationsWithDiscount int64   `json:"quotations_with_discount"`
	DiscountPercentage     float64 `json:"discount_percentage"`
}

func (s *QuotationService) Stats() (Stats, error) {
	var out Stats
	if err := s.DB.Model(&models.Quotation{}).Count(&out.TotalQuotations).Error; err != nil {
		return out, err
	}
	if err := s.DB.Model(&models.Quotation{}).Where("discount_applied = ?", true).Count(&out.QuotationsWithDiscount).Error; err != nil {
		return out, err
	}
	if out.TotalQuotations > 0 {
		out.DiscountPercentage = float64(out.QuotationsWithDiscount) / float64(out.TotalQuotations) * 100
	}
	return out, nil
}
