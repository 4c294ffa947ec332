package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/catalog"
	"github.com/agromaq/quotation-server/internal/config"
	"github.com/agromaq/quotation-server/internal/models"
	"github.com/agromaq/quotation-server/internal/quote"
	"github.com/agromaq/quotation-server/internal/services"
)

// Bot serves the quotation workflow over Telegram: catalog listing, quote
// generation and (for configured admin ids) price updates. It shares the
// QuotationService with the HTTP layer so both produce identical documents.
type Bot struct {
	api      *tgbotapi.BotAPI
	db       *gorm.DB
	svc      *services.QuotationService
	adminIDs map[int64]bool
}

// New returns nil (and no error) when BOT_TOKEN is unset: the bot is an
// optional surface and the server runs fine without it.
func New(cfg config.Config, db *gorm.DB, svc *services.QuotationService) (*Bot, error) {
	if cfg.BotToken == "" {
		log.Println("BOT_TOKEN not set, skipping bot initialization")
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	admins := make(map[int64]bool)
	for _, part := range strings.Split(cfg.BotAdminIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("ignoring invalid TELEGRAM_ADMIN_IDS entry %q", part)
			continue
		}
		admins[id] = true
	}
	return &Bot{api: api, db: db, svc: svc, adminIDs: admins}, nil
}

func (b *Bot) isAdmin(userID int64) bool { return b.adminIDs[userID] }

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	log.Printf("Telegram bot online as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(update.Message)
		}
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, b.welcomeText(msg.From.ID))
	case "ayuda":
		b.reply(msg, helpText)
	case "listar_maquinas":
		b.listMachines(msg)
	case "cotizar":
		b.generateQuote(msg)
	case "set_price":
		b.setPrice(msg)
	default:
		b.reply(msg, "Comando desconocido. Usá /ayuda para ver los comandos disponibles.")
	}
}

func (b *Bot) welcomeText(userID int64) string {
	text := "🚜 *¡Bienvenido al Bot de Cotizaciones Agromaq!*\n\n" +
		"Comandos disponibles:\n" +
		"📋 `/listar_maquinas` - Ver catálogo completo de máquinas\n" +
		"💰 `/cotizar <código> <cuit> <nombre> <teléfono> [descuento]` - Generar cotización\n" +
		"ℹ️ `/ayuda` - Ayuda detallada\n"
	if b.isAdmin(userID) {
		text += "\n*Comandos de administrador:*\n💲 `/set_price <código> <precio>` - Actualizar precio"
	}
	return text
}

const helpText = "🚜 *Bot de Cotizaciones Agromaq*\n\n" +
	"📋 `/listar_maquinas`\nVer categorías y productos con códigos y precios actuales.\n\n" +
	"💰 `/cotizar <código> <cuit> <nombre> <teléfono> [descuento]`\n" +
	"Generar cotización en PDF. El nombre va entre comillas si tiene espacios; " +
	"el descuento es un porcentaje opcional entre 0 y 100.\n\n" +
	"*Ejemplo:*\n`/cotizar ACO001 20-12345678-9 \"Juan Pérez\" +541112345678 10`"

func (b *Bot) listMachines(msg *tgbotapi.Message) {
	var machines []models.Machine
	if err := b.db.Where("active = ?", true).Order("id asc").Find(&machines).Error; err != nil {
		b.reply(msg, "Error al cargar el catálogo.")
		return
	}
	if len(machines) == 0 {
		b.reply(msg, "El catálogo está vacío.")
		return
	}
	groups := catalog.GroupByCategory(machines)
	var sb strings.Builder
	sb.WriteString("📋 *Catálogo de máquinas*\n")
	for _, cat := range catalog.Categories(machines) {
		fmt.Fprintf(&sb, "\n*%s*\n", cat)
		for _, m := range groups[cat] {
			fmt.Fprintf(&sb, "`%s` %s — $%.2f\n", m.Code, m.Name, m.Price)
		}
	}
	b.reply(msg, sb.String())
}

func (b *Bot) generateQuote(msg *tgbotapi.Message) {
	args := SplitArgs(msg.CommandArguments())
	if len(args) < 4 {
		b.reply(msg, "Uso: `/cotizar <código> <cuit> <nombre> <teléfono> [descuento]`")
		return
	}
	req := services.QuoteRequest{
		MachineCode: args[0],
		ClientCuit:  args[1],
		ClientName:  args[2],
		ClientPhone: args[3],
		Quantity:    1,
	}
	if len(args) > 4 {
		// legacy flag applies the historical flat 10%
		if args[4] == "--descuento" {
			req.DiscountPercent = 10
		} else {
			d, err := strconv.ParseFloat(args[4], 64)
			if err != nil {
				b.reply(msg, "El descuento debe ser un número entre 0 y 100.")
				return
			}
			req.DiscountPercent = d
		}
	}
	res, err := b.svc.Generate(req)
	if err != nil {
		b.reply(msg, quoteErrorText(err))
		return
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: res.Filename, Bytes: res.PDF})
	doc.Caption = fmt.Sprintf("Cotización %s — total $%.2f", res.Quotation.MachineCode, res.Quotation.FinalPrice)
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("telegram send document: %v", err)
	}
}

func quoteErrorText(err error) string {
	switch {
	case errors.Is(err, services.ErrMachineNotFound):
		return "No encontré una máquina activa con ese código."
	case errors.Is(err, quote.ErrInvalidDiscount):
		return "El descuento debe estar entre 0 y 100."
	case errors.Is(err, quote.ErrInvalidQuantity):
		return "La cantidad debe ser al menos 1."
	default:
		return "No pude generar la cotización, probá de nuevo."
	}
}

func (b *Bot) setPrice(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg, "⛔ Este comando es solo para administradores.")
		return
	}
	args := SplitArgs(msg.CommandArguments())
	if len(args) != 2 {
		b.reply(msg, "Uso: `/set_price <código> <precio>`")
		return
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil || price <= 0 {
		b.reply(msg, "El precio debe ser un número mayor a 0.")
		return
	}
	var machine models.Machine
	if err := b.db.Where("code = ?", args[0]).First(&machine).Error; err != nil {
		b.reply(msg, "No encontré una máquina con ese código.")
		return
	}
	if err := b.db.Model(&machine).Update("price", price).Error; err != nil {
		b.reply(msg, "No pude actualizar el precio.")
		return
	}
	b.reply(msg, fmt.Sprintf("✅ Precio de `%s` actualizado a $%.2f", machine.Code, price))
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(out); err != nil {
		log.Printf("telegram send: %v", err)
	}
}

// SplitArgs splits command arguments on whitespace while keeping
// double-quoted segments together: `ACO001 "Juan Pérez" +54` yields three
// fields.
func SplitArgs(s string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
