package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/httpx"
	"github.com/agromaq/quotation-server/internal/models"
	"github.com/agromaq/quotation-server/internal/quote"
	"github.com/agromaq/quotation-server/internal/services"
	"github.com/agromaq/quotation-server/internal/validation"
)

type QuotationHandler struct {
	DB  *gorm.DB
	Svc *services.QuotationService
}

func NewQuotationHandler(db *gorm.DB, svc *services.QuotationService) *QuotationHandler {
	return &QuotationHandler{DB: db, Svc: svc}
}

type generateQuoteRequest struct {
	MachineCode     string  `json:"machineCode"`
	ClientCuit      string  `json:"clientCuit"`
	ClientName      string  `json:"clientName"`
	ClientPhone     string  `json:"clientPhone"`
	ClientAddress   string  `json:"clientAddress"`
	ClientEmail     string  `json:"clientEmail"`
	ClientCompany   string  `json:"clientCompany"`
	Notes           string  `json:"notes"`
	DiscountPercent float64 `json:"discountPercent"`
	// Quantity defaults to 1; older clients carry it only inside notes.
	Quantity       int    `json:"quantity"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// Generate: POST /generate-quote – validates, records and streams the PDF.
func (h *QuotationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("machineCode", req.MachineCode, v)
	validation.Required("clientName", req.ClientName, v)
	if req.Quantity != 0 {
		validation.PositiveInt("quantity", req.Quantity, v)
	}
	validation.RangeFloat("discountPercent", req.DiscountPercent, 0, 100, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" && req.IdempotencyKey == "" {
		req.IdempotencyKey = key
	}

	res, err := h.Svc.Generate(services.QuoteRequest{
		MachineCode:     req.MachineCode,
		ClientCuit:      req.ClientCuit,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientAddress:   req.ClientAddress,
		ClientEmail:     req.ClientEmail,
		ClientCompany:   req.ClientCompany,
		Notes:           req.Notes,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMachineNotFound):
			httpx.JSONError(w, http.StatusNotFound, "machine_not_found", nil)
		case errors.Is(err, quote.ErrNoMachineSelected),
			errors.Is(err, quote.ErrInvalidQuantity),
			errors.Is(err, quote.ErrInvalidDiscount):
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"reason": err.Error()})
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "quote_generation_failed", nil)
		}
		return
	}
	if res.Replayed {
		w.Header().Set("Idempotency-Replayed", "true")
	}
	httpx.PDF(w, res.Filename, res.PDF)
}

// List: GET /quotations – newest first (admin; the price-editor auth probe
// also lands here).
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	var quotations []models.Quotation
	if err := h.DB.Order("created_at desc").Find(&quotations).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotations", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quotations)
}

// Stats: GET /quotations/stats
func (h *QuotationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
