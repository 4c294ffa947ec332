package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/catalog"
	"github.com/agromaq/quotation-server/internal/httpx"
	"github.com/agromaq/quotation-server/internal/models"
	"github.com/agromaq/quotation-server/internal/validation"
)

type MachineHandler struct {
	DB *gorm.DB
}

func NewMachineHandler(db *gorm.DB) *MachineHandler { return &MachineHandler{DB: db} }

// List: GET /machines – active machines only, catalog order.
// Optional ?q= narrows by name/category/code, ?category= by exact category.
func (h *MachineHandler) List(w http.ResponseWriter, r *http.Request) {
	var machines []models.Machine
	if err := h.DB.Where("active = ?", true).Order("id asc").Find(&machines).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_machines", nil)
		return
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		machines = catalog.Search(q, machines)
	}
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		machines = catalog.ByCategory(c, machines)
	}
	httpx.JSON(w, http.StatusOK, machines)
}

// Get: GET /machines/{code} – single active machine or 404.
func (h *MachineHandler) Get(w http.ResponseWriter, r *http.Request, code string) {
	var machine models.Machine
	if err := h.DB.Where("code = ? AND active = ?", code, true).First(&machine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "machine_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_machine", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, machine)
}

// UpdatePrice: PUT /machines/{code} – admin-only price mutation.
// The new price must be a finite number > 0; rejected before any write.
func (h *MachineHandler) UpdatePrice(w http.ResponseWriter, r *http.Request, code string) {
	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.PositiveFloat("price", body.Price, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var machine models.Machine
	if err := h.DB.Where("code = ?", code).First(&machine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "machine_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_machine", nil)
		return
	}
	if err := h.DB.Model(&machine).Update("price", body.Price).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "price_update_failed", nil)
		return
	}
	machine.Price = body.Price
	httpx.JSON(w, http.StatusOK, machine)
}

// Catalog: GET /machines/catalog – machines grouped by category, first-appearance order.
func (h *MachineHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	var machines []models.Machine
	if err := h.DB.Where("active = ?", true).Order("id asc").Find(&machines).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_machines", nil)
		return
	}
	groups := catalog.GroupByCategory(machines)
	type categoryOut struct {
		Categoria string           `json:"categoria"`
		Productos []models.Machine `json:"productos"`
	}
	out := make([]categoryOut, 0, len(groups))
	for _, cat := range catalog.Categories(machines) {
		out = append(out, categoryOut{Categoria: cat, Productos: groups[cat]})
	}
	httpx.JSON(w, http.StatusOK, out)
}
