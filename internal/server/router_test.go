package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/auth"
	"github.com/agromaq/quotation-server/internal/models"
	"github.com/agromaq/quotation-server/internal/services"
)

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Machine{}, &models.Quotation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	machines := []models.Machine{
		{Code: "ACO001", Name: "Acoplado rural playo", Category: "Acoplados rurales", Price: 100000, Active: true},
		{Code: "ACO002", Name: "Acoplado tanque 3000 Lts.", Category: "Acoplados tanque", Price: 120000, Active: true},
		{Code: "TOL003", Name: "Acoplado tolva cerealero 4 TT.", Category: "Tolvas", Price: 90000, Active: false},
	}
	if err := db.Create(&machines).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	admin := auth.Admin{User: "admin", Pass: "secret"}
	company := services.CompanyInfo{Name: "AGROMAQ", Email: "info@agromaq.com.ar", Phone: "+54 11 1234-5678", Website: "www.agromaq.com.ar"}
	return New(db, admin, company), db
}

func TestMachinesListExcludesInactive(t *testing.T) {
	h, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/machines", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var machines []models.Machine
	if err := json.Unmarshal(w.Body.Bytes(), &machines); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(machines) != 2 {
		t.Fatalf("expected 2 active machines, got %d", len(machines))
	}
	for _, m := range machines {
		if m.Code == "TOL003" {
			t.Fatal("inactive machine exposed")
		}
	}
}

func TestMachineGetByCode(t *testing.T) {
	h, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/machines/ACO002", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var m models.Machine
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Code != "ACO002" {
		t.Fatalf("wrong machine: %+v", m)
	}

	// inactive machine is invisible
	req = httptest.NewRequest(http.MethodGet, "/machines/TOL003", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("inactive machine should 404, got %d", w.Code)
	}
}

func TestUpdatePriceRequiresAuth(t *testing.T) {
	h, db := setupRouter(t)
	body := `{"price":150000}`

	req := httptest.NewRequest(http.MethodPut, "/machines/ACO001", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", w.Code)
	}
	var m models.Machine
	db.Where("code = ?", "ACO001").First(&m)
	if m.Price != 100000 {
		t.Fatalf("price mutated without auth: %v", m.Price)
	}

	req = httptest.NewRequest(http.MethodPut, "/machines/ACO001", strings.NewReader(body))
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with credentials, got %d body=%s", w.Code, w.Body.String())
	}
	db.Where("code = ?", "ACO001").First(&m)
	if m.Price != 150000 {
		t.Fatalf("price not persisted: %v", m.Price)
	}
}

func TestUpdatePriceRejectsNonPositive(t *testing.T) {
	h, db := setupRouter(t)
	for _, body := range []string{`{"price":-5}`, `{"price":0}`} {
		req := httptest.NewRequest(http.MethodPut, "/machines/ACO001", strings.NewReader(body))
		req.SetBasicAuth("admin", "secret")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	var m models.Machine
	db.Where("code = ?", "ACO001").First(&m)
	if m.Price != 100000 {
		t.Fatalf("rejected update mutated price: %v", m.Price)
	}
}

func TestGenerateQuoteReturnsPDF(t *testing.T) {
	h, db := setupRouter(t)
	body := `{"machineCode":"ACO001","clientCuit":"20-12345678-9","clientName":"Juan Pérez","clientPhone":"+54 11 1111-2222","clientAddress":"Ruta 9 km 42","quantity":2,"discountPercent":10}`
	req := httptest.NewRequest(http.MethodPost, "/generate-quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		t.Fatalf("expected pdf content-type, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "cotizacion-Juan-Pérez-ACO001.pdf") {
		t.Fatalf("unexpected disposition: %s", cd)
	}
	var count int64
	db.Model(&models.Quotation{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 quotation recorded, got %d", count)
	}
	var q models.Quotation
	db.First(&q)
	if q.FinalPrice != 180000 {
		t.Fatalf("final price: %v", q.FinalPrice)
	}
}

func TestGenerateQuoteValidation(t *testing.T) {
	h, db := setupRouter(t)
	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing machine", `{"clientName":"X"}`, http.StatusBadRequest},
		{"unknown machine", `{"machineCode":"ZZZ999","clientName":"X"}`, http.StatusNotFound},
		{"discount above 100", `{"machineCode":"ACO001","clientName":"X","discountPercent":150}`, http.StatusBadRequest},
		{"negative discount", `{"machineCode":"ACO001","clientName":"X","discountPercent":-1}`, http.StatusBadRequest},
		{"negative quantity", `{"machineCode":"ACO001","clientName":"X","quantity":-3}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/generate-quote", strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != c.want {
			t.Errorf("%s: expected %d, got %d body=%s", c.name, c.want, w.Code, w.Body.String())
		}
	}
	var count int64
	db.Model(&models.Quotation{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected requests recorded %d quotations", count)
	}
}

func TestGenerateQuoteIdempotencyReplay(t *testing.T) {
	h, db := setupRouter(t)
	body := `{"machineCode":"ACO001","clientName":"Juan","quantity":1,"idempotencyKey":"11111111-2222-3333-4444-555555555555"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/generate-quote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, w.Code)
		}
		if i == 1 && w.Header().Get("Idempotency-Replayed") != "true" {
			t.Fatal("second submission not flagged as replay")
		}
	}
	var count int64
	db.Model(&models.Quotation{}).Count(&count)
	if count != 1 {
		t.Fatalf("duplicate submissions created %d rows", count)
	}
}

func TestQuotationsProbe(t *testing.T) {
	h, _ := setupRouter(t)

	// wrong credentials – the admin login probe expects 401 here
	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("admin", "wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad probe, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid probe, got %d", w.Code)
	}
}

func TestQuotationStats(t *testing.T) {
	h, _ := setupRouter(t)
	// record one discounted quotation
	body := `{"machineCode":"ACO001","clientName":"Juan","quantity":1,"discountPercent":10}`
	req := httptest.NewRequest(http.MethodPost, "/generate-quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/quotations/stats", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d", w.Code)
	}
	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["total_quotations"].(float64) != 1 || stats["quotations_with_discount"].(float64) != 1 {
		t.Fatalf("stats: %v", stats)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/generate-quote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS allow-origin header")
	}
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := setupRouter(t)
	for _, path := range []string{"/health", "/healthz", "/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}
