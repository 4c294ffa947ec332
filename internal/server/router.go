package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/auth"
	"github.com/agromaq/quotation-server/internal/handlers"
	"github.com/agromaq/quotation-server/internal/httpx"
	"github.com/agromaq/quotation-server/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, admin auth.Admin, company services.CompanyInfo) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{"status": "healthy", "timestamp": time.Now().UTC()})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1) – detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Header().Set("Content-Type", "application/json")
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mh := handlers.NewMachineHandler(db)
	qsvc := services.NewQuotationService(db, company)
	qh := handlers.NewQuotationHandler(db, qsvc)

	// Machine catalog. /machines and /machines/catalog are public reads;
	// /machines/{code} dispatches GET (public) vs PUT (admin).
	mux.HandleFunc("/machines", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		mh.List(w, r)
	})
	mux.HandleFunc("/machines/catalog", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		mh.Catalog(w, r)
	})
	mux.HandleFunc("/machines/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/machines/")
		if code == "" || strings.Contains(code, "/") {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		switch r.Method {
		case http.MethodGet:
			mh.Get(w, r, code)
		case http.MethodPut:
			auth.RequireBasic(admin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mh.UpdatePrice(w, r, code)
			})).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,PUT")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.Handle("/admin/machines", auth.RequireBasic(admin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mh.List(w, r)
	})))

	// Quotations
	mux.HandleFunc("/generate-quote", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		qh.Generate(w, r)
	})
	mux.Handle("/quotations", auth.RequireBasic(admin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		qh.List(w, r)
	})))
	mux.Handle("/quotations/stats", auth.RequireBasic(admin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		qh.Stats(w, r)
	})))

	// OpenAPI spec
	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, "openapi.yaml")
	})

	// Root banner
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{
			"message": "Agromaq Quotation System API",
			"version": "2.0.0",
		})
	})
	//revive:enable:unused-parameter

	return withCORS(withRecover(withLogging(mux)))
}

// The React frontend is served from another origin, so every response carries
// permissive CORS headers and preflights short-circuit here.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,Idempotency-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
