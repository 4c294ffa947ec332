package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireBasic(t *testing.T) {
	admin := Admin{User: "admin", Pass: "secret"}
	h := RequireBasic(admin, okHandler())

	// no header
	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("missing WWW-Authenticate challenge")
	}

	// wrong password
	req = httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("admin", "nope")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad password, got %d", w.Code)
	}

	// valid pair
	req = httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid credentials, got %d", w.Code)
	}
}

func TestRequireBasicHashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := Admin{User: "admin", PassHash: string(hash)}
	h := RequireBasic(admin, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("admin", "secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with hashed credentials, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("admin", "wrong")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong password, got %d", w.Code)
	}
}

func TestRequireBasicUnconfigured(t *testing.T) {
	h := RequireBasic(Admin{}, okHandler())
	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.SetBasicAuth("any", "thing")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when credentials unset, got %d", w.Code)
	}
}
