package auth

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/agromaq/quotation-server/internal/httpx"
)

// Admin holds the credential pair mutating endpoints are checked against.
// There is no dedicated login endpoint or token issuance: every protected
// request re-sends raw credentials, and the admin UI validates a pair by
// probing a protected read endpoint. This is the documented legacy contract,
// not a model to extend.
type Admin struct {
	User string
	// Pass is compared in constant time. PassHash, when non-empty, wins and
	// is verified with bcrypt so the plaintext never has to live in the
	// environment.
	Pass     string
	PassHash string
}

// Configured reports whether a credential pair is available at all.
func (a Admin) Configured() bool {
	return a.User != "" && (a.Pass != "" || a.PassHash != "")
}

// Check verifies a username/password pair.
func (a Admin) Check(user, pass string) bool {
	if !a.Configured() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) == 1
	var passOK bool
	if a.PassHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(a.PassHash), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(a.Pass)) == 1
	}
	return userOK && passOK
}

// RequireBasic guards next behind HTTP Basic auth against the admin pair.
func RequireBasic(admin Admin, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !admin.Configured() {
			httpx.JSONError(w, http.StatusInternalServerError, "admin_credentials_not_configured", nil)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || !admin.Check(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="agromaq"`)
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
