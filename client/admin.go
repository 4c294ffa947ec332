package client

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"

	"github.com/agromaq/quotation-server/internal/quote"
)

// AdminSession is the in-memory admin state behind the price editor.
// Credentials live only for the lifetime of the session and are re-sent as a
// Basic header on every mutating request; there is no server-side session to
// invalidate. Login validates the pair by probing a protected read endpoint,
// which is the documented contract for the price editor.
type AdminSession struct {
	client        *Client
	username      string
	password      string
	authenticated bool

	// Catalog is the session's working copy of the machine list; UpdatePrice
	// mutates it optimistically instead of refetching.
	Catalog []Machine
}

func (c *Client) NewAdminSession(username, password string) *AdminSession {
	return &AdminSession{client: c, username: username, password: password}
}

func (s *AdminSession) Authenticated() bool { return s.authenticated }

// Login probes GET /quotations with the Basic header. On success it loads
// the catalog for editing. 401 maps to ErrAuthRejected; transport failures
// to *NetworkError so callers can distinguish the two.
func (s *AdminSession) Login(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.BaseURL+"/quotations", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.username, s.password)
	resp, err := s.client.httpClient().Do(req)
	if err != nil {
		return &NetworkError{Op: "auth probe", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: "auth probe", StatusCode: resp.StatusCode}
	}
	s.authenticated = true

	machines, err := s.client.LoadActive(ctx)
	if err != nil {
		// authenticated but catalog unavailable: degraded, not fatal
		s.Catalog = []Machine{}
		return nil
	}
	s.Catalog = machines
	return nil
}

// UpdatePrice validates newPrice (finite, > 0) before any network call, then
// PUTs it and mutates the session catalog entry optimistically on success.
// The catalog reconciles with server truth on the next full load.
func (s *AdminSession) UpdatePrice(ctx context.Context, code string, newPrice float64) error {
	if err := validatePrice(newPrice); err != nil {
		return err
	}
	body, err := json.Marshal(map[string]float64{"price": newPrice})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.client.BaseURL+"/machines/"+code, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.username, s.password)
	resp, err := s.client.httpClient().Do(req)
	if err != nil {
		return &NetworkError{Op: "update price", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: "update price", StatusCode: resp.StatusCode}
	}
	for i := range s.Catalog {
		if s.Catalog[i].Code == code {
			s.Catalog[i].Price = newPrice
			break
		}
	}
	return nil
}

// Logout clears the in-memory credentials and session state. Nothing exists
// server-side to invalidate.
func (s *AdminSession) Logout() {
	s.username = ""
	s.password = ""
	s.authenticated = false
	s.Catalog = nil
}

func validatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return quote.ErrInvalidPrice
	}
	return nil
}
