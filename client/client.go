// Package client is the Go consumer of the quotation API: catalog loading,
// quote generation and the admin price-editor flow. It mirrors what the web
// frontend does over the same endpoints, with the validation the UI only
// hinted at enforced before any request leaves the process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agromaq/quotation-server/internal/catalog"
	"github.com/agromaq/quotation-server/internal/models"
	"github.com/agromaq/quotation-server/internal/quote"
)

// Machine re-exports the catalog entry type so callers need only this package.
type Machine = models.Machine

const defaultTimeout = 30 * time.Second

// Client talks to one backend origin. All endpoint paths are fixed relative
// suffixes of BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// LoadActive fetches the machine list. It fails closed: any transport or
// HTTP error yields an empty catalog plus the error, never a partial list.
// The server already filters inactive machines; the filter is applied again
// here so a misbehaving backend cannot leak unquotable entries.
func (c *Client) LoadActive(ctx context.Context) ([]Machine, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/machines", nil)
	if err != nil {
		return []Machine{}, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return []Machine{}, &NetworkError{Op: "load machines", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return []Machine{}, &HTTPError{Op: "load machines", StatusCode: resp.StatusCode}
	}
	var machines []Machine
	if err := json.NewDecoder(resp.Body).Decode(&machines); err != nil {
		return []Machine{}, fmt.Errorf("load machines: decode: %w", err)
	}
	return catalog.ActiveOnly(machines), nil
}

// QuoteForm is a quotation submission. Machine must be resolved (via
// catalog.FindByCode or equivalent) before submitting; a nil Machine is a
// validation error, not a request.
type QuoteForm struct {
	Machine         *Machine
	ClientCuit      string
	ClientName      string
	ClientPhone     string
	ClientAddress   string
	ClientEmail     string
	ClientCompany   string
	Quantity        int
	DiscountPercent float64
}

// Breakdown validates the form and computes subtotal/discount/total locally,
// exactly as the server will.
func (f QuoteForm) Breakdown() (quote.Breakdown, error) {
	if f.Machine == nil {
		return quote.Breakdown{}, quote.ErrNoMachineSelected
	}
	return quote.Compute(f.Machine.Price, f.Quantity, f.DiscountPercent)
}

type quotePayload struct {
	MachineCode     string  `json:"machineCode"`
	ClientCuit      string  `json:"clientCuit"`
	ClientName      string  `json:"clientName"`
	ClientPhone     string  `json:"clientPhone"`
	ClientAddress   string  `json:"clientAddress"`
	ClientEmail     string  `json:"clientEmail"`
	ClientCompany   string  `json:"clientCompany"`
	Notes           string  `json:"notes"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discountPercent"`
	IdempotencyKey  string  `json:"idempotencyKey"`
}

// GenerateQuote validates locally, then issues a single POST. Each submission
// attempt carries a fresh idempotency key so an accidental double submit is
// replayed server-side instead of recorded twice. No retry is attempted here.
func (c *Client) GenerateQuote(ctx context.Context, form QuoteForm) (*Document, error) {
	if _, err := form.Breakdown(); err != nil {
		return nil, err
	}
	payload := quotePayload{
		MachineCode:     form.Machine.Code,
		ClientCuit:      form.ClientCuit,
		ClientName:      form.ClientName,
		ClientPhone:     form.ClientPhone,
		ClientAddress:   form.ClientAddress,
		ClientEmail:     form.ClientEmail,
		ClientCompany:   form.ClientCompany,
		Notes:           quote.BuildNotes(form.ClientAddress, form.Quantity, form.DiscountPercent),
		Quantity:        form.Quantity,
		DiscountPercent: form.DiscountPercent,
		IdempotencyKey:  uuid.NewString(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate-quote", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "generate quote", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Op: "generate quote", StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "generate quote", Err: err}
	}
	name := fmt.Sprintf("cotizacion-%s-%s.pdf", dashes(form.ClientName), form.Machine.Code)
	return newDocument(name, data), nil
}

func dashes(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == ' ' {
			out[i] = '-'
		}
	}
	return string(out)
}
