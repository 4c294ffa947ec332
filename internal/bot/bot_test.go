package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/agromaq/quotation-server/internal/quote"
	"github.com/agromaq/quotation-server/internal/services"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"ACO001 20-12345678-9 Juan +5411", []string{"ACO001", "20-12345678-9", "Juan", "+5411"}},
		{`ACO001 20-12345678-9 "Juan Pérez" +5411`, []string{"ACO001", "20-12345678-9", "Juan Pérez", "+5411"}},
		{`ACO001 "Juan Pérez" +5411 10`, []string{"ACO001", "Juan Pérez", "+5411", "10"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
	}
	for _, c := range cases {
		got := SplitArgs(c.in)
		if len(got) != len(c.want) {
			t.Errorf("SplitArgs(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("SplitArgs(%q)[%d] = %q, want %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestQuoteErrorText(t *testing.T) {
	if !strings.Contains(quoteErrorText(services.ErrMachineNotFound), "código") {
		t.Error("machine-not-found message should mention the code")
	}
	if !strings.Contains(quoteErrorText(quote.ErrInvalidDiscount), "descuento") {
		t.Error("discount message should mention the discount")
	}
	if quoteErrorText(errors.New("boom")) == "" {
		t.Error("fallback message must not be empty")
	}
}
