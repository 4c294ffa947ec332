package catalog

import (
	"strings"

	"github.com/agromaq/quotation-server/internal/models"
)

// Pure, order-preserving operations over a machine list. The same helpers
// back the HTTP handlers, the Telegram bot, and the client library, so none
// of them touch the database or the network.

// ActiveOnly returns the machines with Active set, preserving input order.
func ActiveOnly(machines []models.Machine) []models.Machine {
	out := make([]models.Machine, 0, len(machines))
	for _, m := range machines {
		if m.Active {
			out = append(out, m)
		}
	}
	return out
}

// FindByCode returns the first machine with an exact code match, or nil.
// Duplicate codes make the catalog ambiguous; first occurrence wins.
func FindByCode(code string, machines []models.Machine) *models.Machine {
	for i := range machines {
		if machines[i].Code == code {
			return &machines[i]
		}
	}
	return nil
}

// Search filters by case-insensitive substring against name, category and
// code. An empty term returns the input unchanged.
func Search(term string, machines []models.Machine) []models.Machine {
	if term == "" {
		return machines
	}
	t := strings.ToLower(term)
	out := make([]models.Machine, 0, len(machines))
	for _, m := range machines {
		if strings.Contains(strings.ToLower(m.Name), t) ||
			strings.Contains(strings.ToLower(m.Category), t) ||
			strings.Contains(strings.ToLower(m.Code), t) {
			out = append(out, m)
		}
	}
	return out
}

// ByCategory returns the machines belonging to the given category.
func ByCategory(category string, machines []models.Machine) []models.Machine {
	out := make([]models.Machine, 0, len(machines))
	for _, m := range machines {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

// GroupByCategory buckets machines by category. Categories returns the bucket
// keys in order of first appearance so callers can render stable listings.
func GroupByCategory(machines []models.Machine) map[string][]models.Machine {
	groups := make(map[string][]models.Machine)
	for _, m := range machines {
		groups[m.Category] = append(groups[m.Category], m)
	}
	return groups
}

// Categories lists distinct categories in order of first appearance.
func Categories(machines []models.Machine) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range machines {
		if !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	return out
}
