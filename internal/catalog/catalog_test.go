package catalog

import (
	"testing"

	"github.com/agromaq/quotation-server/internal/models"
)

func sampleMachines() []models.Machine {
	return []models.Machine{
		{ID: 1, Code: "ACO001", Name: "Acoplado rural playo", Category: "Acoplados rurales", Price: 11000, Active: true},
		{ID: 2, Code: "ACO002", Name: "Acoplado tanque 3000 Lts.", Category: "Acoplados tanque", Price: 12000, Active: true},
		{ID: 3, Code: "TOL003", Name: "Acoplado tolva cerealero 4 TT.", Category: "Tolvas", Price: 13000, Active: false},
		{ID: 4, Code: "TOL004", Name: "Acoplado tolva cerealero 8 TT.", Category: "Tolvas", Price: 14000, Active: true},
	}
}

func TestActiveOnlyExcludesInactive(t *testing.T) {
	got := ActiveOnly(sampleMachines())
	if len(got) != 3 {
		t.Fatalf("expected 3 active machines, got %d", len(got))
	}
	for _, m := range got {
		if !m.Active {
			t.Fatalf("inactive machine %s leaked through", m.Code)
		}
	}
	// server-provided order preserved
	if got[0].Code != "ACO001" || got[1].Code != "ACO002" || got[2].Code != "TOL004" {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestFindByCode(t *testing.T) {
	machines := sampleMachines()
	m := FindByCode("ACO002", machines)
	if m == nil || m.Name != "Acoplado tanque 3000 Lts." {
		t.Fatalf("unexpected result: %+v", m)
	}
	if FindByCode("NOPE", machines) != nil {
		t.Fatal("expected nil for absent code")
	}
}

func TestFindByCodeFirstMatchWins(t *testing.T) {
	machines := []models.Machine{
		{ID: 1, Code: "DUP", Name: "first", Active: true},
		{ID: 2, Code: "DUP", Name: "second", Active: true},
	}
	m := FindByCode("DUP", machines)
	if m == nil || m.Name != "first" {
		t.Fatalf("expected first occurrence, got %+v", m)
	}
}

func TestSearch(t *testing.T) {
	machines := sampleMachines()
	cases := []struct {
		term string
		want int
	}{
		{"", 4},        // empty term: full list unchanged
		{"tolva", 2},   // name match, case-insensitive
		{"TANQUE", 1},  // category match
		{"aco0", 2},    // code match
		{"ZZZNOPE", 0}, // no match
	}
	for _, c := range cases {
		got := Search(c.term, machines)
		if len(got) != c.want {
			t.Errorf("Search(%q): expected %d results, got %d", c.term, c.want, len(got))
		}
	}
	// empty term preserves order
	full := Search("", machines)
	for i := range machines {
		if full[i].Code != machines[i].Code {
			t.Fatalf("empty search reordered results at %d", i)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	machines := sampleMachines()
	groups := GroupByCategory(machines)
	if len(groups) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(groups))
	}
	if len(groups["Tolvas"]) != 2 {
		t.Fatalf("expected 2 tolvas, got %d", len(groups["Tolvas"]))
	}
	cats := Categories(machines)
	want := []string{"Acoplados rurales", "Acoplados tanque", "Tolvas"}
	if len(cats) != len(want) {
		t.Fatalf("categories: %v", cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("category order: got %v want %v", cats, want)
		}
	}
}

func TestByCategory(t *testing.T) {
	got := ByCategory("Tolvas", sampleMachines())
	if len(got) != 2 || got[0].Code != "TOL003" {
		t.Fatalf("unexpected: %v", got)
	}
}
