package db

import (
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/models"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Machine{}, &models.Quotation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCatalogMachines(t *testing.T) {
	machines, err := CatalogMachines()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(machines) != 25 {
		t.Fatalf("expected 25 catalog machines, got %d", len(machines))
	}
	if machines[0].Code != "ACO001" || machines[0].Category != "Acoplados rurales" {
		t.Fatalf("first entry: %+v", machines[0])
	}
	if machines[0].Price != 11000 {
		t.Fatalf("sample pricing: got %v", machines[0].Price)
	}
	// codes are unique and category-prefixed
	seen := map[string]bool{}
	for _, m := range machines {
		if seen[m.Code] {
			t.Fatalf("duplicate code %s", m.Code)
		}
		seen[m.Code] = true
		if !m.Active {
			t.Fatalf("seeded machine %s not active", m.Code)
		}
		if !strings.HasPrefix(m.Code, strings.ToUpper(m.Category[:3])) {
			t.Fatalf("code %s does not match category %s", m.Code, m.Category)
		}
	}
}

func TestSeedCatalogIdempotent(t *testing.T) {
	db := setupSeedDB(t)
	if err := SeedCatalog(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	var count int64
	db.Model(&models.Machine{}).Count(&count)
	if count != 25 {
		t.Fatalf("expected 25 rows after seed, got %d", count)
	}
	// second run must not duplicate
	if err := SeedCatalog(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	db.Model(&models.Machine{}).Count(&count)
	if count != 25 {
		t.Fatalf("seed not idempotent: %d rows", count)
	}
}
