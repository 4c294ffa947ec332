package db

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/agromaq/quotation-server/internal/models"
)

//go:embed catalog.json
var catalogJSON []byte

type catalogCategory struct {
	Categoria string   `json:"categoria"`
	Productos []string `json:"productos"`
}

// SeedCatalog inserts the machinery catalog on an empty machines table.
// Codes are derived from the category prefix plus a running counter
// (ACO001, TOL018, ...) and prices start as placeholders the admin panel
// is expected to correct. A non-empty table is left untouched.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Machine{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	machines, err := CatalogMachines()
	if err != nil {
		return err
	}
	return db.Create(&machines).Error
}

// CatalogMachines decodes the embedded catalog into machine rows.
func CatalogMachines() ([]models.Machine, error) {
	var categories []catalogCategory
	if err := json.Unmarshal(catalogJSON, &categories); err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}
	var machines []models.Machine
	id := 1
	for _, cat := range categories {
		prefix := categoryPrefix(cat.Categoria)
		for _, name := range cat.Productos {
			machines = append(machines, models.Machine{
				Code:        fmt.Sprintf("%s%03d", prefix, id),
				Name:        name,
				Price:       float64(10000 + id*1000),
				Category:    cat.Categoria,
				Description: "Descripción de " + name,
				Active:      true,
			})
			id++
		}
	}
	return machines, nil
}

func categoryPrefix(category string) string {
	r := []rune(category)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}
