package models

import "time"

// Quotation is the persisted record of a generated quote. The PDF itself is
// not stored; it can be re-rendered from this row plus the machine entry,
// which is how idempotent replays return the original document.
type Quotation struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	MachineCode     string  `gorm:"not null;index" json:"machine_code"`
	ClientCuit      string  `json:"client_cuit"`
	ClientName      string  `gorm:"not null" json:"client_name"`
	ClientPhone     string  `json:"client_phone"`
	ClientEmail     string  `json:"client_email"`
	ClientCompany   string  `json:"client_company"`
	Notes           string  `gorm:"type:text" json:"notes"`
	Quantity        int     `gorm:"not null;default:1" json:"quantity"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountApplied bool    `gorm:"not null;default:false" json:"discount_applied"`
	FinalPrice      float64 `gorm:"not null" json:"final_price"`
	// IdempotencyKey deduplicates client retries: a repeated key replays the
	// stored quotation instead of creating a second record.
	IdempotencyKey string    `gorm:"size:64;index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}
