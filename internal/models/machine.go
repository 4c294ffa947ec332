package models

import "time"

// Machine is a catalog entry for a piece of agricultural equipment.
// Code is the stable business identifier used for lookup and selection;
// only active machines are offered for quotation.
type Machine struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:40;not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"not null" json:"name"`
	Price       float64   `gorm:"not null" json:"price"`
	Category    string    `gorm:"index" json:"category"`
	Description string    `json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
