package models

import "time"

// Product is a catalog entry. Records carry a free-text product name and
// never reference this table.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Unit      string    `gorm:"size:32" json:"unit"`
	Price     float64   `gorm:"not null;default:0" json:"price"`
	Stock     float64   `gorm:"default:0" json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
}
