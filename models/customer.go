package models

import "time"

// Customer is created implicitly the first time a record names it.
// FullName is the lookup key and is compared exactly.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FullName    string    `gorm:"size:255;uniqueIndex;not null" json:"fullName"`
	Phone       string    `gorm:"size:32" json:"phone"`
	Address     string    `gorm:"size:255" json:"address"`
	Note        string    `gorm:"type:text" json:"note"`
	CreditLimit float64   `gorm:"default:0" json:"creditLimit"`
	CreatedAt   time.Time `json:"createdAt"`
}
