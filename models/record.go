package models

// Payment status labels used by the application. The column itself is free text.
const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// Record is one sale on the ledger. Total and Loan are derived from the other
// amounts and are recomputed on every write. Date and DueDate are stored as
// YYYY-MM-DD so they order correctly as strings.
type Record struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	CustomerID    *uint   `gorm:"index" json:"customerId"`
	Product       string  `gorm:"size:255;not null" json:"product"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Total         float64 `json:"total"`
	Paid          float64 `json:"paid"`
	Loan          float64 `json:"loan"`
	Date          string  `gorm:"type:varchar(10);index" json:"date"`
	DueDate       string  `gorm:"type:varchar(10);index" json:"dueDate"`
	PaymentStatus string  `gorm:"type:varchar(32);default:'pending'" json:"paymentStatus"`
	Notes         string  `gorm:"type:text" json:"notes"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// Recompute refreshes the derived amounts from quantity, unit price and paid.
func (r *Record) Recompute() {
	r.Total = r.Quantity * r.UnitPrice
	r.Loan = r.Total - r.Paid
}
