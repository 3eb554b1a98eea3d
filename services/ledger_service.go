package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/WideDream/sto-mana/models"
	"github.com/WideDream/sto-mana/utils"
	"gorm.io/gorm"
)

// DefaultDueDays is how long a customer has to settle a new record when no
// due date is given.
const DefaultDueDays = 30

// PastLoanProduct labels records that carry a debt taken on before the
// customer was entered in the ledger.
const PastLoanProduct = "Past loan"

// RecordInput carries the raw form values for a record. Amounts are parsed
// leniently: anything that is not a number counts as 0.
type RecordInput struct {
	CustomerName  string
	Product       string
	Quantity      string
	UnitPrice     string
	Paid          string
	Date          string
	DueDate       string
	PaymentStatus string
	Notes         string
}

// RecordOrder selects the ordering of ListRecords.
type RecordOrder int

const (
	NewestFirst RecordOrder = iota
	OldestDateFirst
)

// RecordFilter narrows ListRecords. Empty fields do not constrain the result.
type RecordFilter struct {
	Customer string
	Product  string
	Status   string
	From     string
	To       string
	Order    RecordOrder
	Limit    int
}

// RecordRow is a record joined with its customer's name.
type RecordRow struct {
	ID            uint    `json:"id"`
	CustomerID    *uint   `json:"customerId"`
	FullName      string  `json:"fullName"`
	Product       string  `json:"product"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Total         float64 `json:"total"`
	Paid          float64 `json:"paid"`
	Loan          float64 `json:"loan"`
	Date          string  `json:"date"`
	DueDate       string  `json:"dueDate"`
	PaymentStatus string  `json:"paymentStatus"`
	Notes         string  `json:"notes"`
}

type Totals struct {
	TotalSales float64 `json:"totalSales"`
	TotalLoans float64 `json:"totalLoans"`
}

const recordRowColumns = `records.id, records.customer_id, COALESCE(customers.full_name, '') AS full_name,
	COALESCE(records.product, '') AS product, COALESCE(records.quantity, 0) AS quantity,
	COALESCE(records.unit_price, 0) AS unit_price, COALESCE(records.total, 0) AS total,
	COALESCE(records.paid, 0) AS paid, COALESCE(records.loan, 0) AS loan,
	COALESCE(records.date, '') AS date, COALESCE(records.due_date, '') AS due_date,
	COALESCE(records.payment_status, '') AS payment_status, COALESCE(records.notes, '') AS notes`

// recordRows starts a query over records joined with customer names.
func recordRows(db *gorm.DB) *gorm.DB {
	return db.Table("records").
		Select(recordRowColumns).
		Joins("LEFT JOIN customers ON customers.id = records.customer_id")
}

// LedgerService owns sale records and keeps their derived amounts consistent.
type LedgerService struct {
	db        *gorm.DB
	customers *CustomerService
	now       func() time.Time
}

func NewLedgerService(db *gorm.DB, customers *CustomerService) *LedgerService {
	return &LedgerService{db: db, customers: customers, now: time.Now}
}

// WithClock replaces the source of "today" used for default dates.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// CreateRecord stores a new sale, creating the customer on first use.
func (s *LedgerService) CreateRecord(ctx context.Context, in RecordInput) (rec *models.Record, err error) {
	defer func() { observe("create", err) }()

	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		return nil, invalid("customer_name", "is required")
	}
	record, err := s.buildRecord(in)
	if err != nil {
		return nil, err
	}

	today := s.now()
	if record.Date == "" {
		record.Date = utils.FormatDate(today)
	}
	if record.DueDate == "" {
		record.DueDate = utils.FormatDate(today.AddDate(0, 0, DefaultDueDays))
	}
	if record.PaymentStatus == "" {
		record.PaymentStatus = models.StatusPending
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customerID, err := s.customers.resolveOrCreate(tx, customerName)
		if err != nil {
			return err
		}
		record.CustomerID = &customerID
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("create record: %w", translate(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// AddPastLoan records a debt the customer already owed as an unpaid record.
func (s *LedgerService) AddPastLoan(ctx context.Context, customerName, amount, date, dueDate, notes string) (*models.Record, error) {
	return s.CreateRecord(ctx, RecordInput{
		CustomerName:  customerName,
		Product:       PastLoanProduct,
		Quantity:      "1",
		UnitPrice:     amount,
		Paid:          "0",
		Date:          date,
		DueDate:       dueDate,
		PaymentStatus: models.StatusPending,
		Notes:         notes,
	})
}

// UpdateRecord rewrites a record in place and recomputes its derived amounts.
// The customer link never changes. Blank dates and status keep their stored
// values.
func (s *LedgerService) UpdateRecord(ctx context.Context, id uint, in RecordInput) (rec *models.Record, err error) {
	defer func() { observe("update", err) }()

	changes, err := s.buildRecord(in)
	if err != nil {
		return nil, err
	}

	var record models.Record
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&record, id).Error; err != nil {
			return fmt.Errorf("record %d: %w", id, translate(err))
		}

		record.Product = changes.Product
		record.Quantity = changes.Quantity
		record.UnitPrice = changes.UnitPrice
		record.Paid = changes.Paid
		record.Notes = changes.Notes
		if changes.Date != "" {
			record.Date = changes.Date
		}
		if changes.DueDate != "" {
			record.DueDate = changes.DueDate
		}
		if changes.PaymentStatus != "" {
			record.PaymentStatus = changes.PaymentStatus
		}
		record.Recompute()
		if err := checkAmounts(&record); err != nil {
			return err
		}

		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RecordPayment adds a payment to a record and updates its status.
func (s *LedgerService) RecordPayment(ctx context.Context, id uint, amount string) (rec *models.Record, err error) {
	defer func() { observe("payment", err) }()

	paid := utils.ParseAmount(amount)
	if paid <= 0 {
		return nil, invalid("amount", "must be greater than zero")
	}

	var record models.Record
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&record, id).Error; err != nil {
			return fmt.Errorf("record %d: %w", id, translate(err))
		}
		record.Paid += paid
		record.Recompute()
		if err := checkAmounts(&record); err != nil {
			return err
		}
		if record.Loan <= 0 {
			record.PaymentStatus = models.StatusPaid
		} else {
			record.PaymentStatus = models.StatusPartial
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRecord removes a record. Deleting an unknown id is not an error.
func (s *LedgerService) DeleteRecord(ctx context.Context, id uint) (err error) {
	defer func() { observe("delete", err) }()
	return s.db.WithContext(ctx).Delete(&models.Record{}, id).Error
}

func (s *LedgerService) GetRecord(ctx context.Context, id uint) (*models.Record, error) {
	var record models.Record
	if err := s.db.WithContext(ctx).Preload("Customer").First(&record, id).Error; err != nil {
		return nil, fmt.Errorf("record %d: %w", id, translate(err))
	}
	return &record, nil
}

// ListRecords returns records with their customer names. All filter fields
// that are set must match.
func (s *LedgerService) ListRecords(ctx context.Context, filter RecordFilter) ([]RecordRow, error) {
	from, err := utils.CanonicalDate(filter.From)
	if err != nil {
		return nil, invalid("from", err.Error())
	}
	to, err := utils.CanonicalDate(filter.To)
	if err != nil {
		return nil, invalid("to", err.Error())
	}

	q := recordRows(s.db.WithContext(ctx))
	if v := strings.TrimSpace(filter.Customer); v != "" {
		q = q.Where("customers.full_name LIKE ?"+likeEscape, likePattern(v))
	}
	if v := strings.TrimSpace(filter.Product); v != "" {
		q = q.Where("records.product LIKE ?"+likeEscape, likePattern(v))
	}
	if v := strings.TrimSpace(filter.Status); v != "" {
		q = q.Where("records.payment_status = ?", v)
	}
	if from != "" {
		q = q.Where("records.date >= ?", from)
	}
	if to != "" {
		q = q.Where("records.date <= ?", to)
	}

	switch filter.Order {
	case OldestDateFirst:
		q = q.Order("records.date ASC").Order("records.id ASC")
	default:
		q = q.Order("records.id DESC")
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	rows := []RecordRow{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AggregateTotals sums sales and outstanding loans over every record.
func (s *LedgerService) AggregateTotals(ctx context.Context) (Totals, error) {
	var totals Totals
	err := s.db.WithContext(ctx).Model(&models.Record{}).
		Select("COALESCE(SUM(total), 0) AS total_sales, COALESCE(SUM(loan), 0) AS total_loans").
		Scan(&totals).Error
	return totals, err
}

func (s *LedgerService) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Record{}).Count(&count).Error
	return count, err
}

// buildRecord validates and normalizes the parts of a record that come from
// the caller. Date fields are left empty when not supplied.
func (s *LedgerService) buildRecord(in RecordInput) (*models.Record, error) {
	product := strings.TrimSpace(in.Product)
	if product == "" {
		return nil, invalid("product", "is required")
	}
	date, err := utils.CanonicalDate(in.Date)
	if err != nil {
		return nil, invalid("date", err.Error())
	}
	dueDate, err := utils.CanonicalDate(in.DueDate)
	if err != nil {
		return nil, invalid("due_date", err.Error())
	}

	record := &models.Record{
		Product:       product,
		Quantity:      utils.ParseAmount(in.Quantity),
		UnitPrice:     utils.ParseAmount(in.UnitPrice),
		Paid:          utils.ParseAmount(in.Paid),
		Date:          date,
		DueDate:       dueDate,
		PaymentStatus: strings.TrimSpace(in.PaymentStatus),
		Notes:         strings.TrimSpace(in.Notes),
	}
	record.Recompute()
	if err := checkAmounts(record); err != nil {
		return nil, err
	}
	return record, nil
}

// MaxAmount bounds every stored amount so that totals over the whole ledger
// stay finite.
const MaxAmount = 1e15

// checkAmounts rejects records whose amounts overflowed or exceed MaxAmount.
func checkAmounts(r *models.Record) error {
	for _, a := range []struct {
		field string
		value float64
	}{
		{"total", r.Total},
		{"paid", r.Paid},
		{"loan", r.Loan},
	} {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) || math.Abs(a.value) > MaxAmount {
			return invalid(a.field, "amount is too large")
		}
	}
	return nil
}

// IsNotFound reports whether err means the addressed entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
