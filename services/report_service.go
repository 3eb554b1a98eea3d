package services

import (
	"context"
	"time"

	"github.com/WideDream/sto-mana/models"
	"github.com/WideDream/sto-mana/utils"
	"gorm.io/gorm"
)

const (
	DefaultMonthLimit    = 12
	DefaultCustomerLimit = 10
)

type MonthlySales struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type CustomerSummary struct {
	CustomerID uint    `json:"customerId"`
	Name       string  `json:"name"`
	Spent      float64 `json:"spent"`
	Visits     int64   `json:"visits"`
}

type StatusSummary struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Loan   float64 `json:"loan"`
}

// ReportService answers read-only questions about the ledger.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// MonthlySales groups sales by calendar month, most recent first.
func (s *ReportService) MonthlySales(ctx context.Context, limit int) ([]MonthlySales, error) {
	if limit <= 0 {
		limit = DefaultMonthLimit
	}
	months := []MonthlySales{}
	err := s.db.WithContext(ctx).Model(&models.Record{}).
		Select("SUBSTR(records.date, 1, 7) AS month, COALESCE(SUM(records.total), 0) AS total, COUNT(*) AS count").
		Where("records.date IS NOT NULL AND records.date <> ''").
		Group("SUBSTR(records.date, 1, 7)").
		Order("month DESC").
		Limit(limit).
		Scan(&months).Error
	return months, err
}

// TopCustomers ranks customers by the total of their records.
func (s *ReportService) TopCustomers(ctx context.Context, limit int) ([]CustomerSummary, error) {
	if limit <= 0 {
		limit = DefaultCustomerLimit
	}
	customers := []CustomerSummary{}
	err := s.db.WithContext(ctx).Table("records").
		Select("customers.id AS customer_id, customers.full_name AS name, COALESCE(SUM(records.total), 0) AS spent, COUNT(records.id) AS visits").
		Joins("JOIN customers ON customers.id = records.customer_id").
		Group("customers.id, customers.full_name").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error
	return customers, err
}

// PaymentStatusSummary counts records and sums outstanding loans per status.
func (s *ReportService) PaymentStatusSummary(ctx context.Context) ([]StatusSummary, error) {
	statuses := []StatusSummary{}
	err := s.db.WithContext(ctx).Model(&models.Record{}).
		Select("COALESCE(records.payment_status, '') AS status, COUNT(*) AS count, COALESCE(SUM(records.loan), 0) AS loan").
		Group("COALESCE(records.payment_status, '')").
		Order("status ASC").
		Scan(&statuses).Error
	return statuses, err
}

// OverdueRecords lists pending records with money still owed whose due date
// is before today, soonest due first. today is read as a local calendar date.
func (s *ReportService) OverdueRecords(ctx context.Context, today time.Time) ([]RecordRow, error) {
	rows := []RecordRow{}
	err := recordRows(s.db.WithContext(ctx)).
		Where("records.payment_status = ?", models.StatusPending).
		Where("records.due_date IS NOT NULL AND records.due_date <> ''").
		Where("records.due_date < ?", utils.FormatDate(today)).
		Where("records.loan > 0").
		Order("records.due_date ASC").
		Order("records.id ASC").
		Scan(&rows).Error
	return rows, err
}

// CountOverdue is the number of records OverdueRecords would return.
func (s *ReportService) CountOverdue(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Record{}).
		Where("records.payment_status = ?", models.StatusPending).
		Where("records.due_date IS NOT NULL AND records.due_date <> ''").
		Where("records.due_date < ?", utils.FormatDate(today)).
		Where("records.loan > 0").
		Count(&count).Error
	return count, err
}
