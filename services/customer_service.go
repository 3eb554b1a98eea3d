package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/WideDream/sto-mana/models"
	"gorm.io/gorm"
)

const resolveSavepoint = "resolve_customer"

// CustomerBalance is a customer together with their ledger totals.
type CustomerBalance struct {
	ID          uint    `json:"id"`
	FullName    string  `json:"fullName"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Note        string  `json:"note"`
	CreditLimit float64 `json:"creditLimit"`
	RecordCount int64   `json:"recordCount"`
	TotalSales  float64 `json:"totalSales"`
	Outstanding float64 `json:"outstanding"`
	OverLimit   bool    `json:"overLimit" gorm:"-"`
}

// CustomerStatement lists a customer's records oldest first.
type CustomerStatement struct {
	Customer    models.Customer `json:"customer"`
	Records     []models.Record `json:"records"`
	TotalSales  float64         `json:"totalSales"`
	TotalPaid   float64         `json:"totalPaid"`
	Outstanding float64         `json:"outstanding"`
}

// CustomerService owns customer entities.
type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// ResolveOrCreate returns the id of the customer with exactly this name,
// creating the customer when none exists. Surrounding whitespace is ignored;
// case is not.
func (s *CustomerService) ResolveOrCreate(ctx context.Context, fullName string) (uint, error) {
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = s.resolveOrCreate(tx, fullName)
		return err
	})
	return id, err
}

// resolveOrCreate must run inside a transaction. A concurrent insert of the
// same name surfaces as a duplicate key; the savepoint keeps the outer
// transaction usable so the winner's row can be read back.
func (s *CustomerService) resolveOrCreate(tx *gorm.DB, fullName string) (uint, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return 0, invalid("customer_name", "is required")
	}

	var existing models.Customer
	err := tx.Where("full_name = ?", name).Take(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup customer: %w", err)
	}

	if err := tx.SavePoint(resolveSavepoint).Error; err != nil {
		return 0, fmt.Errorf("savepoint: %w", err)
	}
	customer := models.Customer{FullName: name}
	if err := tx.Create(&customer).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("create customer: %w", translate(err))
		}
		if err := tx.RollbackTo(resolveSavepoint).Error; err != nil {
			return 0, fmt.Errorf("rollback to savepoint: %w", err)
		}
		var winner models.Customer
		if err := tx.Where("full_name = ?", name).Take(&winner).Error; err != nil {
			return 0, fmt.Errorf("%w: customer %q created concurrently but not readable: %v", ErrConflict, name, err)
		}
		return winner.ID, nil
	}
	return customer.ID, nil
}

// UpdateProfile overwrites the contact fields. Unknown ids are ignored.
func (s *CustomerService) UpdateProfile(ctx context.Context, id uint, phone, address, note string) error {
	return s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"phone":   phone,
			"address": address,
			"note":    note,
		}).Error
}

// SetCreditLimit stores the amount the customer may owe before being flagged.
func (s *CustomerService) SetCreditLimit(ctx context.Context, id uint, limit float64) error {
	if limit < 0 {
		return invalid("credit_limit", "must not be negative")
	}
	result := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Update("credit_limit", limit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, fmt.Errorf("customer %d: %w", id, translate(err))
	}
	return &customer, nil
}

// ListCustomers returns every customer with their totals, optionally limited
// to names containing search.
func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]CustomerBalance, error) {
	q := s.db.WithContext(ctx).Table("customers").
		Select(`customers.id, customers.full_name, customers.phone, customers.address, customers.note,
			customers.credit_limit, COUNT(records.id) AS record_count,
			COALESCE(SUM(records.total), 0) AS total_sales, COALESCE(SUM(records.loan), 0) AS outstanding`).
		Joins("LEFT JOIN records ON records.customer_id = customers.id")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("customers.full_name LIKE ?"+likeEscape, likePattern(search))
	}

	balances := []CustomerBalance{}
	err := q.Group("customers.id, customers.full_name, customers.phone, customers.address, customers.note, customers.credit_limit").
		Order("customers.full_name ASC").
		Scan(&balances).Error
	if err != nil {
		return nil, err
	}
	for i := range balances {
		b := &balances[i]
		b.OverLimit = b.CreditLimit > 0 && b.Outstanding > b.CreditLimit
	}
	return balances, nil
}

// Statement returns the customer's records oldest first with running totals.
func (s *CustomerService) Statement(ctx context.Context, id uint) (*CustomerStatement, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	statement := CustomerStatement{Customer: *customer, Records: []models.Record{}}
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Order("records.date ASC, records.id ASC").
		Find(&statement.Records).Error; err != nil {
		return nil, err
	}
	for _, r := range statement.Records {
		statement.TotalSales += r.Total
		statement.TotalPaid += r.Paid
		statement.Outstanding += r.Loan
	}
	return &statement, nil
}

func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

const likeEscape = ` ESCAPE '\'`

// likePattern escapes LIKE wildcards in term and wraps it for a substring match.
func likePattern(term string) string {
	term = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(term)
	return "%" + term + "%"
}
