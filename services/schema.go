package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/WideDream/sto-mana/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// evolvedRecordColumns are the record fields added after the first release.
// Existing stores get them one at a time.
var evolvedRecordColumns = []string{"CustomerID", "Date", "DueDate", "PaymentStatus", "Notes"}

// legacyNameColumn is where the first release stored the customer name on
// each record.
const legacyNameColumn = "full_name"

// SchemaService prepares the store for the current release.
type SchemaService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSchemaService(db *gorm.DB, log *zap.Logger) *SchemaService {
	return &SchemaService{db: db, log: log}
}

// EnsureSchema creates missing tables, adds record columns introduced since the
// first release, links legacy rows to customers and makes sure one operator
// account exists. Failures while evolving the record table are logged and
// skipped; only failures to create a table or the bootstrap account are
// returned.
func (s *SchemaService) EnsureSchema(ctx context.Context, username, password string) error {
	db := s.db.WithContext(ctx)
	m := db.Migrator()

	recordsExisted := m.HasTable(&models.Record{})

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.User{},
		&models.ReminderLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if !recordsExisted {
		if err := m.CreateTable(&models.Record{}); err != nil {
			return fmt.Errorf("create records table: %w", err)
		}
	} else {
		s.addMissingRecordColumns(db)
		s.linkLegacyRecords(db)
	}

	return s.ensureBootstrapUser(db, username, password)
}

func (s *SchemaService) addMissingRecordColumns(db *gorm.DB) {
	m := db.Migrator()
	for _, column := range evolvedRecordColumns {
		if m.HasColumn(&models.Record{}, column) {
			continue
		}
		if err := m.AddColumn(&models.Record{}, column); err != nil {
			s.log.Warn("add record column failed", zap.String("column", column), zap.Error(err))
			continue
		}
		s.log.Info("added record column", zap.String("column", column))
	}
}

// linkLegacyRecords resolves a customer for every record that still only
// carries the old free-text name.
func (s *SchemaService) linkLegacyRecords(db *gorm.DB) {
	m := db.Migrator()
	if !m.HasColumn(&models.Record{}, legacyNameColumn) || !m.HasColumn(&models.Record{}, "CustomerID") {
		return
	}

	var names []string
	err := db.Table("records").
		Where("customer_id IS NULL AND full_name IS NOT NULL AND full_name <> ''").
		Distinct().
		Pluck(legacyNameColumn, &names).Error
	if err != nil {
		s.log.Warn("read legacy records failed", zap.Error(err))
		return
	}

	customers := NewCustomerService(s.db)
	for _, name := range names {
		err := db.Transaction(func(tx *gorm.DB) error {
			id, err := customers.resolveOrCreate(tx, name)
			if err != nil {
				return err
			}
			return tx.Table("records").
				Where("customer_id IS NULL AND full_name = ?", name).
				Update("customer_id", id).Error
		})
		if err != nil {
			s.log.Warn("link legacy records failed", zap.String("name", name), zap.Error(err))
		}
	}
	if len(names) > 0 {
		s.log.Info("linked legacy records", zap.Int("customers", len(names)))
	}
}

func (s *SchemaService) ensureBootstrapUser(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if username == "" || password == "" {
		return errors.New("bootstrap account credentials are not configured")
	}

	user := models.User{
		Username: username,
		Password: password, // hashed in BeforeCreate
		Name:     username,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create bootstrap user: %w", err)
	}
	s.log.Info("created bootstrap account", zap.String("username", username))
	return nil
}
