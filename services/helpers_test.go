package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/WideDream/sto-mana/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testToday = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.ConnectDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "store.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type testStore struct {
	db        *gorm.DB
	customers *CustomerService
	ledger    *LedgerService
	reports   *ReportService
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db := openTestDB(t)
	if err := NewSchemaService(db, zap.NewNop()).EnsureSchema(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	customers := NewCustomerService(db)
	return &testStore{
		db:        db,
		customers: customers,
		ledger:    NewLedgerService(db, customers).WithClock(func() time.Time { return testToday }),
		reports:   NewReportService(db),
	}
}

func (s *testStore) mustCreate(t *testing.T, in RecordInput) uint {
	t.Helper()
	rec, err := s.ledger.CreateRecord(context.Background(), in)
	if err != nil {
		t.Fatalf("create record %+v: %v", in, err)
	}
	return rec.ID
}
