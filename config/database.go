package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the store selected by cfg.Driver. The returned handle is
// shared by every service; nothing in the application keeps a global copy.
func ConnectDB(cfg DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}
	gormConfig := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		path, _, _ := strings.Cut(strings.TrimPrefix(cfg.DSN, "file:"), "?")
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// sqliteConnParams are applied by the driver to every pooled connection.
// Immediate transactions take the write lock up front, so concurrent writers
// wait on busy_timeout instead of failing when they upgrade a read lock.
var sqliteConnParams = [][2]string{
	{"_foreign_keys", "on"},
	{"_journal_mode", "WAL"},
	{"_busy_timeout", "5000"},
	{"_txlock", "immediate"},
}

// sqliteDSN adds the connection parameters the DSN does not already set.
func sqliteDSN(dsn string) string {
	var params []string
	for _, p := range sqliteConnParams {
		if !strings.Contains(dsn, p[0]+"=") {
			params = append(params, p[0]+"="+p[1])
		}
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
