package config

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteSettingsApplyToEveryConnection(t *testing.T) {
	db, err := ConnectDB(DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "data", "store.db")})
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	var conns []*sql.Conn
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for i := 0; i < 4; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		conns = append(conns, conn)
	}

	for i, conn := range conns {
		var foreignKeys int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if foreignKeys != 1 {
			t.Errorf("conn %d foreign_keys = %d, want 1", i, foreignKeys)
		}
		var mode string
		if err := conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("conn %d journal_mode: %v", i, err)
		}
		if !strings.EqualFold(mode, "wal") {
			t.Errorf("conn %d journal_mode = %q, want wal", i, mode)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"store.db", "store.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"},
		{"store.db?cache=shared", "store.db?cache=shared&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"},
		{"store.db?_foreign_keys=off&_journal_mode=DELETE&_busy_timeout=1&_txlock=deferred", "store.db?_foreign_keys=off&_journal_mode=DELETE&_busy_timeout=1&_txlock=deferred"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
