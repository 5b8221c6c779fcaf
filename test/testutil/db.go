package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/xxxsen/msgvault/internal/config"
	"github.com/xxxsen/msgvault/internal/db"
)

func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "msgvault",
		Password: "msgvault_pass",
		DBName:   "msgvault_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	ResetTables(t, conn)
	return conn, func() {
		_ = conn.Close()
	}
}

func ResetTables(t *testing.T, conn *sql.DB) {
	t.Helper()
	tables := []string{"message_channels", "message_meta", "import_batches", "messages", "channels"}
	for _, table := range tables {
		if _, err := conn.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
}
