package storage

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOpen_SQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DSN = ":memory:"

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = "oracle"

	if _, err := Open(cfg); err == nil {
		t.Error("Open() with unknown driver should fail")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"pq other", &pq.Error{Code: "23503"}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, false},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.username"), true},
		{"postgres message", errors.New("pq: duplicate key value violates unique constraint"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMigrate(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	migrations := []Migration{
		{Version: 1, Description: "create things", SQL: `CREATE TABLE things (id INTEGER PRIMARY KEY)`},
		{Version: 2, Description: "add name", SQL: `ALTER TABLE things ADD COLUMN name TEXT`},
	}

	if err := Migrate(ctx, db, migrations, testLogger()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Schema is usable.
	if _, err := db.Exec(`INSERT INTO things (name) VALUES ('x')`); err != nil {
		t.Errorf("schema incomplete after migration: %v", err)
	}

	// Re-running is a no-op, not a failure.
	if err := Migrate(ctx, db, migrations, testLogger()); err != nil {
		t.Errorf("repeated Migrate() error = %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("failed to count applied migrations: %v", err)
	}
	if n != 2 {
		t.Errorf("applied %d migrations, want 2", n)
	}
}

func TestMigrate_BadSQLRollsBack(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	bad := []Migration{{Version: 1, Description: "broken", SQL: `CREATE TABEL oops`}}

	if err := Migrate(ctx, db, bad, testLogger()); err == nil {
		t.Fatal("Migrate() with invalid SQL should fail")
	}

	// The failed version must not be recorded.
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("failed to count applied migrations: %v", err)
	}
	if n != 0 {
		t.Errorf("failed migration was recorded: %d rows", n)
	}
}
