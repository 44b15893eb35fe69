package auth

import (
	"context"
	"database/sql"
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/curatorhq/curator/pkg/rbac"
	"github.com/curatorhq/curator/pkg/storage"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := storage.Migrate(context.Background(), db, Migrations(storage.DriverSQLite), testLogger()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// newTestService wires a Service over an in-memory database with the
// cheapest bcrypt cost so individual tests stay fast.
func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *UserStore, *SessionStore) {
	t.Helper()

	db := setupTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db)
	hasher := NewHasher(bcrypt.MinCost, testLogger())

	service, err := NewService(users, sessions, hasher, testLogger(), opts...)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return service, users, sessions
}

func createTestUser(t *testing.T, service *Service, users *UserStore, username, password string, role rbac.Role) *User {
	t.Helper()

	credentialHash, err := service.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	user := &User{
		Username:       username,
		Role:           role,
		CredentialHash: credentialHash,
		IsActive:       true,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create(%s) error = %v", username, err)
	}
	return user
}
