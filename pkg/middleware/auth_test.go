package middleware

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/contextkeys"
	"github.com/curatorhq/curator/pkg/rbac"
	"github.com/curatorhq/curator/pkg/storage"
)

func setupAuth(t *testing.T) (*Auth, string) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := storage.Migrate(ctx, db, auth.Migrations(storage.DriverSQLite), log); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	users := auth.NewUserStore(db)
	hasher := auth.NewHasher(bcrypt.MinCost, log)
	service, err := auth.NewService(users, auth.NewSessionStore(db), hasher, log)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	hash, _ := hasher.Hash("password123")
	user := &auth.User{Username: "alice", Role: rbac.RoleUser, CredentialHash: hash, IsActive: true}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	token, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	return NewAuth(service, log), token
}

func principalEcho() (http.Handler, *rbac.Principal) {
	var captured rbac.Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := contextkeys.GetPrincipal(r.Context()); ok {
			captured = p
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, &captured
}

func TestAuth_Handler(t *testing.T) {
	mw, token := setupAuth(t)
	inner, captured := principalEcho()
	handler := mw.Handler(inner)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer cur_notreal", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if captured.Username != "alice" {
		t.Errorf("principal in context = %+v, want alice", captured)
	}
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(inner)

	// No principal at all: the auth middleware did not run.
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no principal: status = %d, want 401", rec.Code)
	}

	// Non-admin principal.
	ctx := contextkeys.WithPrincipal(context.Background(), rbac.Principal{UserID: 2, Username: "alice", Role: rbac.RoleUser})
	req = httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user principal: status = %d, want 403", rec.Code)
	}

	// Admin passes.
	ctx = contextkeys.WithPrincipal(context.Background(), rbac.Principal{UserID: 1, Username: "root", Role: rbac.RoleAdmin})
	req = httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin principal: status = %d, want 200", rec.Code)
	}
}
