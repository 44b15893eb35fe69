package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/curatorhq/curator/pkg/rbac"
	"github.com/curatorhq/curator/pkg/storage"
)

// UserStore handles user persistence. It is a dumb storage layer: it does
// not enforce permissions, which are the Service's and rbac's job.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore over the given database.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. The credential hash must already be computed.
// Returns ErrDuplicateUsername if the username is taken.
func (s *UserStore) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, role, credential_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		string(user.Role),
		user.CredentialHash,
		user.IsActive,
		now,
	).Scan(&user.ID)

	if err != nil {
		if storage.IsUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now
	return nil
}

// FindByUsername retrieves a user by exact (case-sensitive) username.
// Returns (nil, nil) when no such user exists.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, `WHERE username = $1`, username)
}

// FindByID retrieves a user by id. Returns (nil, nil) when absent.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *UserStore) findOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	query := `
		SELECT id, username, email, role, credential_hash, is_active, created_at, last_login_at
		FROM users ` + where

	user := &User{}
	var role string
	var lastLogin sql.NullTime

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&role,
		&user.CredentialHash,
		&user.IsActive,
		&user.CreatedAt,
		&lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.Role = rbac.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return user, nil
}

// SetCredentialHash overwrites the stored credential hash for a user.
func (s *UserStore) SetCredentialHash(ctx context.Context, id int64, credentialHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET credential_hash = $1 WHERE id = $2`,
		credentialHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update credential hash: %w", err)
	}
	return requireRowAffected(res, "user", id)
}

// TouchLastLogin records a successful login time.
func (s *UserStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $1 WHERE id = $2`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// Deactivate marks a user inactive. Owned resources are untouched; the
// user's sessions become unusable at validation time without being swept.
func (s *UserStore) Deactivate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2`,
		false, id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return requireRowAffected(res, "user", id)
}

// List returns all users ordered by id. Admin-gating happens at the
// service layer, not here.
func (s *UserStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, role, credential_hash, is_active, created_at, last_login_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		var role string
		var lastLogin sql.NullTime
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&role,
			&user.CredentialHash,
			&user.IsActive,
			&user.CreatedAt,
			&lastLogin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = rbac.Role(role)
		if lastLogin.Valid {
			t := lastLogin.Time
			user.LastLoginAt = &t
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// CountActiveAdmins returns the number of active admin users. Used by the
// bootstrap check.
func (s *UserStore) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND is_active = $2`,
		string(rbac.RoleAdmin), true,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

func requireRowAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %d", entity, id)
	}
	return nil
}
