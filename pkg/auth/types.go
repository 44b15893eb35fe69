package auth

import (
	"time"

	"github.com/curatorhq/curator/pkg/rbac"
)

// User represents an account. Users are never hard-deleted; deactivation
// preserves the referential integrity of their owned resources.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	Role           rbac.Role  `json:"role"`
	CredentialHash string     `json:"-"` // Never expose hash
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// Principal returns the identity value attached to requests authenticated
// as this user.
func (u *User) Principal() rbac.Principal {
	return rbac.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Session represents a login session. The raw token is returned to the
// caller exactly once at login; only its SHA-256 hash is persisted.
type Session struct {
	TokenHash   string     `json:"-"`
	TokenPrefix string     `json:"token_prefix"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
}

// Expired reports whether the session's expiry has passed as of now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
