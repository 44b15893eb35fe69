package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionStore handles session persistence. Sessions are looked up by the
// SHA-256 hash of the presented token; the raw token never reaches the
// database.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a SessionStore over the given database.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create issues a new session for a user with the given TTL and returns
// both the stored session and the raw token. The raw token is the only
// copy that will ever exist.
func (s *SessionStore) Create(ctx context.Context, userID int64, ttl time.Duration) (*Session, string, error) {
	token, tokenHash, tokenPrefix, err := GenerateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &Session{
		TokenHash:   tokenHash,
		TokenPrefix: tokenPrefix,
		UserID:      userID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, token_prefix, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, session.TokenHash, session.TokenPrefix, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return session, token, nil
}

// Find retrieves a session by token hash. Returns (nil, nil) when absent,
// which callers treat identically to expired.
func (s *SessionStore) Find(ctx context.Context, tokenHash string) (*Session, error) {
	session := &Session{}
	var lastSeen sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT token_hash, token_prefix, user_id, created_at, expires_at, last_seen_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&session.TokenHash,
		&session.TokenPrefix,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
		&lastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if lastSeen.Valid {
		t := lastSeen.Time
		session.LastSeenAt = &t
	}
	return session, nil
}

// Revoke deletes a session. Idempotent: revoking an absent session is a
// no-op.
func (s *SessionStore) Revoke(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// TouchLastSeen refreshes a session's last_seen_at. Best effort; callers
// coalesce writes so this does not run on every validation.
func (s *SessionStore) TouchLastSeen(ctx context.Context, tokenHash string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = $1 WHERE token_hash = $2`,
		at.UTC(), tokenHash,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// SweepExpired deletes all sessions whose expiry has passed and returns
// how many were removed. Safe to call concurrently and redundantly: a
// session deleted by a concurrent sweep just makes a later lookup observe
// "absent" instead of "expired", which callers already treat the same.
func (s *SessionStore) SweepExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept sessions: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's sessions, newest first. Only token prefixes
// are exposed.
func (s *SessionStore) ListByUser(ctx context.Context, userID int64) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token_hash, token_prefix, user_id, created_at, expires_at, last_seen_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		var lastSeen sql.NullTime
		if err := rows.Scan(
			&session.TokenHash,
			&session.TokenPrefix,
			&session.UserID,
			&session.CreatedAt,
			&session.ExpiresAt,
			&lastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if lastSeen.Valid {
			t := lastSeen.Time
			session.LastSeenAt = &t
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}
