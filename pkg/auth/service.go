package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/observability"
	"github.com/curatorhq/curator/pkg/rbac"
)

// DefaultSessionTTL is how long a session remains valid without renewal.
const DefaultSessionTTL = 24 * time.Hour

// lastSeenInterval coalesces last_seen_at writes: Resolve refreshes the
// column at most this often per session, so validation stays a pure read
// in the common case.
const lastSeenInterval = time.Minute

// Service orchestrates login, session resolution, logout, and user
// management over the UserStore and SessionStore. All operations take the
// acting Principal explicitly; none consult any ambient state.
type Service struct {
	users    *UserStore
	sessions *SessionStore
	hasher   *Hasher
	cache    PrincipalCache
	ttl      time.Duration
	log      *logrus.Logger
	metrics  *observability.Metrics

	// dummyHash absorbs a bcrypt verification when the user is unknown or
	// inactive, so failed logins take comparable time in all cases.
	dummyHash string
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithCache attaches a PrincipalCache. The service invalidates it on
// logout, password change, and deactivation.
func WithCache(cache PrincipalCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *observability.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithSessionTTL overrides the default session lifetime.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewService creates the auth service.
func NewService(users *UserStore, sessions *SessionStore, hasher *Hasher, log *logrus.Logger, opts ...ServiceOption) (*Service, error) {
	if log == nil {
		log = logrus.New()
	}

	// Hashing this once at startup costs one bcrypt round and buys
	// constant-shape failed logins for the process lifetime.
	dummyHash, err := hasher.Hash("curator-login-timing-pad")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	s := &Service{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		ttl:       DefaultSessionTTL,
		log:       log,
		dummyHash: dummyHash,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login verifies the credentials and, on success, issues a session and
// returns the raw token alongside it. Unknown username, wrong password,
// and deactivated account all return ErrInvalidCredentials: a caller must
// not be able to probe which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.metrics.ObserveLogin("error")
		return "", nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if user == nil || !user.IsActive {
		// Burn a verification against the dummy hash so this path costs
		// the same as a wrong password for an existing user.
		s.hasher.Verify(password, s.dummyHash)
		s.metrics.ObserveLogin("denied")
		return "", nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.CredentialHash) {
		s.metrics.ObserveLogin("denied")
		return "", nil, ErrInvalidCredentials
	}

	session, token, err := s.sessions.Create(ctx, user.ID, s.ttl)
	if err != nil {
		s.metrics.ObserveLogin("error")
		return "", nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, session.CreatedAt); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}

	s.metrics.ObserveLogin("success")
	s.log.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"username":     user.Username,
		"token_prefix": session.TokenPrefix,
	}).Info("login succeeded")

	return token, session, nil
}

// Resolve validates a presented token and returns the owning Principal.
//
// An absent or expired session returns ErrInvalidSession; expired rows are
// deleted opportunistically on the way out. A session whose owner has been
// deactivated also returns ErrInvalidSession, but the row is kept: it
// becomes usable again if the account is reactivated before it expires.
func (s *Service) Resolve(ctx context.Context, token string) (rbac.Principal, error) {
	if err := ValidateTokenFormat(token); err != nil {
		s.metrics.ObserveResolve("denied")
		return rbac.Principal{}, ErrInvalidSession
	}
	tokenHash := HashToken(token)

	if s.cache != nil {
		if entry, ok := s.cache.Get(ctx, tokenHash); ok {
			// A cached hit must still respect the session's own expiry,
			// which is usually longer than a cache entry's TTL but can
			// also land inside it.
			if time.Now().UTC().Before(entry.ExpiresAt) {
				s.metrics.ObserveResolve("cached")
				return entry.Principal, nil
			}
			s.cache.Invalidate(ctx, tokenHash)
		}
	}

	session, err := s.sessions.Find(ctx, tokenHash)
	if err != nil {
		s.metrics.ObserveResolve("error")
		return rbac.Principal{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if session == nil {
		s.metrics.ObserveResolve("denied")
		return rbac.Principal{}, ErrInvalidSession
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		if err := s.sessions.Revoke(ctx, tokenHash); err != nil {
			s.log.WithError(err).Warn("failed to delete expired session")
		}
		s.metrics.ObserveResolve("denied")
		return rbac.Principal{}, ErrInvalidSession
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		s.metrics.ObserveResolve("error")
		return rbac.Principal{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if user == nil || !user.IsActive {
		s.metrics.ObserveResolve("denied")
		return rbac.Principal{}, ErrInvalidSession
	}

	if session.LastSeenAt == nil || now.Sub(*session.LastSeenAt) > lastSeenInterval {
		if err := s.sessions.TouchLastSeen(ctx, tokenHash, now); err != nil {
			s.log.WithError(err).Warn("failed to refresh session last_seen_at")
		}
	}

	principal := user.Principal()
	if s.cache != nil {
		s.cache.Put(ctx, tokenHash, CachedPrincipal{Principal: principal, ExpiresAt: session.ExpiresAt})
	}
	s.metrics.ObserveResolve("success")
	return principal, nil
}

// Logout revokes the session unconditionally. Idempotent: unknown or
// malformed tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := ValidateTokenFormat(token); err != nil {
		return nil
	}
	tokenHash := HashToken(token)

	if err := s.sessions.Revoke(ctx, tokenHash); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, tokenHash)
	}
	return nil
}

// CreateUser creates an account. Gated on ManageUsers: only admins pass.
func (s *Service) CreateUser(ctx context.Context, principal rbac.Principal, username, email string, role rbac.Role, password string) (*User, error) {
	decision := rbac.Check(principal, rbac.ActionManageUsers, nil)
	s.metrics.ObservePermissionCheck(string(rbac.ActionManageUsers), decision.Allowed)
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, decision.Reason)
	}

	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %q", role)
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	credentialHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	user := &User{
		Username:       username,
		Email:          email,
		Role:           role,
		CredentialHash: credentialHash,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"created_by": principal.UserID,
	}).Info("user created")
	return user, nil
}

// ChangePassword rehashes and overwrites the target's credential. Allowed
// for the user themselves and for admins.
//
// Existing sessions stay valid after a password change; this keeps the
// behavior convenient for self-service changes, and the tradeoff is
// recorded rather than inherited silently. The principal cache IS
// invalidated so any role or activity change rides along immediately.
func (s *Service) ChangePassword(ctx context.Context, principal rbac.Principal, targetUserID int64, newPassword string) error {
	if principal.UserID != targetUserID {
		decision := rbac.Check(principal, rbac.ActionManageUsers, nil)
		s.metrics.ObservePermissionCheck(string(rbac.ActionManageUsers), decision.Allowed)
		if !decision.Allowed {
			return fmt.Errorf("%w: may only change own password", ErrPermissionDenied)
		}
	}

	if newPassword == "" {
		return fmt.Errorf("password is required")
	}

	credentialHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash credential: %w", err)
	}

	if err := s.users.SetCredentialHash(ctx, targetUserID, credentialHash); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateUser(ctx, targetUserID)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    targetUserID,
		"changed_by": principal.UserID,
	}).Info("password changed")
	return nil
}

// DeactivateUser marks the target inactive. Admin only. Sessions are not
// swept: they fail at validation time, and become usable again if the
// account is reactivated. A deactivated admin cannot deactivate themselves
// into a system without admins.
func (s *Service) DeactivateUser(ctx context.Context, principal rbac.Principal, targetUserID int64) error {
	decision := rbac.Check(principal, rbac.ActionManageUsers, nil)
	s.metrics.ObservePermissionCheck(string(rbac.ActionManageUsers), decision.Allowed)
	if !decision.Allowed {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, decision.Reason)
	}
	if principal.UserID == targetUserID {
		return fmt.Errorf("%w: cannot deactivate own account", ErrPermissionDenied)
	}

	if err := s.users.Deactivate(ctx, targetUserID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateUser(ctx, targetUserID)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        targetUserID,
		"deactivated_by": principal.UserID,
	}).Info("user deactivated")
	return nil
}

// ListUsers returns all user accounts. Admin only.
func (s *Service) ListUsers(ctx context.Context, principal rbac.Principal) ([]User, error) {
	decision := rbac.Check(principal, rbac.ActionManageUsers, nil)
	s.metrics.ObservePermissionCheck(string(rbac.ActionManageUsers), decision.Allowed)
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, decision.Reason)
	}
	return s.users.List(ctx)
}

// ListSessions returns the principal's own sessions (token prefixes only).
func (s *Service) ListSessions(ctx context.Context, principal rbac.Principal) ([]Session, error) {
	return s.sessions.ListByUser(ctx, principal.UserID)
}

// SweepExpired removes expired sessions and reports how many were deleted.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.ObserveSweep(removed)
	if removed > 0 {
		s.log.WithField("removed", removed).Info("swept expired sessions")
	}
	return removed, nil
}
