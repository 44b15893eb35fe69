// Package middleware provides HTTP middleware that resolves session
// tokens into principals and enforces coarse role requirements.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/contextkeys"
	"github.com/curatorhq/curator/pkg/httputil"
	"github.com/curatorhq/curator/pkg/rbac"
)

// Auth resolves the Bearer token on each request into an rbac.Principal
// and stores it in the request context. Requests without a valid session
// are rejected with 401; the message never distinguishes absent, expired,
// and revoked tokens.
type Auth struct {
	service *auth.Service
	log     *logrus.Logger
}

// NewAuth creates the authentication middleware.
func NewAuth(service *auth.Service, log *logrus.Logger) *Auth {
	if log == nil {
		log = logrus.New()
	}
	return &Auth{service: service, log: log}
}

// Handler wraps an HTTP handler with authentication.
func (m *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httputil.WriteUnauthorized(w, "missing or malformed authorization header")
			return
		}

		principal, err := m.service.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidSession) {
				httputil.WriteUnauthorized(w, "invalid or expired session")
				return
			}
			m.log.WithError(err).Error("session resolution failed")
			httputil.WriteServiceUnavailable(w, "authentication unavailable")
			return
		}

		ctx := contextkeys.WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin wraps a handler with an admin-role gate. It assumes Auth
// ran earlier in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := contextkeys.GetPrincipal(r.Context())
		if !ok {
			httputil.WriteUnauthorized(w, "authentication required")
			return
		}
		if !rbac.Can(principal, rbac.ActionManageUsers, nil) {
			httputil.WriteForbidden(w, "you do not have permission for this action")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
