package api

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/contextkeys"
	"github.com/curatorhq/curator/pkg/httputil"
	"github.com/curatorhq/curator/pkg/rbac"
)

// AuthHandlers handles authentication and user-management HTTP requests.
type AuthHandlers struct {
	service *auth.Service
	log     *logrus.Logger
}

// NewAuthHandlers creates the auth handlers.
func NewAuthHandlers(service *auth.Service, log *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{service: service, log: log}
}

// login handles POST /auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "username and password are required")
		return
	}

	token, session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"token":      token,
		"expires_at": session.ExpiresAt,
	})
}

// logout handles POST /auth/logout. The token being revoked is the one
// the request authenticated with.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		// The auth middleware already validated this; just be safe.
		httputil.WriteUnauthorized(w, "missing authorization header")
		return
	}

	if err := h.service.Logout(r.Context(), parts[1]); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteNoContent(w)
}

// whoami handles GET /auth/whoami
func (h *AuthHandlers) whoami(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}
	httputil.WriteSuccess(w, principal)
}

// listSessions handles GET /auth/sessions: the caller's own sessions,
// token prefixes only.
func (h *AuthHandlers) listSessions(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), principal)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteSuccess(w, sessions)
}

// createUser handles POST /auth/users
func (h *AuthHandlers) createUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Username == "" {
		httputil.WriteBadRequest(w, "username is required")
		return
	}
	role := rbac.Role(req.Role)
	if !role.Valid() {
		httputil.WriteBadRequest(w, "role must be one of: admin, user, viewer")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "password is required")
		return
	}

	user, err := h.service.CreateUser(r.Context(), principal, req.Username, req.Email, role, req.Password)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteCreated(w, user)
}

// listUsers handles GET /auth/users
func (h *AuthHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	users, err := h.service.ListUsers(r.Context(), principal)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteSuccess(w, users)
}

// deactivateUser handles DELETE /auth/users/{id}
func (h *AuthHandlers) deactivateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateUser(r.Context(), principal, id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteNoContent(w)
}

// changePassword handles PUT /auth/users/{id}/password
func (h *AuthHandlers) changePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "password is required")
		return
	}

	if err := h.service.ChangePassword(r.Context(), principal, id, req.Password); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteNoContent(w)
}
