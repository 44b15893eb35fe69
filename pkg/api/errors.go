package api

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/content"
	"github.com/curatorhq/curator/pkg/httputil"
)

// writeServiceError maps the core error taxonomy onto HTTP statuses.
// Messages are deliberately generic: invalid credentials and invalid
// sessions both read as "log in again", and permission denials never
// reveal whether the resource exists.
func writeServiceError(w http.ResponseWriter, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "invalid credentials")
	case errors.Is(err, auth.ErrInvalidSession):
		httputil.WriteUnauthorized(w, "invalid or expired session")
	case errors.Is(err, auth.ErrPermissionDenied):
		httputil.WriteForbidden(w, "you do not have permission for this action")
	case errors.Is(err, auth.ErrDuplicateUsername):
		httputil.WriteConflict(w, "username already exists")
	case errors.Is(err, content.ErrNotFound):
		httputil.WriteNotFound(w, "not found")
	case errors.Is(err, auth.ErrStorageUnavailable):
		log.WithError(err).Error("storage unavailable")
		httputil.WriteServiceUnavailable(w, "service temporarily unavailable")
	default:
		log.WithError(err).Error("request failed")
		httputil.WriteBadRequest(w, err.Error())
	}
}
