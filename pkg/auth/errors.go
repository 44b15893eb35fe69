package auth

import "errors"

// Error taxonomy for the authentication core. Callers match these with
// errors.Is; front-ends translate them into generic user-facing messages.
var (
	// ErrInvalidCredentials covers unknown username, wrong password, and
	// deactivated account alike. Returning a single variant for all three
	// is the anti-enumeration contract: a caller cannot distinguish
	// "no such user" from "bad password".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession covers absent, expired, and inactive-owner tokens.
	ErrInvalidSession = errors.New("invalid session")

	// ErrPermissionDenied means the principal resolved but the action is
	// not allowed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDuplicateUsername is returned when creating a user whose username
	// is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrStorageUnavailable wraps backing-store failures. It is fatal to
	// the current request and never retried inside the core.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
