// Package api implements the HTTP front-end over the auth core and the
// article domain.
//
// # Routes
//
// Unauthenticated:
//
//	POST /auth/login   - exchange credentials for a session token
//	GET  /healthz      - liveness probe
//	GET  /metrics      - Prometheus metrics
//
// Authenticated (Bearer token):
//
//	POST   /auth/logout                  - revoke the presented token
//	GET    /auth/whoami                  - the resolved principal
//	GET    /auth/sessions                - caller's sessions (prefixes only)
//	PUT    /auth/users/{id}/password     - change password (self or admin)
//	POST   /auth/users                   - create user (admin)
//	GET    /auth/users                   - list users (admin)
//	DELETE /auth/users/{id}              - deactivate user (admin)
//	POST   /articles                     - create article
//	GET    /articles                     - list visible articles
//	GET    /articles/{id}                - fetch one article
//	PUT    /articles/{id}                - update article
//	DELETE /articles/{id}                - delete article
//	PUT    /articles/{id}/share          - set the shared flag
//
// # Error mapping
//
// Core errors map to statuses without leaking detail: invalid credentials
// and invalid sessions are both 401 with generic messages, permission
// denials are 403, and an article the caller may not read is a plain 404,
// identical to one that does not exist.
package api
