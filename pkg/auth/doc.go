// Package auth implements curator's authentication core: credential
// hashing, session issuance and validation, and user management.
//
// # Overview
//
// The package is organized around two storage-layer types and one
// orchestrator:
//
//   - UserStore and SessionStore are dumb persistence layers over
//     database/sql. They enforce nothing; permission gating lives in the
//     Service and in pkg/rbac.
//   - Service orchestrates login (verify credential, issue session),
//     resolution (token to Principal), logout, and the admin-gated user
//     management operations.
//
// # Sessions
//
// Session tokens carry 256 bits of CSPRNG entropy and are formatted
// cur_<base64url>. Only the SHA-256 hash of a token is persisted; the raw
// token exists exactly once, in the login response. A short identifying
// prefix is stored for session listings and logs.
//
// A session moves through three states: active, expired (detected lazily
// at validation, never by a timer), and revoked (explicit logout,
// terminal). Expired rows are reclaimed opportunistically during
// resolution and in bulk by the cron Sweeper.
//
// # Failure semantics
//
// Login failures are deliberately indistinguishable: unknown username,
// wrong password, and deactivated account all produce
// ErrInvalidCredentials, and the unknown-username path burns a bcrypt
// verification against a fixed dummy hash so its latency matches the
// others. Resolution failures all produce ErrInvalidSession. Storage
// failures wrap ErrStorageUnavailable and are fatal to the request; the
// core never retries.
//
// Raw credentials and tokens never appear in logs; only token prefixes do.
//
// # Caching
//
// Resolve optionally consults a PrincipalCache (in-process LRU or Redis).
// The Service invalidates it on logout, password change, and
// deactivation, and entries expire after a short TTL regardless.
package auth
