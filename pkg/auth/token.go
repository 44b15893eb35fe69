package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// TokenPrefix identifies curator session tokens.
	TokenPrefix = "cur_"
	// TokenLength is the number of random bytes per token (32 bytes = 256 bits).
	TokenLength = 32
)

// GenerateToken creates a new session token.
// Format: cur_<base64url(32 random bytes)>. The returned hash is the
// SHA-256 of the full token and is what gets persisted; the raw token is
// handed to the client once and never stored. The prefix (first 8 encoded
// characters) is kept for identification in logs and listings.
func GenerateToken() (token, tokenHash, tokenPrefix string, err error) {
	randomBytes := make([]byte, TokenLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(randomBytes)
	fullToken := TokenPrefix + encoded

	return fullToken, HashToken(fullToken), DisplayPrefix(fullToken), nil
}

// HashToken computes the SHA-256 hash of a token for storage and lookup.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateTokenFormat checks that a presented token has the expected shape
// before any storage lookup happens.
func ValidateTokenFormat(token string) error {
	if !strings.HasPrefix(token, TokenPrefix) {
		return fmt.Errorf("token must start with %q", TokenPrefix)
	}
	encoded := strings.TrimPrefix(token, TokenPrefix)
	if encoded == "" {
		return fmt.Errorf("token is too short")
	}
	if _, err := base64.RawURLEncoding.DecodeString(encoded); err != nil {
		return fmt.Errorf("invalid token encoding: %w", err)
	}
	return nil
}

// DisplayPrefix returns the short identifying prefix of a token, safe to
// log and show in session listings.
func DisplayPrefix(token string) string {
	encoded := strings.TrimPrefix(token, TokenPrefix)
	if len(encoded) >= 8 {
		return TokenPrefix + encoded[:8]
	}
	return token
}
