package auth

import (
	"strings"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token, tokenHash, tokenPrefix, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if !strings.HasPrefix(token, TokenPrefix) {
		t.Errorf("Token should start with %q, got %q", TokenPrefix, token)
	}

	// SHA-256 = 64 hex chars
	if len(tokenHash) != 64 {
		t.Errorf("TokenHash length = %d, want 64", len(tokenHash))
	}

	if !strings.HasPrefix(tokenPrefix, TokenPrefix) {
		t.Errorf("TokenPrefix should start with %q, got %q", TokenPrefix, tokenPrefix)
	}

	// 32 random bytes base64url-encode to 43 characters.
	if len(token) != len(TokenPrefix)+43 {
		t.Errorf("Token length = %d, want %d", len(token), len(TokenPrefix)+43)
	}

	if err := ValidateTokenFormat(token); err != nil {
		t.Errorf("generated token should validate, got %v", err)
	}
}

func TestGenerateToken_Uniqueness(t *testing.T) {
	tokens := make(map[string]bool)
	hashes := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, tokenHash, _, err := GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		if tokens[token] {
			t.Errorf("Duplicate token generated: %s", token)
		}
		if hashes[tokenHash] {
			t.Errorf("Duplicate token hash generated: %s", tokenHash)
		}

		tokens[token] = true
		hashes[tokenHash] = true
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	token := "cur_test123456789"
	hash1 := HashToken(token)
	hash2 := HashToken(token)

	if hash1 != hash2 {
		t.Error("Same token should produce same hash")
	}
	if len(hash1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(hash1))
	}
	if HashToken("cur_other") == hash1 {
		t.Error("Different tokens should produce different hashes")
	}
}

func TestValidateTokenFormat(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"empty", "", true},
		{"wrong prefix", "spk_abcdefgh", true},
		{"prefix only", "cur_", true},
		{"invalid base64", "cur_!!!not-base64!!!", true},
		{"valid", "cur_dGVzdHRva2VuZGF0YQ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTokenFormat(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTokenFormat(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
		})
	}
}

func TestDisplayPrefix(t *testing.T) {
	token, _, prefix, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if got := DisplayPrefix(token); got != prefix {
		t.Errorf("DisplayPrefix() = %q, want %q", got, prefix)
	}
	if len(prefix) != len(TokenPrefix)+8 {
		t.Errorf("prefix length = %d, want %d", len(prefix), len(TokenPrefix)+8)
	}
	if strings.Contains(prefix, token[len(prefix):]) {
		t.Error("prefix must not contain the token remainder")
	}
}
