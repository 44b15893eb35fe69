package auth

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor. Cost 12 lands around 100ms
// per hash on commodity hardware, which is the brute-force resistance
// target. Raising it later is safe: the cost is embedded in each stored
// hash, so verification remains self-describing.
const DefaultHashCost = 12

// Hasher performs adaptive one-way credential hashing. Hash and Verify are
// CPU-bound and block for the duration of the work factor; interactive
// callers must offload them rather than run them inline.
type Hasher struct {
	cost int
	log  *logrus.Logger
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to DefaultHashCost.
func NewHasher(cost int, log *logrus.Logger) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	if log == nil {
		log = logrus.New()
	}
	return &Hasher{cost: cost, log: log}
}

// Hash returns the bcrypt hash of plaintext. The salt and cost are embedded
// in the output.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. It returns
// false for both a mismatch and a malformed hash; the two cases are never
// distinguishable to the caller, which closes the oracle a distinct
// "corrupt hash" error would open. A malformed hash is logged as an
// integrity warning since it indicates corrupted storage, not user error.
func (h *Hasher) Verify(plaintext, credentialHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(credentialHash), []byte(plaintext))
	if err == nil {
		return true
	}
	if err != bcrypt.ErrMismatchedHashAndPassword {
		h.log.WithError(err).Warn("stored credential hash is malformed")
	}
	return false
}
