// Package secrets owns the one-way password transform. Callers store only the
// derived form; the plaintext is discarded as soon as hashing completes.
package secrets

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "civicid/pkg/domain-errors"
)

// Hasher hashes and verifies passwords with bcrypt. The cost is injected so
// tests can run at the minimum cost while production uses the default.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher, clamping out-of-range costs to bcrypt's default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives the storable form of a password. bcrypt generates a fresh salt
// per call, so hashing the same password twice yields different outputs.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored form. A mismatch or
// a malformed stored form returns false rather than an error so callers can
// collapse both into one generic credential failure.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
