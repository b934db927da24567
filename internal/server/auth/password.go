package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filehost/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt. Each call uses a fresh random
// salt, so hashing the same password twice yields different strings.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Zero means
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password. Passwords longer than bcrypt's
// 72-byte limit are rejected with common.ErrValidation.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password longer than 72 bytes", common.ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil);
// a malformed hash is an error.
func (h *BcryptHasher) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
