// Package password hashes credentials with bcrypt. Digests embed the
// algorithm, cost and salt, so Verify needs nothing but the digest.
package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

// Cost is the bcrypt work factor applied to every new digest.
const Cost = 10

// MaxBytes is the longest plaintext bcrypt reads; anything past it is ignored.
const MaxBytes = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: Cost}
}

// Hash returns a salted digest of plaintext. Empty input is rejected; callers
// with no password must skip hashing instead.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if digest == "" || len(plaintext) > MaxBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
