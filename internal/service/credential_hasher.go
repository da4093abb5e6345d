package service

import (
	"golang.org/x/crypto/bcrypt"

	"stocksim/internal/domain"
)

// Compile-time interface check
var _ domain.CredentialHasher = (*BcryptHasher)(nil)

// BcryptHasher implements CredentialHasher with bcrypt
type BcryptHasher struct{}

// NewBcryptHasher creates a new BcryptHasher
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash hashes a secret with bcrypt at the default cost
func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether secret matches hash
func (h *BcryptHasher) Verify(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
