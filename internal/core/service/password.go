package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sxc/scholarhub/internal/core/domain"
)

// msgPasswordTooLong is reported for passwords bcrypt cannot hash.
const msgPasswordTooLong = "Password must be at most 72 bytes"

// HashPassword returns the bcrypt hash of plaintext at the default cost.
// Passwords over bcrypt's 72-byte limit fail with a ValidationError.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewValidationError(msgPasswordTooLong)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
func VerifyPassword(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}
