// Package auth covers credential hashing and the JWT layer that keeps
// every request bound to a user id.
package auth

import (
	"errors"
	"fmt"

	"financas/internal/core"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("%w: password must be at least 6 characters", core.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against its stored hash.
// A mismatch maps onto ErrInvalidCredentials so callers never leak
// whether the email or the password was wrong.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return core.ErrInvalidCredentials
		}
		return fmt.Errorf("check password: %w", err)
	}
	return nil
}
