package utils

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum number of characters accepted for a password.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// IsValidPasswordLength checks if password meets minimum length requirement
// (in characters) and fits into bcrypt's input limit (in bytes).
func IsValidPasswordLength(password string, minLength int) bool {
	return utf8.RuneCountInString(password) >= minLength && len(password) <= MaxPasswordBytes
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher is the bcrypt implementation of PasswordHasher. Zero Cost means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
