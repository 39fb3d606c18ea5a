package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for every stored password hash.
const BcryptCost = 12

// MaxPasswordBytes is the longest secret bcrypt can digest.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// Passwords hashes and verifies secrets with bcrypt at a fixed cost.
type Passwords struct {
	Cost int
}

// DefaultPasswords is the production hasher.
var DefaultPasswords = Passwords{Cost: BcryptCost}

func (p Passwords) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	cost := p.Cost
	if cost == 0 {
		cost = BcryptCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify reports whether password matches hashedPassword. Malformed hashes
// never match.
func (p Passwords) Verify(password, hashedPassword string) bool {
	return CheckPassword(hashedPassword, password) == nil
}

func HashPassword(password string) (string, error) {
	return DefaultPasswords.Hash(password)
}

func VerifyPassword(password, hashedPassword string) bool {
	return DefaultPasswords.Verify(password, hashedPassword)
}

func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
