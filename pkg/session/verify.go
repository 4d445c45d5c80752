package session

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a confirmation code entered by the operator.
type Verifier interface {
	Verify(input string) bool
}

// PlainCode accepts an exact match of a shared code.
type PlainCode string

// Verify implements Verifier.
func (c PlainCode) Verify(input string) bool {
	if c == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c), []byte(input)) == 1
}

// HashedCode accepts input matching a bcrypt hash, so the configured code
// does not have to be stored in clear text.
type HashedCode string

// Verify implements Verifier.
func (h HashedCode) Verify(input string) bool {
	if h == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h), []byte(input)) == nil
}

// HashCode produces a bcrypt hash for use with HashedCode.
func HashCode(code string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
