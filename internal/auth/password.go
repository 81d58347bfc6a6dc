package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey hashes a plaintext key with the given cost.
func HashAPIKey(key string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// isBcryptHash reports whether a configured key is a bcrypt hash.
func isBcryptHash(configured string) bool {
	return strings.HasPrefix(configured, "$2")
}

// CompareAPIKey verifies a presented key against the configured value,
// which may be plain text or a bcrypt hash.
func CompareAPIKey(configured, presented string) bool {
	if configured == "" || presented == "" {
		return false
	}
	if isBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) == 1
}
