package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MinSigningKeyBytes is the shortest HMAC key GenerateSigningKey hands out (HS256 block size).
const MinSigningKeyBytes = 32

// GenerateRandomString produces a cryptographically random base64url string of n bytes.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateSigningKey generates a random admin.signing_key of at least MinSigningKeyBytes bytes.
func GenerateSigningKey(n int) (string, error) {
	return GenerateRandomString(max(n, MinSigningKeyBytes))
}
