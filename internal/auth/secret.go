package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateSessionSecret creates a random 32-byte secret, hex encoded.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFKey derives the 32-byte CSRF authentication key from the configured
// secret. An empty secret yields a random key, so tokens issued before a
// restart stop validating.
func CSRFKey(secret string) ([]byte, error) {
	if secret == "" {
		generated, err := GenerateSessionSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}
