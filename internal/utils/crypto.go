// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateRandomToken returns a hex string of 2*n characters from the
// system CSPRNG. Used for OAuth state values and email verification
// tokens.
func GenerateRandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateVerificationCode returns a 32-character token.
func GenerateVerificationCode() (string, error) {
	return GenerateRandomToken(16)
}
