package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

func randomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// GenerateSecureRandomString returns lengthInBytes random bytes, hex encoded.
// For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	b, err := randomBytes(lengthInBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateURLSafeToken returns lengthInBytes random bytes as unpadded base64url, suitable for links.
func GenerateURLSafeToken(lengthInBytes int) (string, error) {
	b, err := randomBytes(lengthInBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
