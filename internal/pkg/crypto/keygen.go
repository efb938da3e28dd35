// Package crypto provides the credential helpers used when registering users.
package crypto

import (
	"crypto/rand"
	"fmt"
)

// SaltLength is the length of generated salts.
const SaltLength = 8

// saltChars contains characters used in salts (mixed case alphanumeric).
const saltChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSalt generates a random 8-character salt.
// Example: "TQA4jYpW"
func GenerateSalt() (string, error) {
	return generateRandomString(SaltLength, saltChars)
}

// generateRandomString generates a random string of the specified length
// using characters from the provided character set.
func generateRandomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	charsetLen := len(charset)

	// Generate random bytes
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Map to charset
	for i := 0; i < length; i++ {
		result[i] = charset[int(randomBytes[i])%charsetLen]
	}

	return string(result), nil
}
