package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

const (
	// SessionTokenBytes is the entropy of an opaque session token (hex encoded to 64 chars).
	SessionTokenBytes = 32

	numericCodeMin = 100000
	numericCodeMax = 999999
)

var (
	randomRead             = rand.Read
	randomReader io.Reader = rand.Reader
)

// GenerateRandomToken generates a random hex token from length bytes
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateSessionToken returns an unguessable opaque session token.
func GenerateSessionToken() (string, error) {
	return GenerateRandomToken(SessionTokenBytes)
}

// GenerateNumericCode returns a uniformly random code in [100000, 999999].
// The lower bound keeps the decimal rendering at exactly six digits.
func GenerateNumericCode() (string, error) {
	span := big.NewInt(numericCodeMax - numericCodeMin + 1)
	n, err := rand.Int(randomReader, span)
	if err != nil {
		return "", fmt.Errorf("failed to generate numeric code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+numericCodeMin), nil
}

// SecureCompare reports whether a and b are equal in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
