package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// verificationTokenBytes gives 256 bits of entropy.
const verificationTokenBytes = 32

// GenerateVerificationToken returns a random hex string used once to prove
// control of an email address.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
