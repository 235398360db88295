package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionToken returns a 32-byte random token encoded as 64 hex
// characters. Session tokens are opaque and only ever compared by
// exact lookup.
func NewSessionToken() (string, error) {
	return randomHex(32)
}

// NewCredentialID returns a 16-byte random identifier. Credential IDs
// are opaque and deliberately distinct from the scope name.
func NewCredentialID() (string, error) {
	return randomHex(16)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
