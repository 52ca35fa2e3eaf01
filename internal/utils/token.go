package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// NewSecureToken returns a 256-bit random token, base64url encoded.
// Used for per-session CSRF tokens and OAuth state parameters.
func NewSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewNonce returns a short random value for CSP script nonces.
func NewNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}
