// Package nonce generates the cryptographically secure random values used
// as challenge and authorization nonces throughout OpenKitx403.
package nonce

import (
	"crypto/rand"
	"fmt"

	"github.com/openkitx403/openkitx403/pkg/encoding"
)

// MinBytes is the minimum entropy (96 bits) the protocol requires of a
// nonce, expressed in bytes.
const MinBytes = 12

// New returns a fresh nonce with at least MinBytes of entropy, encoded as
// base64url.
func New() (string, error) {
	return Sized(MinBytes)
}

// Sized returns a fresh nonce with n bytes of entropy, encoded as
// base64url. n must be at least MinBytes.
func Sized(n int) (string, error) {
	if n < MinBytes {
		return "", fmt.Errorf("nonce size %d below minimum %d bytes (96 bits)", n, MinBytes)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random nonce: %w", err)
	}

	return encoding.EncodeBase64URL(b), nil
}
