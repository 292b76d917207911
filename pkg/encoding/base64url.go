// Package encoding implements the wire-format primitives shared by every
// OpenKitx403 implementation: base64url, base58, canonical JSON, and the
// RFC 3339-second timestamp format. Every function here must produce
// bit-identical output across independent implementations of the protocol.
package encoding

import (
	"encoding/base64"
	"strings"
)

// EncodeBase64URL encodes data as unpadded base64url (RFC 4648 §5).
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeBase64URL decodes unpadded base64url. It also tolerates the padded
// variant, since older clients may emit it.
func DecodeBase64URL(s string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(withPadding(s))
}

func withPadding(s string) string {
	if n := len(s) % 4; n != 0 {
		return s + strings.Repeat("=", 4-n)
	}
	return s
}
