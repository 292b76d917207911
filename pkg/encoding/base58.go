package encoding

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeySize and SignatureSize are the only lengths the protocol accepts
// once a base58 public key or signature is decoded.
const (
	PublicKeySize = 32
	SignatureSize = 64
)

// EncodePublicKey base58-encodes a 32-byte Ed25519 public key.
func EncodePublicKey(pub []byte) string {
	return base58.Encode(pub)
}

// DecodePublicKey base58-decodes a Solana-style address into an Ed25519
// public key. Any length other than PublicKeySize is a hard rejection.
func DecodePublicKey(addr string) ([]byte, error) {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("base58 decode address: %w", err)
	}
	if len(decoded) != PublicKeySize {
		return nil, fmt.Errorf("decoded public key has length %d, want %d", len(decoded), PublicKeySize)
	}
	return decoded, nil
}

// EncodeSignature base58-encodes a 64-byte Ed25519 signature.
func EncodeSignature(sig []byte) string {
	return base58.Encode(sig)
}

// DecodeSignature base58-decodes a signature. Any length other than
// SignatureSize is a hard rejection.
func DecodeSignature(sig string) ([]byte, error) {
	decoded, err := base58.Decode(sig)
	if err != nil {
		return nil, fmt.Errorf("base58 decode signature: %w", err)
	}
	if len(decoded) != SignatureSize {
		return nil, fmt.Errorf("decoded signature has length %d, want %d", len(decoded), SignatureSize)
	}
	return decoded, nil
}
