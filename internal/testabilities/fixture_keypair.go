package testabilities

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
)

// NewKeypairFixture generates a fresh Ed25519 keypair, failing t
// immediately if key generation errors (which in practice only happens
// if the system entropy source is broken).
func NewKeypairFixture(t testing.TB) (pub ed25519.PublicKey, priv ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 keypair: %v", err)
	}
	return pub, priv
}
