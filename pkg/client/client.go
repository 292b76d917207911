// Package client implements the holder side of an OpenKitx403 proof: given
// a challenge received in a WWW-Authenticate header and an Ed25519
// keypair, it produces the Authorization header value to retry with.
//
// Every client implementation is a consumer of the shared verification
// engine, not part of it; this package is a convenience wrapper around
// that consumer role, not a required dependency of the server side.
package client

import (
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/openkitx403/openkitx403/pkg/authheader"
	"github.com/openkitx403/openkitx403/pkg/challenge"
	"github.com/openkitx403/openkitx403/pkg/encoding"
	"github.com/openkitx403/openkitx403/pkg/nonce"
)

// Client holds an Ed25519 keypair and signs OpenKitx403 challenges with
// it. It never touches a browser-global or any wallet-discovery
// mechanism directly. The private key is supplied by the caller, e.g.
// from a wallet adapter.
type Client struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// New returns a Client for the given Ed25519 private key.
func New(priv ed25519.PrivateKey) *Client {
	return &Client{priv: priv, pub: priv.Public().(ed25519.PublicKey)}
}

// Address is the client's base58-encoded Solana-style address.
func (c *Client) Address() string {
	return encoding.EncodePublicKey(c.pub)
}

// challengeParam is the opening of the challenge="..." parameter inside a
// WWW-Authenticate header value.
const challengeParam = `challenge="`

// ExtractChallengeBlob pulls the raw base64url challenge="..." value out
// of a WWW-Authenticate header, without decoding it.
func ExtractChallengeBlob(header string) (string, error) {
	idx := strings.Index(header, challengeParam)
	if idx < 0 {
		return "", fmt.Errorf("no challenge parameter in header %q", header)
	}

	rest := header[idx+len(challengeParam):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", fmt.Errorf("challenge parameter has no closing quote")
	}

	return rest[:end], nil
}

// ParseChallengeHeader extracts and decodes the challenge carried in a
// WWW-Authenticate header value.
func ParseChallengeHeader(header string) (challenge.Challenge, error) {
	blob, err := ExtractChallengeBlob(header)
	if err != nil {
		return challenge.Challenge{}, err
	}
	return challenge.Decode(blob)
}

// Sign produces the Authorization header value to retry method/path with,
// given a WWW-Authenticate header previously received for that method and
// path. bind, when true, includes a bind="METHOD:PATH" parameter.
func (c *Client) Sign(wwwAuthenticate, method, path string, bind bool) (string, error) {
	blob, err := ExtractChallengeBlob(wwwAuthenticate)
	if err != nil {
		return "", fmt.Errorf("extract challenge: %w", err)
	}

	ch, err := challenge.Decode(blob)
	if err != nil {
		return "", fmt.Errorf("decode challenge: %w", err)
	}

	signingString, err := challenge.SigningString(ch)
	if err != nil {
		return "", fmt.Errorf("derive signing string: %w", err)
	}

	sig := ed25519.Sign(c.priv, []byte(signingString))

	clientNonce, err := nonce.New()
	if err != nil {
		return "", fmt.Errorf("generate client nonce: %w", err)
	}

	auth := authheader.Authorization{
		Addr:      c.Address(),
		Sig:       encoding.EncodeSignature(sig),
		Challenge: blob,
		TS:        encoding.FormatTimestamp(time.Now()),
		Nonce:     clientNonce,
	}
	if bind {
		auth.Bind = method + ":" + path
		auth.HasBind = true
	}

	return auth.Header(), nil
}
