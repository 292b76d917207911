// Package challenge builds the server's commitment object (Challenge),
// its canonical wire encoding, and the WWW-Authenticate header value that
// carries it to the client.
package challenge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openkitx403/openkitx403/pkg/constants"
	"github.com/openkitx403/openkitx403/pkg/encoding"
	"github.com/openkitx403/openkitx403/pkg/nonce"
)

// Version is the only protocol version this implementation emits or
// accepts.
const Version = 1

// Algorithm is the fixed signature-algorithm identifier this
// implementation emits and accepts. See DESIGN.md open question 1 for
// why "ed25519-solana" was chosen over the plain "ed25519" some
// deployments of this protocol use.
const Algorithm = "ed25519-solana"

// Challenge is the server's commitment to what a valid proof must cover.
// The json tags carry the wire's exact key names, since the canonical JSON
// encoding is part of the protocol's bit-identical wire contract.
type Challenge struct {
	V          int            `json:"v"`
	Alg        string         `json:"alg"`
	Nonce      string         `json:"nonce"`
	TS         string         `json:"ts"`
	Aud        string         `json:"aud"`
	Method     string         `json:"method"`
	Path       string         `json:"path"`
	UABind     bool           `json:"uaBind"`
	OriginBind bool           `json:"originBind"`
	ServerID   string         `json:"serverId"`
	Exp        string         `json:"exp"`
	Ext        map[string]any `json:"ext"`
}

// Builder constructs Challenges bound to a fixed issuer/audience/TTL/
// binding policy, mirroring an immutable server Config handle.
type Builder struct {
	Issuer      string
	Audience    string
	TTL         time.Duration
	UABind      bool
	OriginBind  bool
	NonceSource func() (string, error)
	Now         func() time.Time
}

// NewBuilder returns a Builder with the given policy, using nonce.New and
// time.Now as its NonceSource and Now. Tests can replace either field with
// a deterministic stand-in; Build falls back to the default when one is nil.
func NewBuilder(issuer, audience string, ttl time.Duration, uaBind, originBind bool) *Builder {
	return &Builder{
		Issuer:      issuer,
		Audience:    audience,
		TTL:         ttl,
		UABind:      uaBind,
		OriginBind:  originBind,
		NonceSource: nonce.New,
		Now:         time.Now,
	}
}

// Build produces a fresh Challenge bound to method and path, its canonical
// JSON encoding, and the header value to carry in WWW-Authenticate. Two
// successive calls with identical inputs differ only in Nonce, TS, and Exp.
func (b *Builder) Build(method, path string, ext map[string]any) (Challenge, string, error) {
	if ext == nil {
		ext = map[string]any{}
	}

	nonceSource := b.NonceSource
	if nonceSource == nil {
		nonceSource = nonce.New
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	n, err := nonceSource()
	if err != nil {
		return Challenge{}, "", fmt.Errorf("generate nonce: %w", err)
	}

	issuedAt := now()
	c := Challenge{
		V:          Version,
		Alg:        Algorithm,
		Nonce:      n,
		TS:         encoding.FormatTimestamp(issuedAt),
		Aud:        b.Audience,
		Method:     method,
		Path:       path,
		UABind:     b.UABind,
		OriginBind: b.OriginBind,
		ServerID:   b.Issuer,
		Exp:        encoding.FormatTimestamp(issuedAt.Add(b.TTL)),
		Ext:        ext,
	}

	header, err := HeaderValue(c)
	if err != nil {
		return Challenge{}, "", err
	}

	return c, header, nil
}

// HeaderValue serializes c to canonical JSON, base64url-encodes it, and
// wraps it in the WWW-Authenticate header value format.
func HeaderValue(c Challenge) (string, error) {
	canonical, err := encoding.CanonicalJSON(c)
	if err != nil {
		return "", fmt.Errorf("canonicalize challenge: %w", err)
	}

	blob := encoding.EncodeBase64URL(canonical)
	return fmt.Sprintf(`%s realm="%s", version="%d", challenge="%s"`, constants.SchemeName, c.ServerID, Version, blob), nil
}

// Decode reverses HeaderValue's challenge blob: it base64url-decodes blob
// and parses the resulting canonical JSON back into a Challenge.
func Decode(blob string) (Challenge, error) {
	raw, err := encoding.DecodeBase64URL(blob)
	if err != nil {
		return Challenge{}, fmt.Errorf("decode challenge blob: %w", err)
	}

	var c Challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return Challenge{}, fmt.Errorf("parse challenge json: %w", err)
	}

	return c, nil
}
