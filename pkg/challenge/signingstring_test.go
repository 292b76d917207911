package challenge_test

import (
	"testing"

	"github.com/openkitx403/openkitx403/pkg/challenge"
	"github.com/stretchr/testify/require"
)

// TestSigningString_GoldenVector pins the exact byte format the signing
// string must take, so an independent implementation can be checked
// against it.
func TestSigningString_GoldenVector(t *testing.T) {
	// given
	c := challenge.Challenge{
		V:          1,
		Alg:        challenge.Algorithm,
		Nonce:      "abc123",
		TS:         "2026-01-01T00:00:00Z",
		Aud:        "https://a.ex",
		Method:     "GET",
		Path:       "/protected",
		UABind:     false,
		OriginBind: false,
		ServerID:   "srv",
		Exp:        "2026-01-01T00:01:00Z",
		Ext:        map[string]any{},
	}

	// when
	got, err := challenge.SigningString(c)
	require.NoError(t, err)

	// then
	want := "OpenKitx403 Challenge\n" +
		"\n" +
		"domain: https://a.ex\n" +
		"server: srv\n" +
		"nonce: abc123\n" +
		"ts: 2026-01-01T00:00:00Z\n" +
		"method: GET\n" +
		"path: /protected\n" +
		"\n" +
		`payload: {"alg":"ed25519-solana","aud":"https://a.ex","exp":"2026-01-01T00:01:00Z","ext":{},"method":"GET","nonce":"abc123","originBind":false,"path":"/protected","serverId":"srv","ts":"2026-01-01T00:00:00Z","uaBind":false,"v":1}`
	require.Equal(t, want, got)
}

func TestSigningString_Deterministic(t *testing.T) {
	// given
	builder := challenge.NewBuilder("srv", "https://a.ex", 60_000_000_000, false, false)
	c, _, err := builder.Build("GET", "/x", nil)
	require.NoError(t, err)

	// when
	a, err1 := challenge.SigningString(c)
	b, err2 := challenge.SigningString(c)

	// then
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, a, b)
}
