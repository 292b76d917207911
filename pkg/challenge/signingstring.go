package challenge

import (
	"fmt"
	"strings"

	"github.com/openkitx403/openkitx403/pkg/encoding"
)

// SigningString derives the exact byte string a client signs and a server
// reconstructs to verify a proof over Challenge c. The format is fixed by
// the protocol: any deviation in whitespace, key order, or line breaks
// makes signatures incompatible across implementations.
func SigningString(c Challenge) (string, error) {
	canonical, err := encoding.CanonicalJSON(c)
	if err != nil {
		return "", fmt.Errorf("canonicalize challenge for signing string: %w", err)
	}

	var b strings.Builder
	b.WriteString("OpenKitx403 Challenge\n")
	b.WriteString("\n")
	b.WriteString("domain: " + c.Aud + "\n")
	b.WriteString("server: " + c.ServerID + "\n")
	b.WriteString("nonce: " + c.Nonce + "\n")
	b.WriteString("ts: " + c.TS + "\n")
	b.WriteString("method: " + c.Method + "\n")
	b.WriteString("path: " + c.Path + "\n")
	b.WriteString("\n")
	b.WriteString("payload: " + string(canonical))

	return b.String(), nil
}
