// Package authheader parses and builds the Authorization header carrying
// a client's OpenKitx403 proof.
package authheader

import (
	"fmt"
	"strings"

	"github.com/openkitx403/openkitx403/pkg/constants"
)

// Authorization is the client's proof, parsed from an Authorization
// header value.
type Authorization struct {
	Addr      string
	Sig       string
	Challenge string
	TS        string
	Nonce     string
	Bind      string
	HasBind   bool
}

const schemePrefix = constants.SchemeName + " "

var requiredKeys = []string{"addr", "sig", "challenge", "ts", "nonce"}

// Parse parses a raw Authorization header value. The header must start
// with the case-sensitive scheme token "OpenKitx403 " followed by
// comma-separated key="value" pairs. Duplicate keys take the last value;
// unknown keys are ignored; any missing required key fails parsing.
func Parse(header string) (Authorization, error) {
	if !strings.HasPrefix(header, schemePrefix) {
		return Authorization{}, fmt.Errorf("authorization header does not start with %q", schemePrefix)
	}

	params, err := parseParams(header[len(schemePrefix):])
	if err != nil {
		return Authorization{}, err
	}

	for _, key := range requiredKeys {
		if _, ok := params[key]; !ok {
			return Authorization{}, fmt.Errorf("authorization header missing required key %q", key)
		}
	}

	bind, hasBind := params["bind"]

	return Authorization{
		Addr:      params["addr"],
		Sig:       params["sig"],
		Challenge: params["challenge"],
		TS:        params["ts"],
		Nonce:     params["nonce"],
		Bind:      bind,
		HasBind:   hasBind,
	}, nil
}

// parseParams splits a comma-separated list of key="value" pairs. Values
// in this protocol version are quoted strings with no embedded quotes or
// backslashes, so a value simply runs to the next unescaped `"`.
func parseParams(s string) (map[string]string, error) {
	params := make(map[string]string)

	for len(s) > 0 {
		s = strings.TrimLeft(s, " ,")
		if s == "" {
			break
		}

		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			return nil, fmt.Errorf("malformed authorization parameter near %q", s)
		}

		key := strings.TrimSpace(s[:eq])
		rest := s[eq+1:]
		if len(rest) == 0 || rest[0] != '"' {
			return nil, fmt.Errorf("authorization parameter %q value must be quoted", key)
		}

		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return nil, fmt.Errorf("authorization parameter %q value has no closing quote", key)
		}

		params[key] = rest[1 : end+1]
		s = rest[end+2:]
	}

	return params, nil
}

// Header formats the Authorization header value a client would send,
// including the bind parameter only when a.HasBind is set. It is used by
// pkg/client and by tests asserting header round-trips.
func (a Authorization) Header() string {
	var b strings.Builder
	b.WriteString(schemePrefix)
	fmt.Fprintf(&b, `addr="%s", sig="%s", challenge="%s", ts="%s", nonce="%s"`,
		a.Addr, a.Sig, a.Challenge, a.TS, a.Nonce)
	if a.HasBind {
		fmt.Fprintf(&b, `, bind="%s"`, a.Bind)
	}
	return b.String()
}
