package verify

import (
	"context"
	"crypto/ed25519"
	"crypto/subtle"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/openkitx403/openkitx403/pkg/authheader"
	"github.com/openkitx403/openkitx403/pkg/challenge"
	"github.com/openkitx403/openkitx403/pkg/constants"
	"github.com/openkitx403/openkitx403/pkg/encoding"
	"github.com/openkitx403/openkitx403/pkg/internal/logging"
	"github.com/openkitx403/openkitx403/pkg/replay"
)

// Result is the successful outcome of Verify: the authenticated address
// and the challenge it proved possession against.
type Result struct {
	Address   string
	Challenge challenge.Challenge
}

// Request is the minimal view of the retried HTTP request the verifier
// needs. Headers is optional; when nil, origin and user-agent binding
// are skipped even if the challenge requests them, since there is
// nothing to check them against.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
}

// Verify runs the ordered check sequence against rawAuthHeader and req,
// under cfg. It returns a *Result on success or a *Error identifying
// the first failing check.
//
// Step ordering is part of the protocol: cheap structural checks precede
// expensive cryptographic ones, and signature verification precedes both
// the replay store's insertion and the token gate, so an unauthenticated
// request can never pollute the replay store or trigger gate side
// effects. The replay check itself runs earlier, alongside the other
// policy checks, so a replayed nonce still fails with replay_detected
// ahead of a separately invalid signature: only the insertion is
// deferred.
func Verify(ctx context.Context, cfg Config, rawAuthHeader string, req Request) (*Result, error) {
	logger := logging.Child(logging.DefaultIfNil(cfg.Logger), "verify")
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// 1. Parse authorization header.
	auth, err := authheader.Parse(rawAuthHeader)
	if err != nil {
		logger.Debug("parse failed", logging.Error(err))
		return nil, fail(CodeInvalidRequest, err.Error())
	}

	// 2. Decode and parse the challenge blob.
	c, err := challenge.Decode(auth.Challenge)
	if err != nil {
		return nil, fail(CodeInvalidChallenge, err.Error())
	}

	// 3. Version.
	if c.V != challenge.Version {
		return nil, fail(CodeUnsupportedVersion, fmt.Sprintf("challenge version %d unsupported", c.V))
	}

	// 4. Algorithm.
	if c.Alg != challenge.Algorithm {
		return nil, fail(CodeUnsupportedAlgorithm, fmt.Sprintf("algorithm %q unsupported", c.Alg))
	}

	// 5. Expiry.
	exp, err := encoding.ParseTimestamp(c.Exp)
	if err != nil {
		return nil, fail(CodeInvalidChallenge, err.Error())
	}
	if !now().Before(exp) {
		return nil, fail(CodeChallengeExpired, "challenge expired at "+c.Exp)
	}

	// 6. Audience.
	if !constantTimeEqual(c.Aud, cfg.Audience) {
		return nil, fail(CodeAudienceMismatch, "challenge audience does not match server configuration")
	}

	// 7. Server ID.
	if !constantTimeEqual(c.ServerID, cfg.Issuer) {
		return nil, fail(CodeServerIDMismatch, "challenge serverId does not match server configuration")
	}

	// 8. Clock skew.
	authTS, err := encoding.ParseTimestamp(auth.TS)
	if err != nil {
		return nil, fail(CodeInvalidRequest, err.Error())
	}
	skew := now().Sub(authTS)
	if skew < 0 {
		skew = -skew
	}
	if skew > cfg.ClockSkew {
		return nil, fail(CodeTimestampSkew, fmt.Sprintf("clock skew %s exceeds tolerance %s", skew, cfg.ClockSkew))
	}

	// 9. Method/path binding.
	if cfg.BindMethodPath {
		if err := checkBinding(auth, req, c); err != nil {
			return nil, fail(CodeBindingMismatch, err.Error())
		}
	}

	// 10. Origin binding.
	if c.OriginBind && req.Headers != nil {
		if err := checkOrigin(req.Headers, c.Aud); err != nil {
			return nil, fail(CodeOriginMismatch, err.Error())
		}
	}

	// 11. User-Agent binding.
	if c.UABind && req.Headers != nil {
		if strings.TrimSpace(headerValue(req.Headers, constants.HeaderUserAgent)) == "" {
			return nil, fail(CodeUserAgentRequired, "User-Agent header required by challenge")
		}
	}

	// 12. Replay check. Only a presence check here, never an insertion: an
	// unauthenticated request (one that goes on to fail the signature
	// check below) must never burn the nonce, so the store is not touched
	// until the signature has verified.
	var replayKey string
	var replayTTLSeconds int
	if cfg.ReplayStore != nil {
		replayKey = replay.Key(auth.Addr, c.Nonce)

		replayTTLSeconds = int(exp.Sub(now()).Seconds())
		if replayTTLSeconds < 1 {
			replayTTLSeconds = 1
		}

		alreadySeen, err := cfg.ReplayStore.Check(ctx, replayKey)
		if err != nil {
			return nil, fail(CodeReplayDetected, "replay store unavailable: "+err.Error())
		}
		if alreadySeen {
			return nil, fail(CodeReplayDetected, "nonce already used")
		}
	}

	// 13. Signature.
	pub, err := encoding.DecodePublicKey(auth.Addr)
	if err != nil {
		return nil, fail(CodeInvalidSignature, err.Error())
	}
	sig, err := encoding.DecodeSignature(auth.Sig)
	if err != nil {
		return nil, fail(CodeInvalidSignature, err.Error())
	}
	signingString, err := challenge.SigningString(c)
	if err != nil {
		return nil, fail(CodeInvalidSignature, err.Error())
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(signingString), sig) {
		return nil, fail(CodeInvalidSignature, "signature does not verify")
	}

	// 13b. Replay insertion. The signature is authentic, so the nonce is
	// now burned. CheckAndStore is preferred when the store implements it,
	// closing the race between two concurrently-verified requests bearing
	// the same valid signature and nonce.
	if cfg.ReplayStore != nil {
		alreadySeen, err := checkAndStoreReplay(ctx, cfg.ReplayStore, replayKey, replayTTLSeconds)
		if err != nil {
			return nil, fail(CodeReplayDetected, "replay store unavailable: "+err.Error())
		}
		if alreadySeen {
			return nil, fail(CodeReplayDetected, "nonce already used")
		}
	}

	// 14. Token gate.
	if cfg.TokenGate != nil {
		if err := runTokenGate(ctx, cfg, auth.Addr); err != nil {
			return nil, fail(CodeTokenGateFailed, err.Error())
		}
	}

	// 15. Success.
	return &Result{Address: auth.Addr, Challenge: c}, nil
}

func checkBinding(auth authheader.Authorization, req Request, c challenge.Challenge) error {
	if !auth.HasBind {
		return fmt.Errorf("bind parameter required when method/path binding is enabled")
	}

	bindMethod, bindPath, ok := strings.Cut(auth.Bind, ":")
	if !ok {
		return fmt.Errorf("bind parameter %q is not in METHOD:PATH form", auth.Bind)
	}

	if bindMethod != req.Method || bindPath != req.Path {
		return fmt.Errorf("bind %q does not match request %s:%s", auth.Bind, req.Method, req.Path)
	}

	if req.Method != c.Method || req.Path != c.Path {
		return fmt.Errorf("request %s:%s does not match challenge %s:%s", req.Method, req.Path, c.Method, c.Path)
	}

	return nil
}

func checkOrigin(headers map[string]string, aud string) error {
	origin := headerValue(headers, constants.HeaderOrigin)
	if origin == "" {
		origin = headerValue(headers, constants.HeaderReferer)
	}
	if origin == "" {
		return fmt.Errorf("origin binding enabled but no Origin or Referer header present")
	}

	requestOrigin, err := normalizedOrigin(origin)
	if err != nil {
		return fmt.Errorf("parse Origin/Referer: %w", err)
	}

	audOrigin, err := normalizedOrigin(aud)
	if err != nil {
		return fmt.Errorf("parse challenge audience: %w", err)
	}

	if requestOrigin != audOrigin {
		return fmt.Errorf("origin %q does not match audience %q", requestOrigin, audOrigin)
	}

	return nil
}

// normalizedOrigin parses raw as a URL and renders its origin as
// scheme://host:port, filling in the scheme's default port when absent,
// so "https://a.ex" and "https://a.ex:443" compare equal.
func normalizedOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%q is not an absolute origin URL", raw)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		}
	}

	return fmt.Sprintf("%s://%s:%s", strings.ToLower(u.Scheme), strings.ToLower(u.Hostname()), port), nil
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func checkAndStoreReplay(ctx context.Context, store replay.Store, key string, ttlSeconds int) (bool, error) {
	if cas, ok := store.(replay.CheckAndStorer); ok {
		return cas.CheckAndStore(ctx, key, ttlSeconds)
	}

	exists, err := store.Check(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	return false, store.Store(ctx, key, ttlSeconds)
}

func runTokenGate(ctx context.Context, cfg Config, addr string) error {
	timeout := cfg.TokenGateTimeout
	if timeout <= 0 {
		timeout = DefaultTokenGateTimeout
	}

	gateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)

	go func() {
		ok, err := cfg.TokenGate(gateCtx, addr)
		done <- result{ok: ok, err: err}
	}()

	select {
	case <-gateCtx.Done():
		return fmt.Errorf("token gate timed out: %w", gateCtx.Err())
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		if !r.ok {
			return fmt.Errorf("token gate denied address %s", addr)
		}
		return nil
	}
}

// constantTimeEqual compares two attacker-influenceable strings without
// leaking timing information about where they first differ.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

