// Package server adapts the verification pipeline to the standard
// net/http.Handler chain: it answers unauthenticated requests with a
// fresh challenge, verifies retried requests, and hands authenticated
// identity down to the wrapped handler.
package server

import (
	"context"
	"net/http"

	"github.com/openkitx403/openkitx403/pkg/challenge"
	"github.com/openkitx403/openkitx403/pkg/constants"
	"github.com/openkitx403/openkitx403/pkg/verify"
)

// Middleware is a stateless OpenKitx403 server-side handle: an immutable
// verify.Config plus the challenge.Builder it shares with rejection
// responses. It never holds state across requests beyond whatever the
// configured replay store holds.
type Middleware struct {
	cfg     verify.Config
	builder *challenge.Builder
}

// New builds a Middleware from cfg. ttl, uaBinding, and originBinding on
// the returned challenge.Builder always mirror cfg, so a challenge minted
// for a rejection is consistent with what Verify will later check.
func New(cfg verify.Config) *Middleware {
	builder := challenge.NewBuilder(cfg.Issuer, cfg.Audience, cfg.TTL, cfg.UABinding, cfg.OriginBinding)
	if cfg.Now != nil {
		builder.Now = cfg.Now
	}

	return &Middleware{cfg: cfg, builder: builder}
}

// Handler wraps next with OpenKitx403 authentication. A request with no
// Authorization header (or one that fails verification) gets a 403 with a
// fresh challenge; a request whose proof verifies is forwarded to next
// with the authenticated address available via AddressFromContext, and
// with an X-Authenticated-Address response header set.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawAuth := r.Header.Get(constants.HeaderAuthorization)
		if rawAuth == "" {
			_ = writeChallenge(w, m.builder, r.Method, r.URL.Path, verify.CodeWalletAuthRequired, "a signed OpenKitx403 proof is required")
			return
		}

		result, err := verify.Verify(r.Context(), m.cfg, rawAuth, verify.Request{
			Method:  r.Method,
			Path:    r.URL.Path,
			Headers: flattenHeaders(r.Header),
		})
		if err != nil {
			verr, ok := err.(*verify.Error)
			if !ok {
				verr = &verify.Error{Code: verify.CodeInvalidRequest, Message: err.Error()}
			}
			_ = writeChallenge(w, m.builder, r.Method, r.URL.Path, verr.Code, verr.Message)
			return
		}

		w.Header().Set(constants.HeaderAuthenticatedAddress, result.Address)
		ctx := context.WithValue(r.Context(), identityContextKey, result.Address)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// flattenHeaders reduces net/http's multi-value header map to the single
// values the binding checks in pkg/verify need, taking the first value of
// any repeated header.
func flattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	return flat
}
