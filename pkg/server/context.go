package server

import "context"

type contextKey string

// identityContextKey is the context key the middleware stores the
// authenticated address under, for handing an authenticated identity
// down to downstream handlers.
const identityContextKey contextKey = "openkitx403_identity"

// AddressFromContext retrieves the authenticated address a successful
// verification stored on the request context, if any.
func AddressFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(identityContextKey)
	if v == nil {
		return "", false
	}
	addr, ok := v.(string)
	return addr, ok
}
