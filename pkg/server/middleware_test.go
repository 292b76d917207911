package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openkitx403/openkitx403/pkg/client"
	"github.com/openkitx403/openkitx403/pkg/constants"
	"github.com/openkitx403/openkitx403/internal/testabilities"
	"github.com/openkitx403/openkitx403/pkg/server"
	"github.com/openkitx403/openkitx403/pkg/verify"
	"github.com/stretchr/testify/require"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr, _ := server.AddressFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(addr))
	})
}

func TestMiddleware_MissingAuthorizationYieldsChallenge(t *testing.T) {
	// given
	cfg := verify.New("srv", "https://a.ex")
	mw := server.New(cfg)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	// when
	mw.Handler(echoHandler()).ServeHTTP(rec, req)

	// then
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Header().Get(constants.HeaderWWWAuthenticate), constants.SchemeName)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(verify.CodeWalletAuthRequired), body["error"])
}

func TestMiddleware_FullRoundTripSucceeds(t *testing.T) {
	// given: no fixed clock here, since the client signs against its own
	// real wall-clock time and the server must accept that within its
	// clock-skew tolerance.
	cfg := verify.New("srv", "https://a.ex")
	mw := server.New(cfg)

	challengeRec := httptest.NewRecorder()
	challengeReq := httptest.NewRequest(http.MethodGet, "/protected", nil)
	mw.Handler(echoHandler()).ServeHTTP(challengeRec, challengeReq)
	require.Equal(t, http.StatusForbidden, challengeRec.Code)
	wwwAuthenticate := challengeRec.Header().Get(constants.HeaderWWWAuthenticate)
	require.NotEmpty(t, wwwAuthenticate)

	_, priv := testabilities.NewKeypairFixture(t)
	c := client.New(priv)
	authHeader, err := c.Sign(wwwAuthenticate, http.MethodGet, "/protected", true)
	require.NoError(t, err)

	// when
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(constants.HeaderAuthorization, authHeader)
	mw.Handler(echoHandler()).ServeHTTP(rec, req)

	// then
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, c.Address(), rec.Header().Get(constants.HeaderAuthenticatedAddress))
	require.Equal(t, c.Address(), rec.Body.String())
}

func TestMiddleware_InvalidProofYieldsFreshChallengeForCurrentRequest(t *testing.T) {
	// given
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := verify.New("srv", "https://a.ex", verify.WithClock(func() time.Time { return now }))
	mw := server.New(cfg)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(constants.HeaderAuthorization, "OpenKitx403 addr=\"x\"")

	// when
	mw.Handler(echoHandler()).ServeHTTP(rec, req)

	// then
	require.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(verify.CodeInvalidRequest), body["error"])

	fresh, err := client.ParseChallengeHeader(rec.Header().Get(constants.HeaderWWWAuthenticate))
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, fresh.Method)
	require.Equal(t, "/protected", fresh.Path)
}

func TestAddressFromContext_AbsentWhenUnset(t *testing.T) {
	_, ok := server.AddressFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.False(t, ok)
}
