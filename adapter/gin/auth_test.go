package ginadapter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	ginadapter "github.com/openkitx403/openkitx403/adapter/gin"
	"github.com/openkitx403/openkitx403/pkg/client"
	"github.com/openkitx403/openkitx403/pkg/constants"
	"github.com/openkitx403/openkitx403/internal/testabilities"
	"github.com/openkitx403/openkitx403/pkg/server"
	"github.com/openkitx403/openkitx403/pkg/verify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestEngine(cfg verify.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ginadapter.AuthMiddleware(cfg))
	r.GET("/protected", func(c *gin.Context) {
		addr, _ := server.AddressFromContext(c.Request.Context())
		c.String(http.StatusOK, addr)
	})
	return r
}

func TestAuthMiddleware_MissingAuthorizationReturns403(t *testing.T) {
	// given
	cfg := verify.New("srv", "https://a.ex")
	r := newTestEngine(cfg)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	// when
	r.ServeHTTP(rec, req)

	// then
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NotEmpty(t, rec.Header().Get(constants.HeaderWWWAuthenticate))
}

func TestAuthMiddleware_ValidProofReachesHandler(t *testing.T) {
	// given
	cfg := verify.New("srv", "https://a.ex")
	r := newTestEngine(cfg)

	challengeRec := httptest.NewRecorder()
	r.ServeHTTP(challengeRec, httptest.NewRequest(http.MethodGet, "/protected", nil))
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
	r.ServeHTTP(rec, req)

	// then
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, c.Address(), rec.Body.String())
}
