// Package ginadapter wraps pkg/server's framework-agnostic middleware for
// use as a Gin handler.
package ginadapter

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openkitx403/openkitx403/pkg/verify"

	"github.com/openkitx403/openkitx403/pkg/server"
)

// AuthMiddleware creates a Gin handler enforcing OpenKitx403 authentication
// under cfg.
func AuthMiddleware(cfg verify.Config) gin.HandlerFunc {
	mw := server.New(cfg)

	return func(c *gin.Context) {
		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		if c.Writer.Written() {
			c.Abort()
		}
	}
}
