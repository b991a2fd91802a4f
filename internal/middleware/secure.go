package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// DefaultContentSecurityPolicy allows same-origin resources plus the htmx
// script served from unpkg.
const DefaultContentSecurityPolicy = "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self'"

// SecureConfig holds the options of the security headers middleware.
type SecureConfig struct {
	// ContentSecurityPolicy is sent verbatim; empty uses DefaultContentSecurityPolicy.
	ContentSecurityPolicy string

	// IsDevelopment disables the host and SSL checks of unrolled/secure.
	IsDevelopment bool
}

// SecureHeaders returns a gin middleware that sets the standard security
// headers (nosniff, frame deny, referrer policy, CSP) on every response.
func SecureHeaders(cfg SecureConfig) gin.HandlerFunc {
	csp := cfg.ContentSecurityPolicy
	if csp == "" {
		csp = DefaultContentSecurityPolicy
	}
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: csp,
		IsDevelopment:         cfg.IsDevelopment,
	})

	return func(c *gin.Context) {
		if err := sec.Process(c.Writer, c.Request); err != nil {
			slog.WarnContext(c.Request.Context(), "secure headers blocked request",
				"path", c.Request.URL.Path,
				"error", err,
			)
			if !c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
