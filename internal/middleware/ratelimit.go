package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"

	"github.com/simp-lee/catalog/internal/pkg"
)

// RateLimit returns a gin middleware that allows at most requests per window
// from each client IP. Requests over the limit end with 429 and
// {"error": "Too many requests"}; the X-RateLimit-* headers are always set.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(pkg.ErrorBody{Error: "Too many requests"})
		}),
	)

	return func(c *gin.Context) {
		allowed := false
		limiter(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			allowed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !allowed {
			c.Abort()
		}
	}
}
