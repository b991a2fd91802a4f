package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/catalog/internal/pkg"
)

// apiPrefix marks routes that answer with the bare {"error": ...} body.
const apiPrefix = "/api/"

// Recovery returns a gin middleware that recovers from panics, logs the panic
// with its stack and answers 500.
//
// API routes get {"error": "Internal server error"}. Other requests get the
// errors/500.html page when they accept HTML, and the JSON envelope otherwise.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", err),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			switch {
			case strings.HasPrefix(c.Request.URL.Path, apiPrefix):
				pkg.Fail(c, http.StatusInternalServerError, "Internal server error")
			case acceptsHTML(c):
				c.Abort()
				renderHTMLError(c)
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// renderHTMLError renders errors/500.html, falling back to plain text when
// no HTML renderer is configured or rendering panics.
func renderHTMLError(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Title":   "Internal Server Error",
		"Message": "Something went wrong while loading this page.",
	})
}

// acceptsHTML reports whether the Accept header lists text/html.
func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}
