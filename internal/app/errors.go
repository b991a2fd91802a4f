package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/pkg"
)

// errorTemplates maps status codes to their error pages. Unlisted codes use
// the 500 page.
var errorTemplates = map[int]string{
	http.StatusBadRequest:          "errors/400.html",
	http.StatusNotFound:            "errors/404.html",
	http.StatusInternalServerError: "errors/500.html",
}

// renderError answers err with an error page for browsers and the JSON
// envelope for everything else. The status comes from domain.HTTPStatusCode.
// A request that asks for JSON without mentioning HTML is always answered
// with JSON.
func renderError(c *gin.Context, err error) {
	accept := strings.ToLower(c.GetHeader("Accept"))
	wantsJSON := strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
	if wantsJSON || !acceptsHTML(c) {
		pkg.Error(c, err)
		return
	}

	message := domain.ErrInternal.Message
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	renderHTMLErrorPage(c, domain.HTTPStatusCode(err), message)
}

// renderHTMLErrorPage renders the error page for code. When no renderer is
// configured or the page fails to render, a plain-text line is written
// instead.
func renderHTMLErrorPage(c *gin.Context, code int, message string) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8",
				[]byte(fmt.Sprintf("%d %s", code, defaultStatusText(code))))
		}
	}()

	tmpl, ok := errorTemplates[code]
	if !ok {
		tmpl = errorTemplates[http.StatusInternalServerError]
	}
	c.HTML(code, tmpl, gin.H{
		"Status":  code,
		"Title":   defaultStatusText(code),
		"Message": message,
	})
}

// acceptsHTML reports whether the client takes HTML: an explicit text/html,
// the */* browser default or no Accept header at all.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}

func defaultStatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	case http.StatusBadGateway:
		return "Bad Gateway"
	default:
		return "Error"
	}
}
