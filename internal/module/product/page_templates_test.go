package product

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/catalog/internal/listing"
	"github.com/simp-lee/catalog/web"
)

// setupEmbeddedPageRouter serves ListPage through the shipped layouts,
// partials and product templates.
func setupEmbeddedPageRouter(t *testing.T, h *ProductPageHandler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tmpl := template.New("").Funcs(template.FuncMap{
		"formatPrice": listing.FormatPrice,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
	})
	tmpl = template.Must(tmpl.ParseFS(web.EmbeddedFS,
		"templates/layouts/*.html", "templates/partials/*.html"))
	for _, name := range []string{listTemplate, tableTemplate} {
		src, err := fs.ReadFile(web.EmbeddedFS, "templates/"+name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		template.Must(tmpl.New(name).Parse(string(src)))
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.ListPage)
	return r
}

func TestListPage_EmbeddedTemplates_LoadFailure(t *testing.T) {
	r := setupEmbeddedPageRouter(t, NewProductPageHandler(&mockProductService{err: errors.New("no such table: products")}))

	w := get(r, "/", false)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	page := strings.TrimSpace(w.Body.String())
	if !strings.Contains(page, `<p class="alert alert-error" role="alert">Error: Failed to fetch products</p>`) {
		t.Errorf("page should show the load error, got %s", page)
	}
	if !strings.HasSuffix(page, "</html>") {
		t.Errorf("page was cut short: %s", page)
	}
	if strings.Contains(page, "no such table") {
		t.Error("page leaked the store error")
	}

	w = get(r, "/?q=widget", true)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("fragment status = %d, want 500", w.Code)
	}
	fragment := strings.TrimSpace(w.Body.String())
	if !strings.HasPrefix(fragment, `<div id="product-table">`) || !strings.HasSuffix(fragment, "</div>") {
		t.Errorf("fragment is not a complete table swap: %s", fragment)
	}
	if !strings.Contains(fragment, "Error: Failed to fetch products") {
		t.Errorf("fragment should show the load error, got %s", fragment)
	}
}

func TestListPage_EmbeddedTemplates_Loaded(t *testing.T) {
	r := setupEmbeddedPageRouter(t, NewProductPageHandler(&mockProductService{products: manyProducts(25)}))

	w := get(r, "/?page=2", false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"List of Products (Page 2 of 3)",
		"Showing 11 to 20 of 25 entries",
		`href="/?page=1"`,
		`href="/?page=3"`,
		`rel="prev"`,
		`rel="next"`,
		`<meta name="htmx-config" content='{"includeIndicatorStyles":false}'>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(body), "</html>") {
		t.Errorf("page was cut short")
	}

	w = get(r, "/?page=3", true)
	fragment := strings.TrimSpace(w.Body.String())
	if strings.Contains(fragment, "<html") {
		t.Error("htmx request received the full page")
	}
	if !strings.Contains(fragment, "Showing 21 to 25 of 25 entries") || strings.Contains(fragment, `rel="next"`) {
		t.Errorf("last page fragment = %s", fragment)
	}
}
