package product

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/listing"
	"github.com/simp-lee/catalog/internal/pkg"
)

// Template names rendered by ProductPageHandler.
const (
	listTemplate  = "product/list.html"
	tableTemplate = "product/table.html"
)

// ProductPageHandler renders the product listing page.
type ProductPageHandler struct {
	svc domain.ProductService
}

// NewProductPageHandler creates a new ProductPageHandler with the given service.
func NewProductPageHandler(svc domain.ProductService) *ProductPageHandler {
	return &ProductPageHandler{svc: svc}
}

// ListPage renders the listing for the q and page query parameters.
// GET / and GET /products
//
// htmx requests receive only the table fragment. A failed load renders the
// error line in place of the table with status 500.
func (h *ProductPageHandler) ListPage(c *gin.Context) {
	q := pkg.ParseListingQuery(c)
	state := listing.NewState().Search(q.Term)
	status := http.StatusOK

	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "load product listing failed", "error", err)
		state = state.Failed(domain.NewAppError(domain.CodeInternal, failedFetchProducts, err))
		status = http.StatusInternalServerError
	} else {
		state = state.Loaded(products).GoTo(q.Page)
	}

	name := listTemplate
	if isHTMX(c) {
		name = tableTemplate
	}
	c.HTML(status, name, NewListingPage(state, c.Request.URL.Path))
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
