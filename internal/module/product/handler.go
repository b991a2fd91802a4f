package product

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/pkg"
)

const failedFetchProducts = "Failed to fetch products"

// ProductHandler handles REST API requests for the product collection.
type ProductHandler struct {
	svc domain.ProductService
}

// NewProductHandler creates a new ProductHandler with the given service.
func NewProductHandler(svc domain.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List handles GET /api/products.
// It responds with a bare JSON array of products with their owners, or 500
// with {"error": "Failed to fetch products"}.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "list products failed", "error", err)
		pkg.Fail(c, http.StatusInternalServerError, failedFetchProducts)
		return
	}
	c.JSON(http.StatusOK, products)
}
