package product

import "github.com/gin-gonic/gin"

// ProductModule implements the app.Module interface for the product listing.
type ProductModule struct {
	handler     *ProductHandler
	pageHandler *ProductPageHandler
}

// NewModule creates a new ProductModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *ProductHandler, ph *ProductPageHandler) *ProductModule {
	if h == nil {
		panic("product.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("product.NewModule: pageHandler must not be nil")
	}
	return &ProductModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers product API and page routes.
func (m *ProductModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/products", m.handler.List)

	pages.GET("/", m.pageHandler.ListPage)
	pages.GET("/products", m.pageHandler.ListPage)
}
