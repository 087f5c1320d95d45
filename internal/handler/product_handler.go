package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /products?category=&search=.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", gin.H{"products": products})
}

// CheckCompatibility handles GET /products/:sku/compatibility?deviceModel=.
func (h *ProductHandler) CheckCompatibility(c *gin.Context) {
	result, err := h.productService.CheckCompatibility(c.Request.Context(), c.Param("sku"), c.Query("deviceModel"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Compatibility checked", result)
}
