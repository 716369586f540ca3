// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	logger         logrus.FieldLogger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, logger logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.productService.GetProducts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	p, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    p,
	})
}

// GetBrands handles GET /products/brands
func (h *ProductHandler) GetBrands(c *gin.Context) {
	brands, err := h.productService.GetBrands(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    brands,
	})
}
