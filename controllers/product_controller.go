package controllers

import (
	"net/http"

	"basket-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductController serves catalog reads.
type ProductController struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(catalog *services.CatalogService, logger *zap.Logger) *ProductController {
	return &ProductController{catalog: catalog, logger: logger}
}

// ListProducts returns the full catalog.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.catalog.ListProducts(c.Request.Context())
	if err != nil {
		pc.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns one product by id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := pc.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		pc.logger.Error("Failed to get product", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}
