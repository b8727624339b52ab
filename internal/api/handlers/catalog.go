package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

const defaultCollectionPageSize = 8

// HandleGetProduct serves a single product annotated with calculated custom
// pricing for the product and each of its variants.
func HandleGetProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		handle := c.Param("handle")

		view, err := catalog.GetProduct(c.Request.Context(), handle)
		if err != nil {
			if _, notFound := err.(*errors.ErrNotFound); notFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found: " + handle})
				return
			}
			logger.Error("Failed to get product", zap.String("handle", handle), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// HandleCollectionProducts serves a paginated collection listing with custom
// prices calculated per product.
func HandleCollectionProducts(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		handle := c.Param("handle")

		limit := defaultCollectionPageSize
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
				return
			}
			limit = n
		}

		page, err := catalog.ListCollectionProducts(c.Request.Context(), handle, limit, c.Query("cursor"))
		if err != nil {
			if _, notFound := err.(*errors.ErrNotFound); notFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "collection not found: " + handle})
				return
			}
			logger.Error("Failed to list collection products", zap.String("handle", handle), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list collection products"})
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// HandleSettings serves the storefront quick-view display settings stored as
// a platform metaobject.
func HandleSettings(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		settings, err := catalog.QuickViewSettings(c.Request.Context())
		if err != nil {
			logger.Error("Failed to load quick view settings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}
