package handler

import (
	"net/http"

	"havn/internal/domain"

	"github.com/gin-gonic/gin"
)

// Catalog returns the fixed category/subcategory tree and delivery types
// the clients render as pickers.
func Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":     domain.CategoryOptions,
		"subcategories":  domain.SubcategoryOptions,
		"delivery_types": domain.DeliveryTypes,
	})
}
