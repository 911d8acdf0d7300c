package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/catalog"
	"arteideas-backend/internal/customizer"
	"arteideas-backend/internal/models"
)

type ProductsHandler struct{}

func NewProductsHandler() *ProductsHandler {
	return &ProductsHandler{}
}

func (h *ProductsHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": catalog.List()})
}

func (h *ProductsHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
		return
	}

	product, err := catalog.ByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "product not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListFormats exposes the print-size and pricing table the customizer
// works from.
func (h *ProductsHandler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": customizer.Formats})
}
