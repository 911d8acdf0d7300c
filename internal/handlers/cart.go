package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

type CartHandler struct {
	store *store.Store
}

func NewCartHandler(st *store.Store) *CartHandler {
	return &CartHandler{store: st}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, cartResponse(h.store.ListCartItems(userID)))
}

// UpdateItem applies a quantity delta to a line item; quantity never
// drops below 1.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid item id"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.store.UpdateCartItemQuantity(userID, itemID, req.Delta); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "cart item not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(h.store.ListCartItems(userID)))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid item id"})
		return
	}

	if err := h.store.RemoveCartItem(userID, itemID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "cart item not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(h.store.ListCartItems(userID)))
}

func cartResponse(items []models.CartItem) models.CartResponse {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	return models.CartResponse{Items: items, Subtotal: subtotal}
}
