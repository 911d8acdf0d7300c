package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

type OrdersHandler struct {
	store *store.Store
}

func NewOrdersHandler(st *store.Store) *OrdersHandler {
	return &OrdersHandler{store: st}
}

// ListOrders returns the shopper's order history, newest first.
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	orders := h.store.ListOrders(userID)
	summaries := make([]models.OrderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = models.OrderSummary{
			ID:           order.ID,
			Date:         order.Date.Format("02/01/2006"),
			Status:       order.Status,
			DeliveryType: order.DeliveryType,
			ItemCount:    len(order.Items),
			Total:        order.Total,
		}
	}

	c.JSON(http.StatusOK, models.OrderListResponse{Orders: summaries})
}

func (h *OrdersHandler) GetOrder(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	order, err := h.store.GetOrder(userID, c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order)
}
