package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

const (
	deliveryShippingCost = 5.00
	orderStatusNew       = "En Procesamiento"
)

type CheckoutHandler struct {
	store *store.Store
}

func NewCheckoutHandler(st *store.Store) *CheckoutHandler {
	return &CheckoutHandler{store: st}
}

// SubmitCheckout stores the validated delivery details for the
// pending payment step.
func (h *CheckoutHandler) SubmitCheckout(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	if len(h.store.ListCartItems(userID)) == 0 {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "cart is empty"})
		return
	}

	var data models.CheckoutData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if fields := missingCheckoutFields(data); len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "validation failed",
			"missing_fields": fields,
		})
		return
	}

	h.store.SetCheckout(userID, data)
	c.JSON(http.StatusOK, data)
}

// ConfirmPayment is the mock payment step: it turns the cart plus the
// stored checkout data into an order and empties both.
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	checkout, ok := h.store.Checkout(userID)
	if !ok {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "no checkout data submitted"})
		return
	}

	items := h.store.ListCartItems(userID)
	if len(items) == 0 {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "cart is empty"})
		return
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	shipping := 0.0
	if checkout.DeliveryType == "delivery" {
		shipping = deliveryShippingCost
	}

	now := time.Now()
	order := models.Order{
		// No "#" prefix: the id doubles as a URL path segment.
		ID:            fmt.Sprintf("YBZ%04d", 1000+rand.Intn(9000)),
		Date:          now,
		Status:        orderStatusNew,
		EstimatedDate: now.Add(7 * 24 * time.Hour),
		DeliveryType:  checkout.DeliveryType,
		Items:         items,
		Subtotal:      subtotal,
		ShippingCost:  shipping,
		Total:         subtotal + shipping,
	}

	h.store.CreateOrder(userID, order)
	h.store.ClearCart(userID)
	h.store.ClearCheckout(userID)

	c.JSON(http.StatusOK, order)
}

func missingCheckoutFields(data models.CheckoutData) []string {
	var fields []string

	if data.DeliveryType != "delivery" && data.DeliveryType != "pickup" {
		fields = append(fields, "delivery_type")
	}
	for _, f := range []struct{ name, value string }{
		{"name", data.Name},
		{"phone", data.Phone},
		{"dni", data.DNI},
		{"email", data.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			fields = append(fields, f.name)
		}
	}
	if data.DeliveryType == "delivery" {
		for _, f := range []struct{ name, value string }{
			{"address", data.Address},
			{"city", data.City},
			{"zip", data.Zip},
		} {
			if strings.TrimSpace(f.value) == "" {
				fields = append(fields, f.name)
			}
		}
	}
	return fields
}
