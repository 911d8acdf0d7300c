package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a finalized customization ready for checkout. It is
// produced once by the customizer on submit and immutable afterwards
// except for its quantity.
type CartItem struct {
	ID          uuid.UUID `json:"id"`
	ProductID   int       `json:"product_id"`
	ImgSrc      string    `json:"img_src"`
	ProjectName string    `json:"project_name"`
	Format      string    `json:"format"`
	PaperType   string    `json:"paper_type"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

type CheckoutData struct {
	DeliveryType string `json:"delivery_type"` // "delivery" or "pickup"
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	DNI          string `json:"dni"`
	Email        string `json:"email"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Zip          string `json:"zip,omitempty"`
}

type Order struct {
	ID            string     `json:"order_id"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	EstimatedDate time.Time  `json:"estimated_date"`
	DeliveryType  string     `json:"delivery_type"`
	Items         []CartItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	ShippingCost  float64    `json:"shipping_cost"`
	Total         float64    `json:"total"`
}
