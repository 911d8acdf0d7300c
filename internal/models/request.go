package models

type CreateSessionRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type SelectFormatRequest struct {
	FormatID string `json:"format_id" binding:"required"`
	// Only meaningful when FormatID is "custom". Centimeters.
	CustomWidth  *float64 `json:"custom_width,omitempty"`
	CustomHeight *float64 `json:"custom_height,omitempty"`
}

type DragRequest struct {
	DeltaX float64 `json:"delta_x"`
	DeltaY float64 `json:"delta_y"`
}

type AIMessageRequest struct {
	Text string `json:"text"`
}

type SubmitRequest struct {
	PaperType   string `json:"paper_type"`
	ProjectName string `json:"project_name"`
}

type UpdateCartItemRequest struct {
	// Quantity delta, e.g. +1 or -1. Quantity never drops below 1.
	Delta int `json:"delta"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
