package models

type HealthResponse struct {
	Status string `json:"status"`
}

type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type CropRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FieldErrors mirrors the customizer's per-field validation flags.
type FieldErrors struct {
	Image      bool `json:"image"`
	Paper      bool `json:"paper"`
	Project    bool `json:"project"`
	Dimensions bool `json:"dimensions"`
}

type SessionResponse struct {
	SessionID     string      `json:"session_id"`
	ProductID     int         `json:"product_id"`
	Mode          string      `json:"mode"`
	FormatID      string      `json:"format_id"`
	FormatLabel   string      `json:"format_label"`
	UnitPrice     float64     `json:"unit_price"`
	CustomWidth   *float64    `json:"custom_width,omitempty"`
	CustomHeight  *float64    `json:"custom_height,omitempty"`
	PaperType     string      `json:"paper_type"`
	ProjectName   string      `json:"project_name"`
	HasImage      bool        `json:"has_image"`
	DisplayWidth  float64     `json:"display_width,omitempty"`
	DisplayHeight float64     `json:"display_height,omitempty"`
	CropRect      *CropRect   `json:"crop_rect,omitempty"`
	Errors        FieldErrors `json:"errors"`
}

type FilterPreviewResponse struct {
	Filter string `json:"filter"`
}

type TranscriptEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type AISessionResponse struct {
	State        string            `json:"state"`
	Transcript   []TranscriptEntry `json:"transcript"`
	HistorySize  int               `json:"history_size"`
	CurrentIndex int               `json:"current_index"`
}

type CartResponse struct {
	Items    []CartItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
}

type SubmitResponse struct {
	Item CartItem     `json:"item"`
	Cart CartResponse `json:"cart"`
}

type OrderListResponse struct {
	Orders []OrderSummary `json:"orders"`
}

type OrderSummary struct {
	ID           string  `json:"order_id"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	DeliveryType string  `json:"delivery_type"`
	ItemCount    int     `json:"item_count"`
	Total        float64 `json:"total"`
}
