package models

type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	OldPrice    string   `json:"old_price,omitempty"`
	Badge       string   `json:"badge,omitempty"`
	ImgSrc      string   `json:"img_src"`
	Promotions  []string `json:"promotions,omitempty"`
	Thumbnails  []string `json:"thumbnails,omitempty"`
}
