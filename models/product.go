package models

// Product is a catalog entry as served by every gateway backend.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
}

// ProductRef names a catalog product in wishlist and list requests.
type ProductRef struct {
	ProductID string `json:"product_id" binding:"required"`
}
