package models

import "time"

// LineItem is one product entry in a cart. At most one LineItem exists per
// product id and Quantity is always >= 1.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// Cart is the remote, per-user cart record kept by a gateway.
type Cart struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"userId"`
	Items     []LineItem `json:"items"`
	Timestamp int64      `json:"timestamp,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

// MaxLineQuantity caps the units a single request may put on a line.
const MaxLineQuantity = 99

// AddToCartRequest adds quantity (default 1) of a catalog product.
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateQuantityRequest sets a line's quantity; zero or less removes it.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=99"`
}
