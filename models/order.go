package models

import "time"

const (
	OrderStatusCompleted = "completed"
	OrderStatusPending   = "pending"
)

// Order is a placed order as stored by a gateway.
type Order struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Date            time.Time  `json:"date"`
	Items           []LineItem `json:"items"`
	Total           float64    `json:"total"`
	Status          string     `json:"status"`
	ShippingAddress string     `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

// OrderCreatedEvent is published after an order has been stored.
type OrderCreatedEvent struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Items     int       `json:"items"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
