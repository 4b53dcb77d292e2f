package models

import "time"

// ListItem is a product snapshot stored in a List.
type ListItem struct {
	Product
	AddedAt time.Time `json:"addedAt"`
}

// List is a user-named collection of products, distinct from the wishlist.
type List struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Items       []ListItem `json:"items"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Contains reports whether the list holds a product with the given id.
func (l *List) Contains(productID string) bool {
	for _, item := range l.Items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// CreateListRequest is the payload for creating a list.
type CreateListRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateListRequest is a shallow patch; nil fields are left untouched.
type UpdateListRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}
