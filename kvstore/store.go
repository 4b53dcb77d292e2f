package kvstore

import (
	"context"
	"errors"
)

// Keys used by the storefront engines.
const (
	KeyGuestCart   = "guestCart"
	KeyWishlist    = "wishlist"
	KeyLists       = "userLists"
	KeyEnvironment = "environment"
)

// ErrCorrupt is returned by Get when a stored value cannot be decoded.
var ErrCorrupt = errors.New("kvstore: stored value is not valid JSON")

// Store is a JSON key-value store scoped to one browser client.
type Store interface {
	// Get decodes the value under key into dst. found is false when the key
	// does not exist.
	Get(ctx context.Context, key string, dst interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}) error
	Remove(ctx context.Context, key string) error
}

// Backend is a store shared by many clients. Scope binds it to one of them.
type Backend interface {
	Scope(clientID string) Store
}
