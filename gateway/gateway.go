package gateway

import (
	"context"
	"fmt"

	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// Backend names a Gateway implementation.
type Backend string

const (
	BackendJSONServer Backend = "json-server"
	BackendNeonDB     Backend = "neon-db"
	BackendStatic     Backend = "static"
)

// ParseBackend validates a GATEWAY_BACKEND value.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendJSONServer, BackendNeonDB, BackendStatic:
		return b, nil
	default:
		return "", fmt.Errorf("unknown gateway backend %q", s)
	}
}

// Gateway is the remote catalog, user, cart and order store. Lookups that
// find nothing return a nil result and a nil error.
type Gateway interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)

	GetUserCart(ctx context.Context, userID string) (*models.Cart, error)
	UpdateUserCart(ctx context.Context, userID string, items []models.LineItem) error
	ClearUserCart(ctx context.Context, userID string) error

	GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUserPartial(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error)
	CheckUsernameExists(ctx context.Context, username string) (bool, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)

	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// categoriesOf returns the distinct categories in first-seen order.
func categoriesOf(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func copyItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}
