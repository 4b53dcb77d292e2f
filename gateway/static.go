package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// StaticGateway serves a seeded dataset from memory. Writes live for the
// lifetime of the process.
type StaticGateway struct {
	mu       sync.RWMutex
	products []models.Product
	users    []models.User
	carts    map[string]models.Cart
	orders   []models.Order
	now      func() time.Time
}

func NewStaticGateway(products []models.Product, users []models.User) *StaticGateway {
	g := &StaticGateway{
		products: append([]models.Product(nil), products...),
		users:    append([]models.User(nil), users...),
		carts:    make(map[string]models.Cart),
		now:      time.Now,
	}
	return g
}

// NewSeededStaticGateway returns a gateway holding the demo catalog and user.
func NewSeededStaticGateway() *StaticGateway {
	return NewStaticGateway(SeedProducts, []models.User{DemoUser})
}

func (g *StaticGateway) GetAllProducts(_ context.Context) ([]models.Product, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]models.Product(nil), g.products...), nil
}

func (g *StaticGateway) GetProduct(_ context.Context, id string) (*models.Product, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range g.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (g *StaticGateway) GetProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]models.Product, 0)
	for _, p := range g.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *StaticGateway) GetCategories(_ context.Context) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return categoriesOf(g.products), nil
}

func (g *StaticGateway) GetUserCart(_ context.Context, userID string) (*models.Cart, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.carts[userID]
	if !ok {
		return nil, nil
	}
	c.Items = copyItems(c.Items)
	return &c, nil
}

func (g *StaticGateway) UpdateUserCart(_ context.Context, userID string, items []models.LineItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	g.carts[userID] = models.Cart{UserID: userID, Items: copyItems(items), Timestamp: now.UnixMilli(), UpdatedAt: now.UTC()}
	return nil
}

func (g *StaticGateway) ClearUserCart(ctx context.Context, userID string) error {
	return g.UpdateUserCart(ctx, userID, nil)
}

func (g *StaticGateway) GetUserByCredentials(_ context.Context, username, password string) (*models.User, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, u := range g.users {
		if u.Username == username && u.Password == password {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (g *StaticGateway) GetUserByID(_ context.Context, id string) (*models.User, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i := g.userIndex(id); i >= 0 {
		cp := g.users[i]
		return &cp, nil
	}
	return nil, nil
}

func (g *StaticGateway) userIndex(id string) int {
	for i, u := range g.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (g *StaticGateway) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = g.now().UTC()
	g.users = append(g.users, u)
	return &u, nil
}

func (g *StaticGateway) UpdateUserPartial(_ context.Context, id string, patch models.ProfilePatch) (*models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.userIndex(id)
	if i < 0 {
		return nil, nil
	}
	patch.Apply(&g.users[i])
	g.users[i].UpdatedAt = g.now().UTC()
	cp := g.users[i]
	return &cp, nil
}

func (g *StaticGateway) CheckUsernameExists(_ context.Context, username string) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, u := range g.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (g *StaticGateway) CheckEmailExists(_ context.Context, email string) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, u := range g.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (g *StaticGateway) GetOrdersByUserID(_ context.Context, userID string) ([]models.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range g.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (g *StaticGateway) GetOrder(_ context.Context, id string) (*models.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, o := range g.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

func (g *StaticGateway) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o := *order
	o.Items = copyItems(order.Items)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = g.now().UTC()
	}
	g.orders = append(g.orders, o)
	return &o, nil
}
