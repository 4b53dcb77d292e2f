package services_test

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

// fakeGateway wraps the static gateway with call counters and failure hooks.
type fakeGateway struct {
	*gateway.StaticGateway

	mu           sync.Mutex
	getCartCalls int
	writes       [][]models.LineItem
	updateErr    error
	getCartErr   error
	onGetCart    func()
	onCreate     func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{StaticGateway: gateway.NewSeededStaticGateway()}
}

func (f *fakeGateway) GetUserCart(ctx context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	f.getCartCalls++
	hook, err := f.onGetCart, f.getCartErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return f.StaticGateway.GetUserCart(ctx, userID)
}

func (f *fakeGateway) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	return f.StaticGateway.CreateOrder(ctx, order)
}

func (f *fakeGateway) UpdateUserCart(ctx context.Context, userID string, items []models.LineItem) error {
	f.mu.Lock()
	f.writes = append(f.writes, items)
	err := f.updateErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.StaticGateway.UpdateUserCart(ctx, userID, items)
}

func (f *fakeGateway) setUpdateErr(err error) {
	f.mu.Lock()
	f.updateErr = err
	f.mu.Unlock()
}

func (f *fakeGateway) setGetCartErr(err error) {
	f.mu.Lock()
	f.getCartErr = err
	f.mu.Unlock()
}

func (f *fakeGateway) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeGateway) cartCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCartCalls
}

var (
	backpack = models.Product{ID: "1", Title: "Backpack", Price: 10, Category: "men's clothing"}
	tshirt   = models.Product{ID: "2", Title: "T-Shirt", Price: 5, Category: "men's clothing"}
	ring     = models.Product{ID: "6", Title: "Ring", Price: 168, Category: "jewelery"}
)

func line(p models.Product, qty int) models.LineItem {
	return models.LineItem{Product: p, Quantity: qty}
}

type fixture struct {
	ctx     context.Context
	backend *kvstore.MemoryBackend
	store   kvstore.Store
	gw      *fakeGateway
	tokens  *services.TokenService
	auth    services.AuthService
	logger  *zap.Logger
}

func newFixture() *fixture {
	backend := kvstore.NewMemoryBackend()
	gw := newFakeGateway()
	tokens := services.NewTokenService("test-secret", time.Hour)
	logger := zap.NewNop()
	return &fixture{
		ctx:     context.Background(),
		backend: backend,
		store:   backend.Scope("client-1"),
		gw:      gw,
		tokens:  tokens,
		auth:    services.NewAuthService(gw, tokens, logger),
		logger:  logger,
	}
}

// wire builds a session and cart for the fixture's client the way the
// registry does.
func (f *fixture) wire() (*services.Session, *services.CartService) {
	session := services.NewSession(f.auth, f.logger)
	cart := services.NewCartService(f.store, f.gw, f.logger)
	session.Subscribe(cart.HandleSessionTransition)
	return session, cart
}

func (f *fixture) guestCart() ([]models.LineItem, bool) {
	var items []models.LineItem
	found, err := f.store.Get(f.ctx, kvstore.KeyGuestCart, &items)
	if err != nil {
		return nil, false
	}
	return items, found
}

// gatedStore holds the first Set until release is closed, so a later write
// can overtake it.
type gatedStore struct {
	kvstore.Store

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedStore(store kvstore.Store) *gatedStore {
	return &gatedStore{Store: store, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) Set(ctx context.Context, key string, value interface{}) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Store.Set(ctx, key, value)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
