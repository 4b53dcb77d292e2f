package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
)

// Client is the state bundle of one browser client. Its engines share the
// client's store; the cart follows the session.
type Client struct {
	ID       string
	Session  *Session
	Cart     *CartService
	Wishlist *WishlistService
	Lists    *ListsService

	init     sync.Once
	store    kvstore.Store
	lastSeen time.Time
}

// RegistryConfig wires a Registry.
type RegistryConfig struct {
	Backend     kvstore.Backend
	Gateway     gateway.Gateway
	Auth        AuthService
	Logger      *zap.Logger
	TTL         time.Duration
	Environment string
	Now         func() time.Time
}

// Registry holds the live client bundles. Idle bundles are evicted; all of
// their state is persisted, so they are rebuilt on the next request.
type Registry struct {
	cfg RegistryConfig

	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{cfg: cfg, clients: make(map[string]*Client)}
}

// Get returns the bundle for clientID, building and hydrating it on first use,
// and brings its session in line with token.
func (r *Registry) Get(ctx context.Context, clientID, token string) *Client {
	r.mu.Lock()
	c, ok := r.clients[clientID]
	if !ok {
		c = r.build(clientID)
		r.clients[clientID] = c
	}
	c.lastSeen = r.cfg.Now()
	r.mu.Unlock()

	c.init.Do(func() { r.hydrate(ctx, c) })
	c.Session.Sync(ctx, token)
	c.Cart.RetryMerge(ctx)
	return c
}

func (r *Registry) build(clientID string) *Client {
	store := r.cfg.Backend.Scope(clientID)
	logger := r.cfg.Logger.With(zap.String("client_id", clientID))

	c := &Client{
		ID:       clientID,
		Session:  NewSession(r.cfg.Auth, logger),
		Cart:     NewCartService(store, r.cfg.Gateway, logger),
		Wishlist: NewWishlistService(store, logger),
		Lists:    NewListsService(store, logger, r.cfg.Now),
		store:    store,
	}
	c.Session.Subscribe(c.Cart.HandleSessionTransition)
	return c
}

func (r *Registry) hydrate(ctx context.Context, c *Client) {
	c.Cart.Hydrate(ctx)
	c.Wishlist.Load(ctx)
	c.Lists.Load(ctx)
	if r.cfg.Environment != "" {
		if err := c.store.Set(ctx, kvstore.KeyEnvironment, r.cfg.Environment); err != nil {
			r.cfg.Logger.Warn("Failed to record environment", zap.Error(err), zap.String("client_id", c.ID))
		}
	}
}

// Len reports how many bundles are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Evict drops bundles idle for longer than the TTL after their pending cart
// writes finish. It returns how many were dropped.
func (r *Registry) Evict() int {
	cutoff := r.cfg.Now().Add(-r.cfg.TTL)

	r.mu.Lock()
	var idle []*Client
	for id, c := range r.clients {
		if c.lastSeen.Before(cutoff) {
			idle = append(idle, c)
			delete(r.clients, id)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Cart.Wait()
	}
	if len(idle) > 0 {
		r.cfg.Logger.Debug("Evicted idle clients", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run evicts idle bundles periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.TTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Evict()
		}
	}
}

// Close waits for every pending cart write.
func (r *Registry) Close() {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.Cart.Wait()
	}
}
