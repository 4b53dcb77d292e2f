package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

const remoteWriteTimeout = 10 * time.Second

// CartService owns one client's cart. Guests persist to the client store on
// every change; signed-in users persist to the gateway in the background.
type CartService struct {
	store  kvstore.Store
	gw     gateway.Gateway
	logger *zap.Logger

	mu          sync.Mutex
	state       CartState
	userID      string // owner of the persisted cart, "" for a guest cart
	joining     string // user whose sign-in merge has not completed
	merging     bool
	dropGuest   bool // guest key is removed once the merged cart is stored
	seq         uint64
	written     uint64
	subscribers []func(CartState)

	// serialises store and gateway writes so the newest snapshot always lands last
	writeMu sync.Mutex
	pending sync.WaitGroup
}

func NewCartService(store kvstore.Store, gw gateway.Gateway, logger *zap.Logger) *CartService {
	return &CartService{
		store:  store,
		gw:     gw,
		logger: logger,
		state:  CartState{Items: []models.LineItem{}},
	}
}

// Subscribe registers fn to be called with the new state after every change.
func (c *CartService) Subscribe(fn func(CartState)) {
	c.mu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *CartService) Snapshot() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CartState{Items: cloneItems(c.state.Items)}
}

func (c *CartService) Items() []models.LineItem {
	return c.Snapshot().Items
}

func (c *CartService) GetCartTotal() float64 {
	return c.Snapshot().Total()
}

func (c *CartService) GetCartItemsCount() int {
	return c.Snapshot().Count()
}

// Owner returns the user id backing the cart, or "" for a guest cart.
func (c *CartService) Owner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// AddToCart adds quantity units of product in one step. Quantities below one
// add a single unit and quantities above MaxLineQuantity are capped.
func (c *CartService) AddToCart(ctx context.Context, product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > models.MaxLineQuantity {
		quantity = models.MaxLineQuantity
	}
	c.dispatch(ctx, CartAction{Type: ActionAddToCart, Product: product, Quantity: quantity})
}

func (c *CartService) RemoveFromCart(ctx context.Context, id string) {
	c.dispatch(ctx, CartAction{Type: ActionRemoveFromCart, ID: id})
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
func (c *CartService) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		c.RemoveFromCart(ctx, id)
		return
	}
	c.dispatch(ctx, CartAction{Type: ActionUpdateQuantity, ID: id, Quantity: quantity})
}

func (c *CartService) ClearCart(ctx context.Context) {
	c.dispatch(ctx, CartAction{Type: ActionClearCart})
}

// ClearIfUnchanged clears the cart only when it still holds exactly items.
// It reports whether the cart was cleared.
func (c *CartService) ClearIfUnchanged(ctx context.Context, items []models.LineItem) bool {
	return c.dispatchIf(ctx, func(s CartState) bool { return sameItems(s.Items, items) }, CartAction{Type: ActionClearCart})
}

func (c *CartService) dispatch(ctx context.Context, action CartAction) {
	c.dispatchIf(ctx, nil, action)
}

// dispatchIf applies action when cond, checked under the state lock, holds.
func (c *CartService) dispatchIf(ctx context.Context, cond func(CartState) bool, action CartAction) bool {
	c.mu.Lock()
	if cond != nil && !cond(c.state) {
		c.mu.Unlock()
		return false
	}
	c.state = ReduceCart(c.state, action)
	c.seq++
	owner := c.userID
	snapshot := CartState{Items: cloneItems(c.state.Items)}
	subs := c.subscribers
	c.mu.Unlock()

	c.persist(ctx, owner)
	notify(subs, snapshot)
	return true
}

func (c *CartService) persist(ctx context.Context, owner string) {
	if owner == "" {
		c.saveGuest(ctx)
		return
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()
		if err := c.flush(bgCtx, owner); err != nil {
			c.logger.Error("Failed to save user cart", zap.Error(err), zap.String("user_id", owner))
		}
	}()
}

// saveGuest writes the newest guest state to the client store.
func (c *CartService) saveGuest(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.userID != "" || c.seq <= c.written {
		c.mu.Unlock()
		return
	}
	seq := c.seq
	items := cloneItems(c.state.Items)
	c.mu.Unlock()

	if err := c.store.Set(ctx, kvstore.KeyGuestCart, items); err != nil {
		c.logger.Warn("Failed to save guest cart", zap.Error(err))
		return
	}
	c.markWritten(seq)
}

// flush writes the newest state to the gateway unless it has already been
// written or the cart has changed hands.
func (c *CartService) flush(ctx context.Context, owner string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.userID != owner || c.seq <= c.written {
		c.mu.Unlock()
		return nil
	}
	seq := c.seq
	items := cloneItems(c.state.Items)
	c.mu.Unlock()

	if err := c.gw.UpdateUserCart(ctx, owner, items); err != nil {
		return err
	}
	c.markWritten(seq)

	c.mu.Lock()
	drop := c.dropGuest && c.userID == owner
	c.dropGuest = false
	c.mu.Unlock()
	if drop {
		if err := c.store.Remove(ctx, kvstore.KeyGuestCart); err != nil {
			c.logger.Warn("Failed to remove guest cart", zap.Error(err))
		}
	}
	return nil
}

func (c *CartService) markWritten(seq uint64) {
	c.mu.Lock()
	if seq > c.written {
		c.written = seq
	}
	c.mu.Unlock()
}

// Wait blocks until every background cart write has finished.
func (c *CartService) Wait() {
	c.pending.Wait()
}

// Hydrate loads the guest cart from the client store. Signed-in carts are
// loaded by the merge that follows the session check.
func (c *CartService) Hydrate(ctx context.Context) {
	c.mu.Lock()
	owner := c.userID
	c.mu.Unlock()
	if owner != "" {
		return
	}

	items := c.readGuestCart(ctx)
	if len(items) == 0 {
		return
	}

	c.mu.Lock()
	if c.userID != "" {
		c.mu.Unlock()
		return
	}
	c.state = ReduceCart(c.state, CartAction{Type: ActionLoadCart, Items: items})
	snapshot := CartState{Items: cloneItems(c.state.Items)}
	subs := c.subscribers
	c.mu.Unlock()

	notify(subs, snapshot)
}

func (c *CartService) readGuestCart(ctx context.Context) []models.LineItem {
	var items []models.LineItem
	if _, err := c.store.Get(ctx, kvstore.KeyGuestCart, &items); err != nil {
		if errors.Is(err, kvstore.ErrCorrupt) {
			c.logger.Warn("Discarding unreadable guest cart", zap.Error(err))
		} else {
			c.logger.Error("Failed to read guest cart", zap.Error(err))
		}
		return nil
	}
	return items
}

// HandleSessionTransition reacts to session changes: signing in merges the
// guest cart into the user's remote cart, signing out clears the cart.
func (c *CartService) HandleSessionTransition(ctx context.Context, t Transition) {
	switch {
	case t.To == models.SessionAuthenticated && t.User != nil:
		owner := c.Owner()
		if owner == t.User.ID {
			return
		}
		if owner != "" {
			c.reset(ctx)
		}
		c.merge(ctx, t.User.ID)

	case t.To == models.SessionAnonymous && t.From == models.SessionAuthenticated:
		c.reset(ctx)
	}
}

// RetryMerge finishes a sign-in whose remote cart could not be loaded. Until
// it succeeds the cart keeps persisting to the client store only.
func (c *CartService) RetryMerge(ctx context.Context) {
	c.mu.Lock()
	userID, busy := c.joining, c.merging
	c.mu.Unlock()
	if userID == "" || busy {
		return
	}
	c.merge(ctx, userID)
}

// merge runs at most once at a time. It reports whether guest items were
// merged into the remote cart. The cart only changes hands once the remote
// cart is loaded, so guest items never reach the gateway unmerged.
func (c *CartService) merge(ctx context.Context, userID string) bool {
	c.mu.Lock()
	c.joining = userID
	if c.merging {
		c.mu.Unlock()
		c.logger.Debug("Cart merge already in flight", zap.String("user_id", userID))
		return false
	}
	c.merging = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.merging = false
		c.mu.Unlock()
	}()

	remote, err := c.gw.GetUserCart(ctx, userID)
	if err != nil {
		c.logger.Error("Failed to load user cart", zap.Error(err), zap.String("user_id", userID))
		return false
	}
	var remoteItems []models.LineItem
	if remote != nil {
		remoteItems = remote.Items
	}

	c.writeMu.Lock()
	guest := c.readGuestCart(ctx)
	c.writeMu.Unlock()

	c.mu.Lock()
	if c.joining != userID {
		c.mu.Unlock()
		c.logger.Info("Discarding cart load for stale session", zap.String("user_id", userID))
		return false
	}
	if c.seq != c.written {
		// the stored guest cart is behind the in-memory one
		guest = cloneItems(c.state.Items)
	}
	c.joining = ""
	c.userID = userID
	merged := len(guest) > 0
	if merged {
		c.state = ReduceCart(c.state, CartAction{Type: ActionMergeCarts, UserCart: remoteItems, GuestCart: guest})
		c.seq++
		c.dropGuest = true
	} else {
		c.state = ReduceCart(c.state, CartAction{Type: ActionLoadCart, Items: remoteItems})
		c.written = c.seq
	}
	snapshot := CartState{Items: cloneItems(c.state.Items)}
	subs := c.subscribers
	c.mu.Unlock()

	if merged {
		if err := c.flush(ctx, userID); err != nil {
			c.logger.Error("Failed to save merged cart", zap.Error(err), zap.String("user_id", userID))
		}
		c.logger.Info("Merged guest cart", zap.String("user_id", userID), zap.Int("items", len(snapshot.Items)))
	}

	notify(subs, snapshot)
	return merged
}

func (c *CartService) reset(ctx context.Context) {
	c.mu.Lock()
	c.userID = ""
	c.joining = ""
	c.dropGuest = false
	c.state = CartState{Items: []models.LineItem{}}
	c.seq++
	c.written = c.seq
	snapshot := CartState{Items: []models.LineItem{}}
	subs := c.subscribers
	c.mu.Unlock()

	c.writeMu.Lock()
	if err := c.store.Remove(ctx, kvstore.KeyGuestCart); err != nil {
		c.logger.Warn("Failed to remove guest cart", zap.Error(err))
	}
	c.writeMu.Unlock()
	notify(subs, snapshot)
}

func sameItems(a, b []models.LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

func notify[T any](subs []func(T), v T) {
	for _, fn := range subs {
		fn(v)
	}
}
