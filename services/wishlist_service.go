package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

type WishlistActionType string

const (
	ActionAddToWishlist      WishlistActionType = "ADD_TO_WISHLIST"
	ActionRemoveFromWishlist WishlistActionType = "REMOVE_FROM_WISHLIST"
	ActionClearWishlist      WishlistActionType = "CLEAR_WISHLIST"
	ActionLoadWishlist       WishlistActionType = "LOAD_WISHLIST"
)

type WishlistAction struct {
	Type    WishlistActionType
	Product models.Product
	ID      string
	Items   []models.Product
}

type WishlistState struct {
	Items []models.Product `json:"items"`
}

// ReduceWishlist applies action to state. Items form a set keyed by id.
func ReduceWishlist(state WishlistState, action WishlistAction) WishlistState {
	switch action.Type {
	case ActionAddToWishlist:
		if containsProduct(state.Items, action.Product.ID) {
			return state
		}
		items := make([]models.Product, 0, len(state.Items)+1)
		items = append(items, state.Items...)
		return WishlistState{Items: append(items, action.Product)}

	case ActionRemoveFromWishlist:
		items := make([]models.Product, 0, len(state.Items))
		for _, p := range state.Items {
			if p.ID != action.ID {
				items = append(items, p)
			}
		}
		return WishlistState{Items: items}

	case ActionClearWishlist:
		return WishlistState{Items: []models.Product{}}

	case ActionLoadWishlist:
		items := make([]models.Product, 0, len(action.Items))
		for _, p := range action.Items {
			if !containsProduct(items, p.ID) {
				items = append(items, p)
			}
		}
		return WishlistState{Items: items}

	default:
		return state
	}
}

func containsProduct(items []models.Product, id string) bool {
	for _, p := range items {
		if p.ID == id {
			return true
		}
	}
	return false
}

// WishlistService keeps the wishlist in the client store only. It does not
// follow the session.
type WishlistService struct {
	store  kvstore.Store
	logger *zap.Logger

	mu          sync.Mutex
	state       WishlistState
	seq         uint64
	saved       uint64
	subscribers []func(WishlistState)

	writeMu sync.Mutex
}

func NewWishlistService(store kvstore.Store, logger *zap.Logger) *WishlistService {
	return &WishlistService{store: store, logger: logger, state: WishlistState{Items: []models.Product{}}}
}

// Load hydrates the wishlist from the client store.
func (w *WishlistService) Load(ctx context.Context) {
	var items []models.Product
	if _, err := w.store.Get(ctx, kvstore.KeyWishlist, &items); err != nil {
		if errors.Is(err, kvstore.ErrCorrupt) {
			w.logger.Warn("Discarding unreadable wishlist", zap.Error(err))
		} else {
			w.logger.Error("Failed to read wishlist", zap.Error(err))
		}
		return
	}
	w.mu.Lock()
	w.state = ReduceWishlist(w.state, WishlistAction{Type: ActionLoadWishlist, Items: items})
	w.mu.Unlock()
}

func (w *WishlistService) Subscribe(fn func(WishlistState)) {
	w.mu.Lock()
	w.subscribers = append(w.subscribers, fn)
	w.mu.Unlock()
}

func (w *WishlistService) Items() []models.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Product{}, w.state.Items...)
}

func (w *WishlistService) IsInWishlist(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return containsProduct(w.state.Items, id)
}

func (w *WishlistService) AddToWishlist(ctx context.Context, product models.Product) {
	w.dispatch(ctx, WishlistAction{Type: ActionAddToWishlist, Product: product})
}

func (w *WishlistService) RemoveFromWishlist(ctx context.Context, id string) {
	w.dispatch(ctx, WishlistAction{Type: ActionRemoveFromWishlist, ID: id})
}

func (w *WishlistService) ClearWishlist(ctx context.Context) {
	w.dispatch(ctx, WishlistAction{Type: ActionClearWishlist})
}

func (w *WishlistService) dispatch(ctx context.Context, action WishlistAction) {
	w.mu.Lock()
	w.state = ReduceWishlist(w.state, action)
	w.seq++
	snapshot := WishlistState{Items: append([]models.Product{}, w.state.Items...)}
	subs := w.subscribers
	w.mu.Unlock()

	w.save(ctx)
	notify(subs, snapshot)
}

// save writes the newest wishlist. Writes are serialised so an older
// snapshot never overwrites a newer one.
func (w *WishlistService) save(ctx context.Context) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.Lock()
	if w.seq <= w.saved {
		w.mu.Unlock()
		return
	}
	seq := w.seq
	items := append([]models.Product{}, w.state.Items...)
	w.mu.Unlock()

	if err := w.store.Set(ctx, kvstore.KeyWishlist, items); err != nil {
		w.logger.Warn("Failed to save wishlist", zap.Error(err))
		return
	}
	w.mu.Lock()
	if seq > w.saved {
		w.saved = seq
	}
	w.mu.Unlock()
}
