package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// ListsService manages a client's named product lists. Every mutation writes
// the whole collection back to the client store.
type ListsService struct {
	store  kvstore.Store
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	lists []models.List
	seq   uint64
	saved uint64

	writeMu sync.Mutex
}

func NewListsService(store kvstore.Store, logger *zap.Logger, now func() time.Time) *ListsService {
	if now == nil {
		now = time.Now
	}
	return &ListsService{store: store, logger: logger, now: now, lists: []models.List{}}
}

// Load hydrates the lists from the client store.
func (l *ListsService) Load(ctx context.Context) {
	var lists []models.List
	if _, err := l.store.Get(ctx, kvstore.KeyLists, &lists); err != nil {
		if errors.Is(err, kvstore.ErrCorrupt) {
			l.logger.Warn("Discarding unreadable lists", zap.Error(err))
		} else {
			l.logger.Error("Failed to read lists", zap.Error(err))
		}
		return
	}
	if lists == nil {
		lists = []models.List{}
	}
	l.mu.Lock()
	l.lists = lists
	l.mu.Unlock()
}

func (l *ListsService) Lists() []models.List {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.List, 0, len(l.lists))
	for _, list := range l.lists {
		out = append(out, cloneList(list))
	}
	return out
}

func (l *ListsService) GetList(id string) (models.List, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return models.List{}, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	return cloneList(l.lists[i]), nil
}

func (l *ListsService) CreateList(ctx context.Context, req models.CreateListRequest) models.List {
	now := l.now().UTC()
	list := models.List{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Items:       []models.ListItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	l.mu.Lock()
	l.lists = append(l.lists, list)
	l.seq++
	l.mu.Unlock()

	l.save(ctx)
	return cloneList(list)
}

// UpdateList applies a shallow patch of name and description.
func (l *ListsService) UpdateList(ctx context.Context, id string, patch models.UpdateListRequest) (models.List, error) {
	return l.mutate(ctx, id, func(list *models.List) bool {
		if patch.Name != nil {
			list.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			list.Description = *patch.Description
		}
		return true
	})
}

func (l *ListsService) DeleteList(ctx context.Context, id string) error {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	l.lists = append(l.lists[:i:i], l.lists[i+1:]...)
	l.seq++
	l.mu.Unlock()

	l.save(ctx)
	return nil
}

// AddProductToList appends a snapshot of product unless the list already
// holds it, in which case the list is returned unchanged.
func (l *ListsService) AddProductToList(ctx context.Context, listID string, product models.Product) (models.List, error) {
	return l.mutate(ctx, listID, func(list *models.List) bool {
		if list.Contains(product.ID) {
			return false
		}
		list.Items = append(list.Items, models.ListItem{Product: product, AddedAt: l.now().UTC()})
		return true
	})
}

func (l *ListsService) RemoveProductFromList(ctx context.Context, listID, productID string) (models.List, error) {
	return l.mutate(ctx, listID, func(list *models.List) bool {
		items := make([]models.ListItem, 0, len(list.Items))
		for _, item := range list.Items {
			if item.ID != productID {
				items = append(items, item)
			}
		}
		list.Items = items
		return true
	})
}

func (l *ListsService) IsProductInList(listID, productID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(listID)
	return i >= 0 && l.lists[i].Contains(productID)
}

// GetProductLists returns every list containing productID.
func (l *ListsService) GetProductLists(productID string) []models.List {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.List, 0)
	for _, list := range l.lists {
		if list.Contains(productID) {
			out = append(out, cloneList(list))
		}
	}
	return out
}

// mutate runs fn on a copy of the list and stores it when fn reports a
// change, bumping UpdatedAt.
func (l *ListsService) mutate(ctx context.Context, id string, fn func(*models.List) bool) (models.List, error) {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return models.List{}, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	list := cloneList(l.lists[i])
	if !fn(&list) {
		l.mu.Unlock()
		return list, nil
	}
	list.UpdatedAt = l.now().UTC()
	lists := make([]models.List, len(l.lists))
	copy(lists, l.lists)
	lists[i] = list
	l.lists = lists
	l.seq++
	l.mu.Unlock()

	l.save(ctx)
	return cloneList(list), nil
}

// save writes the newest collection. Writes are serialised and a write that
// has been overtaken by a newer one is skipped.
func (l *ListsService) save(ctx context.Context) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.mu.Lock()
	if l.seq <= l.saved {
		l.mu.Unlock()
		return
	}
	seq := l.seq
	lists := make([]models.List, len(l.lists))
	copy(lists, l.lists)
	l.mu.Unlock()

	if err := l.store.Set(ctx, kvstore.KeyLists, lists); err != nil {
		l.logger.Warn("Failed to save lists", zap.Error(err))
		return
	}
	l.mu.Lock()
	if seq > l.saved {
		l.saved = seq
	}
	l.mu.Unlock()
}

func (l *ListsService) indexOf(id string) int {
	for i := range l.lists {
		if l.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneList(list models.List) models.List {
	items := make([]models.ListItem, len(list.Items))
	copy(items, list.Items)
	list.Items = items
	return list
}
