package services

import "github.com/zzafergok/mobiversite-ecommerce/models"

type CartActionType string

const (
	ActionAddToCart      CartActionType = "ADD_TO_CART"
	ActionRemoveFromCart CartActionType = "REMOVE_FROM_CART"
	ActionUpdateQuantity CartActionType = "UPDATE_QUANTITY"
	ActionClearCart      CartActionType = "CLEAR_CART"
	ActionLoadCart       CartActionType = "LOAD_CART"
	ActionMergeCarts     CartActionType = "MERGE_CARTS"
)

// CartAction is a tagged union; which fields are read depends on Type.
//
//	ADD_TO_CART       Product, Quantity (units to add, at least one)
//	REMOVE_FROM_CART  ID
//	UPDATE_QUANTITY   ID, Quantity
//	LOAD_CART         Items
//	MERGE_CARTS       UserCart, GuestCart
type CartAction struct {
	Type      CartActionType
	Product   models.Product
	ID        string
	Quantity  int
	Items     []models.LineItem
	UserCart  []models.LineItem
	GuestCart []models.LineItem
}

// CartState is the cart engine's state. Items keep insertion order.
type CartState struct {
	Items []models.LineItem `json:"items"`
}

// Total is Σ price × quantity.
func (s CartState) Total() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.Subtotal()
	}
	return total
}

// Count is Σ quantity.
func (s CartState) Count() int {
	var n int
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// ReduceCart applies action to state and returns the new state. The input
// state is never modified.
func ReduceCart(state CartState, action CartAction) CartState {
	switch action.Type {
	case ActionAddToCart:
		n := action.Quantity
		if n < 1 {
			n = 1
		}
		items := cloneItems(state.Items)
		if i := indexOf(items, action.Product.ID); i >= 0 {
			items[i].Quantity += n
			return CartState{Items: items}
		}
		return CartState{Items: append(items, models.LineItem{Product: action.Product, Quantity: n})}

	case ActionRemoveFromCart:
		return CartState{Items: without(state.Items, action.ID)}

	case ActionUpdateQuantity:
		if action.Quantity <= 0 {
			return CartState{Items: without(state.Items, action.ID)}
		}
		items := cloneItems(state.Items)
		if i := indexOf(items, action.ID); i >= 0 {
			items[i].Quantity = action.Quantity
		}
		return CartState{Items: items}

	case ActionClearCart:
		return CartState{Items: []models.LineItem{}}

	case ActionLoadCart:
		return CartState{Items: mergeInto(nil, action.Items)}

	case ActionMergeCarts:
		return CartState{Items: mergeInto(action.UserCart, action.GuestCart)}

	default:
		return state
	}
}

// mergeInto returns base followed by extra, where an extra item whose id is
// already present adds its quantity to that line instead of appending.
// Lines with a non-positive quantity are dropped.
func mergeInto(base, extra []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, 0, len(base)+len(extra))
	for _, src := range [][]models.LineItem{base, extra} {
		for _, item := range src {
			if item.Quantity <= 0 {
				continue
			}
			if i := indexOf(out, item.ID); i >= 0 {
				out[i].Quantity += item.Quantity
				continue
			}
			out = append(out, item)
		}
	}
	return out
}

func indexOf(items []models.LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func without(items []models.LineItem, id string) []models.LineItem {
	out := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func cloneItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}
