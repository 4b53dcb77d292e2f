package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartCount(t *testing.T, b *browser) float64 {
	t.Helper()
	w := b.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["count"].(float64)
}

func TestCart_GuestFlow(t *testing.T) {
	b := newStorefront(t).browser()

	w := b.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["items"])

	w = b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "2", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["count"])
	assert.InDelta(t, 44.6, body["total"], 0.001)

	w = b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["count"])

	w = b.do(http.MethodPatch, "/cart/items/2", gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), decode(t, w)["count"])

	w = b.do(http.MethodPatch, "/cart/items/2", gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])

	b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "6"})
	b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "9"})
	w = b.do(http.MethodDelete, "/cart/items/6", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = b.do(http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestCart_RejectsBadInput(t *testing.T) {
	b := newStorefront(t).browser()

	w := b.do(http.MethodPost, "/cart/items", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "1", "quantity": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "1", "quantity": 1125899906842624})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "1", "quantity": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(http.MethodPatch, "/cart/items/1", gin.H{"quantity": 1000000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "404"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = b.do(http.MethodPatch, "/cart/items/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, float64(0), cartCount(t, b))
}

func TestCart_ClientsAreIsolated(t *testing.T) {
	s := newStorefront(t)
	alice, bob := s.browser(), s.browser()

	alice.do(http.MethodPost, "/cart/items", gin.H{"product_id": "1"})

	assert.Equal(t, float64(1), cartCount(t, alice))
	assert.Equal(t, float64(0), cartCount(t, bob))
}

// Guest items are merged into the remote cart exactly once on sign-in and
// the cart is emptied on sign-out.
func TestCart_GuestToLoginMerge(t *testing.T) {
	s := newStorefront(t)
	ctx := context.Background()
	require.NoError(t, s.gw.UpdateUserCart(ctx, "1", nil))

	b := s.browser()
	b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "1", "quantity": 2})
	b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "6"})

	w := b.login("demo", "demo123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, b.cookies, "auth-token")
	assert.Equal(t, float64(3), cartCount(t, b))

	b.do(http.MethodPost, "/cart/items", gin.H{"product_id": "1"})
	s.registry.Close()

	remote, err := s.gw.GetUserCart(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, remote)
	require.Len(t, remote.Items, 2)
	assert.Equal(t, "1", remote.Items[0].ID)
	assert.Equal(t, 3, remote.Items[0].Quantity)
	assert.Equal(t, "6", remote.Items[1].ID)

	w = b.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, b.cookies, "auth-token")
	assert.Equal(t, float64(0), cartCount(t, b))

	// signing in again loads the remote cart without merging anything twice
	require.Equal(t, http.StatusOK, b.login("demo", "demo123").Code)
	assert.Equal(t, float64(4), cartCount(t, b))
}
