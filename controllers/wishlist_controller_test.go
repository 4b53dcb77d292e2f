package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_Flow(t *testing.T) {
	b := newStorefront(t).browser()

	w := b.do(http.MethodPost, "/wishlist/items", gin.H{"product_id": "5"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = b.do(http.MethodPost, "/wishlist/items", gin.H{"product_id": "5"})
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = b.do(http.MethodGet, "/wishlist/items/5", nil)
	assert.Equal(t, true, decode(t, w)["inWishlist"])
	w = b.do(http.MethodGet, "/wishlist/items/6", nil)
	assert.Equal(t, false, decode(t, w)["inWishlist"])

	w = b.do(http.MethodPost, "/wishlist/items", gin.H{"product_id": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	b.do(http.MethodPost, "/wishlist/items", gin.H{"product_id": "6"})
	w = b.do(http.MethodDelete, "/wishlist/items/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "6", items[0].(map[string]interface{})["id"])

	w = b.do(http.MethodDelete, "/wishlist", nil)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestWishlist_SurvivesLoginAndLogout(t *testing.T) {
	b := newStorefront(t).browser()
	b.do(http.MethodPost, "/wishlist/items", gin.H{"product_id": "9"})

	require.Equal(t, http.StatusOK, b.login("demo", "demo123").Code)
	w := b.do(http.MethodGet, "/wishlist", nil)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	b.do(http.MethodPost, "/auth/logout", nil)
	w = b.do(http.MethodGet, "/wishlist", nil)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}
