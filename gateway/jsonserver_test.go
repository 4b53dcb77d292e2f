package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

func TestJSONServer_GetUserCart_ReturnsNewestRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/carts", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		_ = json.NewEncoder(w).Encode([]models.Cart{
			{UserID: "u1", Timestamp: 100, Items: []models.LineItem{{Product: models.Product{ID: "old"}, Quantity: 1}}},
			{UserID: "u1", Timestamp: 300, Items: []models.LineItem{{Product: models.Product{ID: "new"}, Quantity: 2}}},
			{UserID: "u1", Timestamp: 200},
		})
	}))
	defer srv.Close()

	g := gateway.NewJSONServerGateway(srv.URL, time.Second)
	cart, err := g.GetUserCart(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "new", cart.Items[0].ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestJSONServer_GetUserCart_NoneIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	cart, err := gateway.NewJSONServerGateway(srv.URL, time.Second).GetUserCart(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Nil(t, cart)
}

func TestJSONServer_UpdateUserCart_AppendsTimestampedRecord(t *testing.T) {
	var got models.Cart
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c1"}`))
	}))
	defer srv.Close()

	items := []models.LineItem{{Product: models.Product{ID: "1", Price: 10}, Quantity: 3}}
	err := gateway.NewJSONServerGateway(srv.URL, time.Second).UpdateUserCart(context.Background(), "u1", items)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, items, got.Items)
	assert.NotZero(t, got.Timestamp)
}

func TestJSONServer_GetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "1" {
			_, _ = w.Write([]byte(`[{"id":"1","title":"Backpack","price":109.95,"category":"men's clothing"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	g := gateway.NewJSONServerGateway(srv.URL, time.Second)

	p, err := g.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Backpack", p.Title)

	p, err = g.GetProduct(context.Background(), "404")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestJSONServer_GetCategories_DistinctInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":"1","category":"electronics"},
			{"id":"2","category":"jewelery"},
			{"id":"3","category":"electronics"}
		]`))
	}))
	defer srv.Close()

	cats, err := gateway.NewJSONServerGateway(srv.URL, time.Second).GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery"}, cats)
}

func TestJSONServer_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := gateway.NewJSONServerGateway(srv.URL, time.Second).GetAllProducts(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestJSONServer_UpdateUserPartial_SendsOnlySetFields(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"7","username":"demo","firstName":"Ada"}`))
	}))
	defer srv.Close()

	name := "Ada"
	u, err := gateway.NewJSONServerGateway(srv.URL, time.Second).
		UpdateUserPartial(context.Background(), "7", models.ProfilePatch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Ada", body["firstName"])
	assert.Contains(t, body, "updatedAt")
	assert.NotContains(t, body, "email")
}
