package gateway_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

func TestStatic_DemoUserLogin(t *testing.T) {
	g := gateway.NewSeededStaticGateway()
	ctx := context.Background()

	u, err := g.GetUserByCredentials(ctx, "demo", "demo123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "demo@example.com", u.Email)

	u, err = g.GetUserByCredentials(ctx, "demo", "wrong")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestStatic_CartRoundTripIsCopied(t *testing.T) {
	g := gateway.NewSeededStaticGateway()
	ctx := context.Background()

	items := []models.LineItem{{Product: models.Product{ID: "1"}, Quantity: 2}}
	require.NoError(t, g.UpdateUserCart(ctx, "u1", items))
	items[0].Quantity = 99

	cart, err := g.GetUserCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	require.NoError(t, g.ClearUserCart(ctx, "u1"))
	cart, err = g.GetUserCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	missing, err := g.GetUserCart(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStatic_CategoriesAndFilter(t *testing.T) {
	g := gateway.NewSeededStaticGateway()
	ctx := context.Background()

	cats, err := g.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"men's clothing", "jewelery", "electronics", "women's clothing"}, cats)

	electronics, err := g.GetProductsByCategory(ctx, "electronics")
	require.NoError(t, err)
	for _, p := range electronics {
		assert.Equal(t, "electronics", p.Category)
	}
	assert.NotEmpty(t, electronics)
}

func TestStatic_UsersAndOrders(t *testing.T) {
	g := gateway.NewSeededStaticGateway()
	ctx := context.Background()

	exists, _ := g.CheckUsernameExists(ctx, "demo")
	assert.True(t, exists)
	exists, _ = g.CheckEmailExists(ctx, "DEMO@example.com")
	assert.True(t, exists)

	created, err := g.CreateUser(ctx, &models.User{Username: "ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	phone := "555"
	updated, err := g.UpdateUserPartial(ctx, created.ID, models.ProfilePatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555", updated.Phone)
	assert.Equal(t, "ada", updated.Username)

	none, err := g.UpdateUserPartial(ctx, "missing", models.ProfilePatch{Phone: &phone})
	assert.NoError(t, err)
	assert.Nil(t, none)

	order, err := g.CreateOrder(ctx, &models.Order{UserID: created.ID, Total: 10, Status: models.OrderStatusCompleted})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)

	orders, err := g.GetOrdersByUserID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	got, err := g.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestParseBackend(t *testing.T) {
	b, err := gateway.ParseBackend("neon-db")
	assert.NoError(t, err)
	assert.Equal(t, gateway.BackendNeonDB, b)

	_, err = gateway.ParseBackend("mongo")
	assert.Error(t, err)
}
