package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

func newTestRegistry(f *fixture, clock *fakeClock) *services.Registry {
	return services.NewRegistry(services.RegistryConfig{
		Backend:     f.backend,
		Gateway:     f.gw,
		Auth:        f.auth,
		Logger:      f.logger,
		TTL:         30 * time.Minute,
		Environment: "static",
		Now:         clock.Now,
	})
}

func TestRegistry_GetReturnsSameBundle(t *testing.T) {
	f := newFixture()
	registry := newTestRegistry(f, newFakeClock())

	a := registry.Get(f.ctx, "client-1", "")
	b := registry.Get(f.ctx, "client-1", "")
	c := registry.Get(f.ctx, "client-2", "")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, models.SessionAnonymous, a.Session.State())
}

func TestRegistry_HydratesFromStore(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Set(f.ctx, kvstore.KeyGuestCart, []models.LineItem{line(backpack, 3)}))
	require.NoError(t, f.store.Set(f.ctx, kvstore.KeyWishlist, []models.Product{ring}))

	client := newTestRegistry(f, newFakeClock()).Get(f.ctx, "client-1", "")

	assert.Equal(t, 3, client.Cart.GetCartItemsCount())
	assert.True(t, client.Wishlist.IsInWishlist("6"))
	assert.Empty(t, client.Lists.Lists())

	var env string
	found, err := f.store.Get(f.ctx, kvstore.KeyEnvironment, &env)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "static", env)
}

func TestRegistry_EvictsIdleClientsAndRebuildsFromStore(t *testing.T) {
	f := newFixture()
	clock := newFakeClock()
	registry := newTestRegistry(f, clock)

	first := registry.Get(f.ctx, "client-1", "")
	first.Cart.AddToCart(f.ctx, tshirt, 2)
	first.Wishlist.AddToWishlist(f.ctx, ring)

	clock.Advance(20 * time.Minute)
	registry.Get(f.ctx, "client-2", "")
	assert.Equal(t, 0, registry.Evict())

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, registry.Evict())
	assert.Equal(t, 1, registry.Len())

	again := registry.Get(f.ctx, "client-1", "")
	assert.NotSame(t, first, again)
	assert.Equal(t, 2, again.Cart.GetCartItemsCount())
	assert.True(t, again.Wishlist.IsInWishlist("6"))
}

func TestRegistry_TokenSignsClientIn(t *testing.T) {
	f := newFixture()
	registry := newTestRegistry(f, newFakeClock())

	client := registry.Get(f.ctx, "client-1", "")
	client.Cart.AddToCart(f.ctx, backpack, 1)

	demo, err := f.gw.GetUserByID(f.ctx, "1")
	require.NoError(t, err)
	token, err := f.tokens.Generate(demo)
	require.NoError(t, err)

	client = registry.Get(f.ctx, "client-1", token)
	registry.Close()

	assert.True(t, client.Session.IsAuthenticated())
	assert.Equal(t, "1", client.Cart.Owner())
	remote, err := f.gw.GetUserCart(f.ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, remote)
	assert.Equal(t, []models.LineItem{line(backpack, 1)}, remote.Items)

	_, found := f.guestCart()
	assert.False(t, found)
}
