package kvstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
)

type entry struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func exerciseStore(t *testing.T, store kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	var got []entry
	found, err := store.Get(ctx, kvstore.KeyGuestCart, &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := []entry{{ID: "1", Qty: 2}, {ID: "2", Qty: 1}}
	require.NoError(t, store.Set(ctx, kvstore.KeyGuestCart, want))

	found, err = store.Get(ctx, kvstore.KeyGuestCart, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, store.Remove(ctx, kvstore.KeyGuestCart))
	found, err = store.Get(ctx, kvstore.KeyGuestCart, &got)
	require.NoError(t, err)
	assert.False(t, found)

	// removing an absent key is not an error
	assert.NoError(t, store.Remove(ctx, kvstore.KeyGuestCart))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	exerciseStore(t, kvstore.NewMemoryBackend().Scope("client-a"))
}

func TestMemoryStore_ClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()
	a := backend.Scope("a")
	b := backend.Scope("b")

	require.NoError(t, a.Set(ctx, kvstore.KeyWishlist, []entry{{ID: "1"}}))

	var got []entry
	found, err := b.Get(ctx, kvstore.KeyWishlist, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_CorruptValue(t *testing.T) {
	backend := kvstore.NewMemoryBackend()
	backend.PutRaw("a", kvstore.KeyLists, []byte("{not json"))

	var got []entry
	found, err := backend.Scope("a").Get(context.Background(), kvstore.KeyLists, &got)
	assert.True(t, found)
	assert.ErrorIs(t, err, kvstore.ErrCorrupt)
}

// Runs only when RUN_REDIS_INTEGRATION=true and REDIS_URL points at a server.
func TestRedisStore_RoundTrip(t *testing.T) {
	if os.Getenv("RUN_REDIS_INTEGRATION") != "true" {
		t.Skip("skipping redis integration test; set RUN_REDIS_INTEGRATION=true to run")
	}
	opts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	backend := kvstore.NewRedisBackend(client, time.Minute)
	exerciseStore(t, backend.Scope(uuid.NewString()))
}
