package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzafergok/mobiversite-ecommerce/events"
	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

type published struct {
	eventType string
	key       string
	payload   []byte
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{eventType: eventType, key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (f *fixture) signedInClient(t *testing.T) *services.Client {
	t.Helper()
	registry := services.NewRegistry(services.RegistryConfig{
		Backend: f.backend,
		Gateway: f.gw,
		Auth:    f.auth,
		Logger:  f.logger,
	})
	demo, err := f.gw.GetUserByID(f.ctx, "1")
	require.NoError(t, err)
	token, err := f.tokens.Generate(demo)
	require.NoError(t, err)

	client := registry.Get(f.ctx, "client-1", token)
	require.True(t, client.Session.IsAuthenticated())
	client.Cart.Wait()
	return client
}

func TestOrderService_PlaceOrder(t *testing.T) {
	f := newFixture()
	pub := &recordingPublisher{}
	orders := services.NewOrderService(f.gw, pub, f.logger)
	client := f.signedInClient(t)

	client.Cart.AddToCart(f.ctx, backpack, 2)
	client.Cart.AddToCart(f.ctx, tshirt, 1)
	client.Cart.Wait()

	order, serr := orders.PlaceOrder(f.ctx, client, models.PlaceOrderRequest{ShippingAddress: "1 Main St"})
	require.Nil(t, serr)
	client.Cart.Wait()

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "1", order.UserID)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.InDelta(t, 25.0, order.Total, 0.001)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "1 Main St", order.ShippingAddress)

	assert.Empty(t, client.Cart.Items())
	remote, err := f.gw.GetUserCart(f.ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, remote)
	assert.Empty(t, remote.Items)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, events.OrderCreated, pub.sent[0].eventType)
	assert.Equal(t, "1", pub.sent[0].key)
	var evt models.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(pub.sent[0].payload, &evt))
	assert.Equal(t, order.ID, evt.OrderID)
	assert.Equal(t, 2, evt.Items)

	list, serr := orders.ListOrders(f.ctx, "1")
	require.Nil(t, serr)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)
}

func TestOrderService_KeepsItemsAddedDuringCheckout(t *testing.T) {
	f := newFixture()
	orders := services.NewOrderService(f.gw, &recordingPublisher{}, f.logger)
	client := f.signedInClient(t)
	client.Cart.AddToCart(f.ctx, backpack, 1)
	client.Cart.Wait()

	f.gw.onCreate = func() { client.Cart.AddToCart(f.ctx, tshirt, 1) }
	order, serr := orders.PlaceOrder(f.ctx, client, models.PlaceOrderRequest{})
	require.Nil(t, serr)
	client.Cart.Wait()

	assert.Equal(t, []models.LineItem{line(backpack, 1)}, order.Items)
	assert.Equal(t, []models.LineItem{line(backpack, 1), line(tshirt, 1)}, client.Cart.Items())
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture()
	pub := &recordingPublisher{err: errors.New("broker down")}
	orders := services.NewOrderService(f.gw, pub, f.logger)
	client := f.signedInClient(t)

	client.Cart.AddToCart(f.ctx, ring, 1)
	client.Cart.Wait()

	order, serr := orders.PlaceOrder(f.ctx, client, models.PlaceOrderRequest{})
	require.Nil(t, serr)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, pub.sent, 1)
}

func TestOrderService_Rejections(t *testing.T) {
	f := newFixture()
	orders := services.NewOrderService(f.gw, events.NewLogPublisher(f.logger), f.logger)

	guest := services.NewRegistry(services.RegistryConfig{
		Backend: f.backend, Gateway: f.gw, Auth: f.auth, Logger: f.logger,
	}).Get(f.ctx, "guest", "")
	guest.Cart.AddToCart(f.ctx, backpack, 1)

	_, serr := orders.PlaceOrder(f.ctx, guest, models.PlaceOrderRequest{})
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)

	client := f.signedInClient(t)
	_, serr = orders.PlaceOrder(f.ctx, client, models.PlaceOrderRequest{})
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusBadRequest, serr.StatusCode)
}

func TestOrderService_GetOrderHidesForeignOrders(t *testing.T) {
	f := newFixture()
	orders := services.NewOrderService(f.gw, &recordingPublisher{}, f.logger)

	stored, err := f.gw.CreateOrder(f.ctx, &models.Order{UserID: "someone-else", Items: []models.LineItem{line(ring, 1)}})
	require.NoError(t, err)

	_, serr := orders.GetOrder(f.ctx, "1", stored.ID)
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)

	_, serr = orders.GetOrder(f.ctx, "1", "missing")
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)

	got, serr := orders.GetOrder(f.ctx, "someone-else", stored.ID)
	require.Nil(t, serr)
	assert.Equal(t, stored.ID, got.ID)

	list, serr := orders.ListOrders(f.ctx, "nobody")
	require.Nil(t, serr)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
