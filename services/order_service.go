package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/events"
	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// OrderService turns a signed-in client's cart into an order.
type OrderService interface {
	PlaceOrder(ctx context.Context, client *Client, req models.PlaceOrderRequest) (*models.Order, *ServiceError)
	ListOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	gw        gateway.Gateway
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

var (
	errEmptyCart     = &ServiceError{StatusCode: http.StatusBadRequest, Message: "Cart is empty"}
	errOrderNotFound = &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
)

func NewOrderService(gw gateway.Gateway, publisher events.Publisher, logger *zap.Logger) OrderService {
	return &orderServiceImpl{gw: gw, publisher: publisher, logger: logger, now: time.Now}
}

// PlaceOrder stores an order built from the cart, clears the cart and then
// announces the order. The cart is only cleared if nothing was added while
// the order was being stored. A failed announcement does not fail the order.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, client *Client, req models.PlaceOrderRequest) (*models.Order, *ServiceError) {
	user := client.Session.User()
	if user == nil {
		return nil, errUnauthorized
	}

	cart := client.Cart.Snapshot()
	if len(cart.Items) == 0 {
		return nil, errEmptyCart
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Date:            now,
		Items:           cart.Items,
		Total:           cart.Total(),
		Status:          models.OrderStatusCompleted,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       now,
	}
	if order.ShippingAddress == "" {
		order.ShippingAddress = user.Address
	}

	created, err := s.gw.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Failed to create order", zap.Error(err), zap.String("user_id", user.ID))
		return nil, internalError("Failed to create order")
	}

	if !client.Cart.ClearIfUnchanged(ctx, cart.Items) {
		s.logger.Warn("Cart changed during checkout, leaving it in place",
			zap.String("order_id", created.ID),
			zap.String("user_id", user.ID),
		)
	}
	s.publishCreated(ctx, created)

	s.logger.Info("Order placed",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.Float64("total", created.Total),
	)
	return created, nil
}

func (s *orderServiceImpl) publishCreated(ctx context.Context, order *models.Order) {
	payload, err := json.Marshal(models.OrderCreatedEvent{
		Event:     events.OrderCreated,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Items:     len(order.Items),
		Total:     order.Total,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, events.OrderCreated, order.UserID, payload); err != nil {
		s.logger.Warn("Failed to publish order event", zap.Error(err), zap.String("order_id", order.ID))
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError) {
	orders, err := s.gw.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err), zap.String("user_id", userID))
		return nil, internalError("Failed to fetch orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrder returns the order only when it belongs to userID.
func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, *ServiceError) {
	order, err := s.gw.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to fetch order", zap.Error(err), zap.String("order_id", orderID))
		return nil, internalError("Failed to fetch order")
	}
	if order == nil || order.UserID != userID {
		return nil, errOrderNotFound
	}
	return order, nil
}
