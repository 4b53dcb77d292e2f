package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

// OrderController exposes checkout and order history. Its routes sit behind
// RequireAuth.
type OrderController struct {
	orders services.OrderService
}

func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// PlaceOrder handles POST /orders.
func (oc *OrderController) PlaceOrder(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.PlaceOrderRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
	}

	order, svcErr := oc.orders.PlaceOrder(ctx.Request.Context(), client, req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders handles GET /orders.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	orders, svcErr := oc.orders.ListOrders(ctx.Request.Context(), client.Session.UserID())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	order, svcErr := oc.orders.GetOrder(ctx.Request.Context(), client.Session.UserID(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}
