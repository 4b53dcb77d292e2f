package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

type CartController struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

func NewCartController(gw gateway.Gateway, logger *zap.Logger) *CartController {
	return &CartController{gw: gw, logger: logger}
}

func cartBody(state services.CartState) gin.H {
	items := state.Items
	if items == nil {
		items = []models.LineItem{}
	}
	return gin.H{
		"items": items,
		"total": state.Total(),
		"count": state.Count(),
	}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, cartBody(client.Cart.Snapshot()))
}

// AddItem handles POST /cart/items.
func (cc *CartController) AddItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, ok := loadProduct(ctx, cc.gw, cc.logger, req.ProductID)
	if !ok {
		return
	}
	client.Cart.AddToCart(ctx.Request.Context(), *product, req.Quantity)
	ctx.JSON(http.StatusOK, cartBody(client.Cart.Snapshot()))
}

// UpdateItem handles PATCH /cart/items/:id.
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	client.Cart.UpdateQuantity(ctx.Request.Context(), ctx.Param("id"), *req.Quantity)
	ctx.JSON(http.StatusOK, cartBody(client.Cart.Snapshot()))
}

// RemoveItem handles DELETE /cart/items/:id. Unknown ids are a no-op.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	client.Cart.RemoveFromCart(ctx.Request.Context(), ctx.Param("id"))
	ctx.JSON(http.StatusOK, cartBody(client.Cart.Snapshot()))
}

// ClearCart handles DELETE /cart.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	client.Cart.ClearCart(ctx.Request.Context())
	ctx.JSON(http.StatusOK, cartBody(client.Cart.Snapshot()))
}
