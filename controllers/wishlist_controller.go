package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// WishlistController serves the client's wishlist. It works the same for
// guests and signed-in users.
type WishlistController struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

func NewWishlistController(gw gateway.Gateway, logger *zap.Logger) *WishlistController {
	return &WishlistController{gw: gw, logger: logger}
}

func wishlistBody(items []models.Product) gin.H {
	if items == nil {
		items = []models.Product{}
	}
	return gin.H{"items": items, "count": len(items)}
}

func (wc *WishlistController) GetWishlist(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, wishlistBody(client.Wishlist.Items()))
}

func (wc *WishlistController) AddItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.ProductRef
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	product, ok := loadProduct(ctx, wc.gw, wc.logger, req.ProductID)
	if !ok {
		return
	}
	client.Wishlist.AddToWishlist(ctx.Request.Context(), *product)
	ctx.JSON(http.StatusOK, wishlistBody(client.Wishlist.Items()))
}

func (wc *WishlistController) CheckItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"inWishlist": client.Wishlist.IsInWishlist(ctx.Param("id"))})
}

func (wc *WishlistController) RemoveItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	client.Wishlist.RemoveFromWishlist(ctx.Request.Context(), ctx.Param("id"))
	ctx.JSON(http.StatusOK, wishlistBody(client.Wishlist.Items()))
}

func (wc *WishlistController) ClearWishlist(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	client.Wishlist.ClearWishlist(ctx.Request.Context())
	ctx.JSON(http.StatusOK, wishlistBody(client.Wishlist.Items()))
}
