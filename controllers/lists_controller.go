package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

type ListsController struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

func NewListsController(gw gateway.Gateway, logger *zap.Logger) *ListsController {
	return &ListsController{gw: gw, logger: logger}
}

func listsBody(lists []models.List) gin.H {
	if lists == nil {
		lists = []models.List{}
	}
	return gin.H{"lists": lists}
}

// writeListError maps lists engine errors to responses.
func writeListError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrListNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GetLists handles GET /lists.
func (lc *ListsController) GetLists(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, listsBody(client.Lists.Lists()))
}

// CreateList handles POST /lists.
func (lc *ListsController) CreateList(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.CreateListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	list := client.Lists.CreateList(ctx.Request.Context(), req)
	ctx.JSON(http.StatusCreated, gin.H{"list": list})
}

// GetList handles GET /lists/:id.
func (lc *ListsController) GetList(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	list, err := client.Lists.GetList(ctx.Param("id"))
	if err != nil {
		writeListError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"list": list})
}

// UpdateList handles PATCH /lists/:id.
func (lc *ListsController) UpdateList(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.UpdateListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	list, err := client.Lists.UpdateList(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		writeListError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"list": list})
}

// DeleteList handles DELETE /lists/:id.
func (lc *ListsController) DeleteList(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	if err := client.Lists.DeleteList(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeListError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "List deleted"})
}

// AddItem handles POST /lists/:id/items.
func (lc *ListsController) AddItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.ProductRef
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	listID := ctx.Param("id")
	if _, err := client.Lists.GetList(listID); err != nil {
		writeListError(ctx, err)
		return
	}
	product, ok := loadProduct(ctx, lc.gw, lc.logger, req.ProductID)
	if !ok {
		return
	}
	list, err := client.Lists.AddProductToList(ctx.Request.Context(), listID, *product)
	if err != nil {
		writeListError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"list": list})
}

// CheckItem handles GET /lists/:id/items/:productId.
func (lc *ListsController) CheckItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	in := client.Lists.IsProductInList(ctx.Param("id"), ctx.Param("productId"))
	ctx.JSON(http.StatusOK, gin.H{"inList": in})
}

// RemoveItem handles DELETE /lists/:id/items/:productId.
func (lc *ListsController) RemoveItem(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	list, err := client.Lists.RemoveProductFromList(ctx.Request.Context(), ctx.Param("id"), ctx.Param("productId"))
	if err != nil {
		writeListError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"list": list})
}

// ProductLists handles GET /products/:id/lists.
func (lc *ListsController) ProductLists(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, listsBody(client.Lists.GetProductLists(ctx.Param("id"))))
}
