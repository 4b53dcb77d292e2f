package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// ProductController serves the catalog straight from the gateway.
type ProductController struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

func NewProductController(gw gateway.Gateway, logger *zap.Logger) *ProductController {
	return &ProductController{gw: gw, logger: logger}
}

// ListProducts handles GET /products?category=.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	var (
		products []models.Product
		err      error
	)
	if category := ctx.Query("category"); category != "" {
		products, err = pc.gw.GetProductsByCategory(ctx.Request.Context(), category)
	} else {
		products, err = pc.gw.GetAllProducts(ctx.Request.Context())
	}
	if err != nil {
		pc.logger.Error("Failed to fetch products", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	product, ok := loadProduct(ctx, pc.gw, pc.logger, ctx.Param("id"))
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// GetCategories handles GET /categories.
func (pc *ProductController) GetCategories(ctx *gin.Context) {
	categories, err := pc.gw.GetCategories(ctx.Request.Context())
	if err != nil {
		pc.logger.Error("Failed to fetch categories", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch categories"})
		return
	}
	if categories == nil {
		categories = []string{}
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

type productGetter interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// loadProduct fetches a product for a handler, writing the error response
// itself when the product cannot be served.
func loadProduct(ctx *gin.Context, gw productGetter, logger *zap.Logger, id string) (*models.Product, bool) {
	product, err := gw.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		logger.Error("Failed to fetch product", zap.Error(err), zap.String("product_id", id))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch product"})
		return nil, false
	}
	if product == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return nil, false
	}
	return product, true
}
