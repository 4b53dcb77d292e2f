package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/zzafergok/mobiversite-ecommerce/controllers"
	"github.com/zzafergok/mobiversite-ecommerce/middleware"
)

// Handlers bundles the controllers served by the storefront.
type Handlers struct {
	Products *controllers.ProductController
	Auth     *controllers.AuthController
	Cart     *controllers.CartController
	Wishlist *controllers.WishlistController
	Lists    *controllers.ListsController
	Orders   *controllers.OrderController
}

// RegisterRoutes mounts every client-facing route behind the session
// middleware.
func RegisterRoutes(r *gin.Engine, h Handlers, session gin.HandlerFunc) {
	api := r.Group("")
	api.Use(session)

	RegisterProductRoutes(api, h.Products, h.Lists)
	RegisterAuthRoutes(api, h.Auth)
	RegisterCartRoutes(api, h.Cart)
	RegisterWishlistRoutes(api, h.Wishlist)
	RegisterListRoutes(api, h.Lists)
	RegisterOrderRoutes(api, h.Orders)
}

func RegisterProductRoutes(r *gin.RouterGroup, pc *controllers.ProductController, lc *controllers.ListsController) {
	r.GET("/products", pc.ListProducts)
	r.GET("/products/:id", pc.GetProduct)
	r.GET("/products/:id/lists", lc.ProductLists)
	r.GET("/categories", pc.GetCategories)
}

func RegisterAuthRoutes(r *gin.RouterGroup, ac *controllers.AuthController) {
	auth := r.Group("/auth")
	auth.POST("/login", ac.Login)
	auth.POST("/register", ac.Register)
	auth.POST("/logout", ac.Logout)
	auth.GET("/me", ac.Me)
	auth.PATCH("/profile", middleware.RequireAuth(), ac.UpdateProfile)
}

func RegisterCartRoutes(r *gin.RouterGroup, cc *controllers.CartController) {
	cart := r.Group("/cart")
	cart.GET("", cc.GetCart)
	cart.DELETE("", cc.ClearCart)
	cart.POST("/items", cc.AddItem)
	cart.PATCH("/items/:id", cc.UpdateItem)
	cart.DELETE("/items/:id", cc.RemoveItem)
}

func RegisterWishlistRoutes(r *gin.RouterGroup, wc *controllers.WishlistController) {
	wishlist := r.Group("/wishlist")
	wishlist.GET("", wc.GetWishlist)
	wishlist.DELETE("", wc.ClearWishlist)
	wishlist.POST("/items", wc.AddItem)
	wishlist.GET("/items/:id", wc.CheckItem)
	wishlist.DELETE("/items/:id", wc.RemoveItem)
}

func RegisterListRoutes(r *gin.RouterGroup, lc *controllers.ListsController) {
	lists := r.Group("/lists")
	lists.GET("", lc.GetLists)
	lists.POST("", lc.CreateList)
	lists.GET("/:id", lc.GetList)
	lists.PATCH("/:id", lc.UpdateList)
	lists.DELETE("/:id", lc.DeleteList)
	lists.POST("/:id/items", lc.AddItem)
	lists.GET("/:id/items/:productId", lc.CheckItem)
	lists.DELETE("/:id/items/:productId", lc.RemoveItem)
}

func RegisterOrderRoutes(r *gin.RouterGroup, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth())
	orders.GET("", oc.ListOrders)
	orders.POST("", oc.PlaceOrder)
	orders.GET("/:id", oc.GetOrder)
}
