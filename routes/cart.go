package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Clients reach only
// their own cart.
func SetupCartRoutes(api *gin.RouterGroup, d Deps) {
	carts := api.Group("/cart")
	carts.Use(middleware.ValidateToken(d.Tokens))
	{
		carts.POST("", cartControllers.AddToCart(d.Carts))
		carts.GET("/:userId", middleware.SelfOrAdmin("userId"), cartControllers.GetUserCart(d.Carts))
	}
}
