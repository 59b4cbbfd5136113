package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

// SetupUserRoutes registers all "/users/*" endpoints.
func SetupUserRoutes(api *gin.RouterGroup, d Deps) {
	users := api.Group("/users")
	{
		// sign-up is anonymous; an admin token may create admins
		users.POST("", middleware.OptionalToken(d.Tokens), userControllers.RegisterUser(d.Catalog))
		users.GET("/me", middleware.ValidateToken(d.Tokens), userControllers.GetMe(d.Catalog))

		authed := users.Group("", middleware.ValidateToken(d.Tokens))
		{
			authed.GET("", middleware.RequireRole(models.RoleAdmin), userControllers.GetUsers(d.Catalog))
			authed.GET("/:id", middleware.SelfOrAdmin("id"), userControllers.GetUserByID(d.Catalog))
			authed.PATCH("/:id", userControllers.UpdatePassword(d.Catalog))
		}
	}
}
