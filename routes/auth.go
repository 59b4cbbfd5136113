package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", auth.Login(d.Catalog, d.Tokens))
	}
}
