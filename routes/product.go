package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

// SetupProductRoutes registers all "/products/*" endpoints.
func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	products := api.Group("/products")
	products.Use(middleware.ValidateToken(d.Tokens))
	{
		products.GET("", productcontroller.GetProducts(d.Catalog))
		products.GET("/best-selling", productcontroller.GetBestSelling(d.Catalog))
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog))

		admin := products.Group("", middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", productcontroller.CreateProduct(d.Catalog))
			admin.PATCH("/:id/deactivate", productcontroller.DeactivateProduct(d.Catalog))
			admin.PATCH("/:id/price", productcontroller.UpdatePrice(d.Catalog))
			admin.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
		}
	}
}
