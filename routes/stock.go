package routes

import (
	"github.com/gin-gonic/gin"
	stockControllers "github.com/junaidrashid-git/storefront-api/controllers/stock"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

// SetupStockRoutes registers all "/stock/*" endpoints. Admin only.
func SetupStockRoutes(api *gin.RouterGroup, d Deps) {
	stock := api.Group("/stock")
	stock.Use(middleware.ValidateToken(d.Tokens), middleware.RequireRole(models.RoleAdmin))
	{
		stock.POST("", stockControllers.RegisterStock(d.Ledger))
		stock.GET("", stockControllers.GetStock(d.Ledger))
		stock.GET("/low-stock", stockControllers.GetLowStock(d.Ledger, d.LowStockThreshold))
		stock.GET("/export-excel", stockControllers.ExportStockToExcel(d.Ledger))
		stock.POST("/import-excel", stockControllers.ImportStockFromExcel(d.Ledger))
		stock.GET("/:id", stockControllers.GetStockByID(d.Ledger))
		stock.PATCH("/:id/add", stockControllers.AddStock(d.Ledger))
		stock.PATCH("/:id/decrease", stockControllers.DecreaseStock(d.Ledger))
	}
}
