package routes

import (
	"github.com/gin-gonic/gin"
	purchaseControllers "github.com/junaidrashid-git/storefront-api/controllers/purchase"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

// SetupPurchaseRoutes registers checkout, sales reports and the live
// purchase feed.
func SetupPurchaseRoutes(api *gin.RouterGroup, d Deps) {
	purchases := api.Group("/purchases")
	purchases.Use(middleware.ValidateToken(d.Tokens))
	{
		purchases.POST("/perform/:userId", middleware.SelfOrAdmin("userId"), purchaseControllers.PerformPurchase(d.Recorder))

		reports := purchases.Group("", middleware.RequireRole(models.RoleAdmin))
		{
			reports.GET("/total-amount", purchaseControllers.GetTotalAmount(d.Reports))
			reports.GET("/total-purchases", purchaseControllers.GetTotalPurchases(d.Reports))
			reports.GET("/top-buyers", purchaseControllers.GetTopBuyers(d.Reports))

			// websocket feed of committed purchases
			reports.GET("/ws", purchaseControllers.PurchaseWebSocketHandler(d.Hub))
		}
	}
}
