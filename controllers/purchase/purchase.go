package purchaseControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/junaidrashid-git/storefront-api/services/purchase"
	"github.com/junaidrashid-git/storefront-api/services/report"
)

// POST /api/v1/purchases/perform/:userId
func PerformPurchase(recorder *purchase.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.ParamID(c, "userId")
		if !ok {
			return
		}

		p, err := recorder.Perform(c.Request.Context(), userID)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// GET /api/v1/purchases/total-amount?period=day|week|month
func GetTotalAmount(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		period := c.Query("period")
		total, err := reports.TotalAmount(c.Request.Context(), period)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"period": period, "total_amount": total.StringFixed(2)})
	}
}

// GET /api/v1/purchases/total-purchases?period=day|week|month
func GetTotalPurchases(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		period := c.Query("period")
		count, err := reports.TotalPurchases(c.Request.Context(), period)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"period": period, "total_purchases": count})
	}
}

// GET /api/v1/purchases/top-buyers?period=&page=&size=
func GetTopBuyers(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := reports.TopBuyers(c.Request.Context(), c.Query("period"), pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /api/v1/purchases/ws
func PurchaseWebSocketHandler(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	}
}
