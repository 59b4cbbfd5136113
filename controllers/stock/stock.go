package stockControllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/junaidrashid-git/storefront-api/services/inventory"
)

type RegisterInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"min=0"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// POST /api/v1/stock
func RegisterStock(ledger *inventory.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}

		stock, err := ledger.Register(c.Request.Context(), input.ProductID, input.Quantity)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		view, err := ledger.View(c.Request.Context(), stock.ID)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

// GET /api/v1/stock
func GetStock(ledger *inventory.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := ledger.List(c.Request.Context(), pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /api/v1/stock/low-stock
func GetLowStock(ledger *inventory.Ledger, threshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := ledger.LowStock(c.Request.Context(), threshold, pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /api/v1/stock/:id
func GetStockByID(ledger *inventory.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		view, err := ledger.View(c.Request.Context(), id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// PATCH /api/v1/stock/:id/add
func AddStock(ledger *inventory.Ledger) gin.HandlerFunc {
	return adjust(ledger, ledger.Increase)
}

// PATCH /api/v1/stock/:id/decrease
func DecreaseStock(ledger *inventory.Ledger) gin.HandlerFunc {
	return adjust(ledger, ledger.Decrease)
}

func adjust(ledger *inventory.Ledger, apply func(ctx context.Context, stockID uint, quantity int) (models.Stock, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}

		if _, err := apply(c.Request.Context(), id, input.Quantity); err != nil {
			controllers.Error(c, err)
			return
		}
		view, err := ledger.View(c.Request.Context(), id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
