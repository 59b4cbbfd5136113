package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/junaidrashid-git/storefront-api/services/cart"
)

type CartItemInput struct {
	UserID    uint `json:"user_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// POST /api/v1/cart
func AddToCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}
		if !middleware.CanActFor(c, input.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access to this resource is not allowed"})
			return
		}

		if err := carts.Add(c.Request.Context(), input.UserID, input.ProductID, input.Quantity); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart"})
	}
}

// GET /api/v1/cart/:userId
func GetUserCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.ParamID(c, "userId")
		if !ok {
			return
		}

		page, err := carts.Get(c.Request.Context(), userID, pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
