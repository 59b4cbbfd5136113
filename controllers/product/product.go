package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/junaidrashid-git/storefront-api/services/catalog"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=400"`
	Price       decimal.Decimal `json:"price"`
}

type PriceInput struct {
	Price decimal.Decimal `json:"price"`
}

// POST /api/v1/products
func CreateProduct(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}

		product, err := products.CreateProduct(c.Request.Context(), catalog.NewProduct{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
		})
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// GET /api/v1/products
func GetProducts(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := products.ListProducts(c.Request.Context(), pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /api/v1/products/:id
func GetProductByID(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		product, err := products.FindProduct(c.Request.Context(), id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /api/v1/products/best-selling
func GetBestSelling(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := products.BestSelling(c.Request.Context(), pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// PATCH /api/v1/products/:id/deactivate
func DeactivateProduct(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		if err := products.Deactivate(c.Request.Context(), id); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
	}
}

// PATCH /api/v1/products/:id/price
func UpdatePrice(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		var input PriceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}
		if err := products.UpdatePrice(c.Request.Context(), id, input.Price); err != nil {
			controllers.Error(c, err)
			return
		}
		product, err := products.FindProduct(c.Request.Context(), id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /api/v1/products/:id
func DeleteProduct(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		if err := products.DeleteProduct(c.Request.Context(), id); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
