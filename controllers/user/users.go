package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/junaidrashid-git/storefront-api/services/catalog"
)

type RegisterInput struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role"`
}

type PasswordInput struct {
	CurrentPassword   string `json:"current_password" binding:"required"`
	NewPassword       string `json:"new_password" binding:"required,min=6"`
	ConfirmedPassword string `json:"confirmed_password" binding:"required"`
}

// POST /api/v1/users
//
// Anyone may sign up as a client; only an admin token may create admins.
func RegisterUser(users *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}
		if input.Role == models.RoleAdmin && middleware.CurrentRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create admins"})
			return
		}

		user, err := users.RegisterUser(c.Request.Context(), catalog.NewUser{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Role:     input.Role,
		})
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// GET /api/v1/users/me
func GetMe(users *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindUser(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /api/v1/users
func GetUsers(users *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := users.ListUsers(c.Request.Context(), pagination.FromQuery(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /api/v1/users/:id
func GetUserByID(users *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		user, err := users.FindUser(c.Request.Context(), id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PATCH /api/v1/users/:id
//
// Users change only their own password, admins included.
func UpdatePassword(users *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := controllers.ParamID(c, "id")
		if !ok {
			return
		}
		if middleware.CurrentUserID(c) != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access to this resource is not allowed"})
			return
		}

		var input PasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Invalid(c, err)
			return
		}

		err := users.UpdatePassword(c.Request.Context(), id, input.CurrentPassword, input.NewPassword, input.ConfirmedPassword)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
