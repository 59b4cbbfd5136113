package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/junaidrashid-git/storefront-api/models"
)

// Authenticator checks an email/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/v1/auth/login
func Login(users Authenticator, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user, err := users.Authenticate(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			if apperr.Is(err, apperr.KindUnauthorized) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		token, expires, err := tokens.Issue(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id":    user.ID,
			"role":       user.Role,
			"token":      token,
			"expires_at": expires,
		})
	}
}
