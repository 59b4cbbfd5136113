package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.Tokens) *gin.Engine {
	r := gin.New()
	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "role": CurrentRole(c)})
	}
	r.GET("/open", OptionalToken(tokens), ok)
	authed := r.Group("", ValidateToken(tokens))
	authed.GET("/me", ok)
	authed.GET("/admin", RequireRole(models.RoleAdmin), ok)
	authed.GET("/users/:userId", SelfOrAdmin("userId"), ok)
	return r
}

func TestTokenGuards(t *testing.T) {
	tokens := auth.NewTokens("s3cret", time.Hour)
	r := newRouter(tokens)

	client, _, err := tokens.Issue(models.User{ID: 5, Role: models.RoleClient})
	require.NoError(t, err)
	admin, _, err := tokens.Issue(models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"client", "/me", "Bearer " + client, http.StatusOK},
		{"query token", "/me?token=" + client, "", http.StatusOK},
		{"client on admin route", "/admin", "Bearer " + client, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + admin, http.StatusOK},
		{"client on own user", "/users/5", "Bearer " + client, http.StatusOK},
		{"client on other user", "/users/6", "Bearer " + client, http.StatusForbidden},
		{"admin on other user", "/users/6", "Bearer " + admin, http.StatusOK},
		{"malformed user id", "/users/abc", "Bearer " + admin, http.StatusBadRequest},
		{"optional without token", "/open", "", http.StatusOK},
		{"optional with bad token", "/open", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
