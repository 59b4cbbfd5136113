package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)

	raw, expires, err := tokens.Issue(models.User{ID: 7, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseRejects(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)
	raw, _, err := tokens.Issue(models.User{ID: 7, Role: models.RoleClient})
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewTokens("different", time.Hour).Parse(raw)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokens("s3cret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(raw)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: models.RoleAdmin})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Parse(s)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("missing user", func(t *testing.T) {
		s, _, err := tokens.Issue(models.User{ID: 0, Role: models.RoleClient})
		require.NoError(t, err)
		_, err = tokens.Parse(s)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})
}
