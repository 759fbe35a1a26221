package services

import (
	"context"
	"testing"
	"time"

	"food-ordering/internal/storefront/adapter/memory"
	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authSecret = "0123456789abcdef-auth-secret"

func newAuth(t *testing.T) (*AuthService, *memory.Repos) {
	t.Helper()
	repos := memory.New()
	user := models.User{Username: "root", Password: "s3cret", Role: models.RoleSuperAdmin}
	require.NoError(t, repos.Users.Create(context.Background(), &user))
	return NewAuthService(repos.Users, authSecret, time.Hour, logger.Discard()), repos
}

func TestLoginAndResolve(t *testing.T) {
	as, _ := newAuth(t)
	ctx := context.Background()

	token, user, err := as.Login(ctx, "root", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)

	resolved, err := as.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestLoginRejects(t *testing.T) {
	as, _ := newAuth(t)
	ctx := context.Background()

	tests := []struct {
		name, username, password string
	}{
		{name: "wrong password", username: "root", password: "nope"},
		{name: "unknown user", username: "ghost", password: "s3cret"},
		{name: "empty password", username: "root", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := as.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, core.ErrInvalidLogin)
		})
	}
}

func TestResolveRejects(t *testing.T) {
	as, repos := newAuth(t)
	ctx := context.Background()

	token, user, err := as.Login(ctx, "root", "s3cret")
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		_, err := as.Resolve(ctx, token+"x")
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewAuthService(repos.Users, "another-secret-of-16+", time.Hour, logger.Discard())
		_, err := other.Resolve(ctx, token)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", Issuer: tokenIssuer}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = as.Resolve(ctx, none)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewAuthService(repos.Users, authSecret, time.Hour, logger.Discard())
		later.clock = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Resolve(ctx, token)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost := user
		ghost.ID = 4242
		stale, err := as.IssueToken(ghost)
		require.NoError(t, err)
		_, err = as.Resolve(ctx, stale)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}
