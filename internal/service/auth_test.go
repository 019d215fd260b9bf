package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, "test-secret", time.Hour)
	user := testhelpers.CreateUser(t, db, "ivan")
	ctx := context.Background()

	token, err := authSvc.Login(ctx, &types.LoginRequest{Email: user.Email, Password: testhelpers.TestPassword})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := authSvc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ivan", claims.Username)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginBadCredentials(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, "test-secret", time.Hour)
	user := testhelpers.CreateUser(t, db, "ivan")
	ctx := context.Background()

	_, err := authSvc.Login(ctx, &types.LoginRequest{Email: user.Email, Password: "wrong"})
	requireKind(t, err, service.KindValidation)

	_, err = authSvc.Login(ctx, &types.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	requireKind(t, err, service.KindValidation)
}

func TestValidateTokenRejects(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, "test-secret", time.Hour)
	user := testhelpers.CreateUser(t, db, "ivan")

	t.Run("other secret", func(t *testing.T) {
		other := service.NewAuthService(db, "other-secret", time.Hour)
		token, err := other.GenerateToken(&types.TokenClaims{UserID: user.ID})
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := service.NewAuthService(db, "test-secret", -time.Minute)
		token, err := expired.GenerateToken(&types.TokenClaims{UserID: user.ID})
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: user.ID}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := authSvc.ValidateToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestValidateTokenReloadsUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, "test-secret", time.Hour)
	ctx := context.Background()

	t.Run("deleted user", func(t *testing.T) {
		ghost := testhelpers.CreateUser(t, db, "ghost")
		token, err := authSvc.GenerateToken(&types.TokenClaims{UserID: ghost.ID, Username: ghost.Username})
		require.NoError(t, err)
		require.NoError(t, db.Delete(&models.User{}, "id = ?", ghost.ID).Error)

		_, err = authSvc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("stale claims", func(t *testing.T) {
		admin := testhelpers.CreateUser(t, db, "admin")
		token, err := authSvc.GenerateToken(&types.TokenClaims{UserID: admin.ID, Username: "admin", IsStaff: true})
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).
			Updates(map[string]interface{}{"username": "renamed", "is_staff": false}).Error)

		claims, err := authSvc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "renamed", claims.Username)
		assert.False(t, claims.IsStaff)
	})
}
