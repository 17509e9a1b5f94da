package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokeruros/fitapp/internal/service"
	"github.com/jokeruros/fitapp/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "tester@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "tester@example.com", claims.Email)

	_, loginToken, err := svc.Login(ctx, "tester@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "dup@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "dup@example.com", "password456")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "login@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "login@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenInvalid(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	claims, err := svc.ValidateToken("invalid.token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Nil(t, claims)

	// Token signed with a different secret is rejected.
	other := service.NewAuthService(db, "other-secret")
	userID := testhelpers.CreateTestUser(t, db)
	token, err := other.GenerateToken(userID, "x@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
