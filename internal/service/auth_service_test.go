package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/portal/internal/config"
	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/repository"
	"github.com/studiokit/portal/pkg/util"
)

func newAuthService() *AuthService {
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
	}, repository.NewMemoryUserRepository())
}

func TestRegisterCreatesCustomer(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, token, exp, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleCustomer, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "", "dana@example.com", "hunter2hunter2")
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))

	_, _, _, err = svc.Register(ctx, "Dana", "dana@example.com", "short")
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Other", "Dana@Example.com", "hunter2hunter2")
	assert.True(t, util.IsCode(err, "CONFLICT"))
}

func TestLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	user, token, _, err := svc.Login(ctx, "dana@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, _, err = svc.Login(ctx, "dana@example.com", "wrong-password")
	assert.True(t, util.IsCode(err, "UNAUTHORIZED"))

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.True(t, util.IsCode(err, "UNAUTHORIZED"))
}
