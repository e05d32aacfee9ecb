package services

import (
	"context"
	"testing"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/server/auth"
	"github.com/agrosuite/agrosync/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserService(t *testing.T) (*fakeManager, *UserService) {
	t.Helper()
	m := newFakeManager()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return m, NewUserService(testDB(t), m, cfg)
}

func TestRegister_Success(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "joao@fazenda.br", "secret1", "João")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "joao@fazenda.br", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "joao@fazenda.br", "secret1", "João")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "joao@fazenda.br", "other77", "Other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_BadEmail(t *testing.T) {
	_, svc := setupUserService(t)

	_, err := svc.Register(context.Background(), "not-an-email", "secret1", "X")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_ShortPassword(t *testing.T) {
	_, svc := setupUserService(t)

	_, err := svc.Register(context.Background(), "joao@fazenda.br", "123", "João")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_Success(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "joao@fazenda.br", "secret1", "João")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "joao@fazenda.br", "secret1")
	require.NoError(t, err)

	userID, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "joao@fazenda.br", "secret1", "João")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "joao@fazenda.br", "wrong77")
	assert.ErrorIs(t, err, common.ErrorInvalidLoginPassword)
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, svc := setupUserService(t)

	_, err := svc.Login(context.Background(), "nobody@fazenda.br", "secret1")
	assert.ErrorIs(t, err, common.ErrorInvalidLoginPassword)
}
