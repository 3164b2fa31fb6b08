package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

func TestAuthService_LoginAuthenticateLogout(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	p := env.member(t, "alice")

	tok, err := env.auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.AuthToken)

	user, session, err := env.auth.Authenticate(ctx, tok.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, user.ID)
	assert.Equal(t, p.UserID, session.UserID)

	require.NoError(t, env.auth.Logout(ctx, p, session.ID))

	_, _, err = env.auth.Authenticate(ctx, tok.AuthToken)
	assertCode(t, err, domainerrors.CodeUnauthorized)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.member(t, "alice")

	_, err := env.auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong password"})
	wrongPassword := assertCode(t, err, domainerrors.CodeInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever123"})
	unknownEmail := assertCode(t, err, domainerrors.CodeInvalidCredentials)

	assert.Equal(t, wrongPassword.Message, unknownEmail.Message)
}

func TestAuthService_AuthenticateGarbage(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.auth.Authenticate(context.Background(), "v4.local.garbage")
	assertCode(t, err, domainerrors.CodeUnauthorized)
}

func TestAuthService_LogoutAnonymous(t *testing.T) {
	env := setupTestEnv(t)

	err := env.auth.Logout(context.Background(), testAnonymous, "")
	assertCode(t, err, domainerrors.CodeUnauthorized)
}

func TestAuthService_PruneSessions(t *testing.T) {
	env := setupTestEnv(t)

	n, err := env.auth.PruneSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
