package impl

import (
	"context"
	"testing"

	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixtures struct {
	service usecase.UserUsecase
	store   *memStore
	tokens  *fakeTokenService
}

func createTestUserService(t *testing.T, maxActiveSessions int) userServiceFixtures {
	t.Helper()

	store := newMemStore()
	tokens := newFakeTokenService()
	service := NewUserService(UserServiceParams{
		TxManager:    newFakeTxManager(store),
		UserRepo:     &fakeUserRepo{store},
		TokenService: tokens,
		Hasher:       fakeHasher{},
		Config:       newTestConfig(maxActiveSessions),
		Logger:       newDiscardLogger(),
	})

	return userServiceFixtures{service: service, store: store, tokens: tokens}
}

func registerTestUser(t *testing.T, fx userServiceFixtures, email, password string) {
	t.Helper()

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t, 0)

	output, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "test@example.com", output.User.Email)
	assert.Equal(t, []string{"user"}, output.User.Roles)
	assert.Zero(t, output.User.Points)
	require.Len(t, fx.store.auths, 1)
	assert.Equal(t, output.User.ID, fx.store.auths[0].UserID)
	assert.Equal(t, "hashed:Password123!", fx.store.auths[0].PasswordHash)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t, 0)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	output, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	require.Len(t, fx.store.tokens, 1)
	assert.Equal(t, output.User.ID, fx.store.tokens[0].UserID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t, 0)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	output, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "wrong",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Empty(t, fx.store.tokens)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fx := createTestUserService(t, 0)

	output, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_RefreshToken_RotatesSession(t *testing.T) {
	fx := createTestUserService(t, 0)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	login, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)

	refreshed, err := fx.service.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The presented token is revoked; replaying it must fail.
	_, err = fx.service.RefreshToken(context.Background(), login.RefreshToken)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	// Exactly one live session remains.
	assert.Len(t, fx.store.tokens, 1)
}

func TestUserService_RefreshToken_Garbage(t *testing.T) {
	fx := createTestUserService(t, 0)

	_, err := fx.service.RefreshToken(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Login_EvictsOldestSessionAtCap(t *testing.T) {
	fx := createTestUserService(t, 2)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	input := &usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}
	first, err := fx.service.Login(context.Background(), input)
	require.NoError(t, err)
	_, err = fx.service.Login(context.Background(), input)
	require.NoError(t, err)
	_, err = fx.service.Login(context.Background(), input)
	require.NoError(t, err)

	// Cap is two: the first session was evicted to make room for the third.
	assert.Len(t, fx.store.tokens, 2)
	_, err = fx.service.RefreshToken(context.Background(), first.RefreshToken)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Logout_IsIdempotent(t *testing.T) {
	fx := createTestUserService(t, 0)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	login, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(context.Background(), login.RefreshToken))
	assert.Empty(t, fx.store.tokens)

	// Logging out an already-revoked session is not an error.
	assert.NoError(t, fx.service.Logout(context.Background(), login.RefreshToken))
}

func TestUserService_ChangePassword_RevokesAllSessions(t *testing.T) {
	fx := createTestUserService(t, 0)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	login, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)
	_, err = fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)

	err = fx.service.ChangePassword(context.Background(), login.User.ID, &usecase.ChangePasswordInput{
		OldPassword: "Password123!",
		NewPassword: "NewPassword456!",
	})
	require.NoError(t, err)

	assert.Empty(t, fx.store.tokens)

	// Old password no longer works, new one does.
	_, err = fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "NewPassword456!",
	})
	assert.NoError(t, err)
}

func TestUserService_ChangePassword_WrongOldPassword(t *testing.T) {
	fx := createTestUserService(t, 0)
	registerTestUser(t, fx, "test@example.com", "Password123!")

	login, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)

	err = fx.service.ChangePassword(context.Background(), login.User.ID, &usecase.ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "NewPassword456!",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
