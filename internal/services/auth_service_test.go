package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gudang/internal/apperrors"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var notFound = fmt.Errorf("lookup: %w", repositories.ErrRecordNotFound)

func newAuthService(repo *MockUserRepository) (*services.AuthService, *services.PasswordHasher, *services.TokenManager) {
	hasher := services.NewPasswordHasher(4)
	tokens := services.NewTokenManager(testJWTSecret, time.Hour)
	return services.NewAuthService(repo, hasher, tokens), hasher, tokens
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, message, appErr.Message)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	req := models.RegisterRequest{Username: "testuser", Email: "Test@Example.com", Password: "password123"}

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, hasher, tokens := newAuthService(repo)

		repo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound).Once()
		repo.On("GetByUsername", ctx, "testuser").Return(nil, notFound).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "test@example.com" && u.Role == models.RoleUser && u.IsActive && hasher.Compare(u.Password, "password123")
		})).Return(nil).Once()

		user, token, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)

		userID, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
		repo.AssertExpectations(t)
	})

	t.Run("email conflict is reported first", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		repo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()

		_, _, err := svc.Register(ctx, req)
		requireAppError(t, err, http.StatusConflict, "User with this email already exists")
		repo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("username conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		repo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound).Once()
		repo.On("GetByUsername", ctx, "testuser").Return(&models.User{ID: "1"}, nil).Once()

		_, _, err := svc.Register(ctx, req)
		requireAppError(t, err, http.StatusConflict, "User with this username already exists")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		repo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound).Once()
		repo.On("GetByUsername", ctx, "testuser").Return(nil, notFound).Once()
		repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("insert: %w", repositories.ErrDuplicateKey)).Once()

		_, _, err := svc.Register(ctx, req)
		assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
	})

	t.Run("store failure is not a conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		repo.On("GetByEmail", ctx, "test@example.com").Return(nil, errors.New("connection refused")).Once()

		_, _, err := svc.Register(ctx, req)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
	})

	t.Run("explicit admin role", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		admin := req
		admin.Role = models.RoleAdmin
		repo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound).Once()
		repo.On("GetByUsername", ctx, "testuser").Return(nil, notFound).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, _, err := svc.Register(ctx, admin)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, hasher, tokens := newAuthService(repo)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com", Password: hash, IsActive: true}

	t.Run("success", func(t *testing.T) {
		repo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()

		got, token, err := svc.Login(ctx, " TEST@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		userID, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		repo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
		_, _, wrongPassword := svc.Login(ctx, "test@example.com", "wrongpassword")

		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, notFound).Once()
		_, _, unknownEmail := svc.Login(ctx, "ghost@example.com", "password123")

		requireAppError(t, wrongPassword, http.StatusUnauthorized, services.MsgInvalidCredentials)
		requireAppError(t, unknownEmail, http.StatusUnauthorized, services.MsgInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := *user
		inactive.IsActive = false
		repo.On("GetByEmail", ctx, "test@example.com").Return(&inactive, nil).Once()

		_, _, err := svc.Login(ctx, "test@example.com", "password123")
		requireAppError(t, err, http.StatusUnauthorized, services.MsgAccountInactive)
	})

	repo.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _, tokens := newAuthService(repo)

	token, err := tokens.Issue("user-123")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "  ")
		requireAppError(t, err, http.StatusUnauthorized, services.MsgNoToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "invalid.token.string")
		requireAppError(t, err, http.StatusUnauthorized, services.MsgInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := services.NewTokenManager(testJWTSecret, -time.Minute)
		old, err := expired.Issue("user-123")
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, old)
		requireAppError(t, err, http.StatusUnauthorized, services.MsgTokenExpired)
	})

	t.Run("user gone", func(t *testing.T) {
		repo.On("GetByID", ctx, "user-123").Return(nil, notFound).Once()
		_, err := svc.Authenticate(ctx, token)
		requireAppError(t, err, http.StatusUnauthorized, services.MsgUserNotFound)
	})

	t.Run("user inactive", func(t *testing.T) {
		repo.On("GetByID", ctx, "user-123").Return(&models.User{ID: "user-123", IsActive: false}, nil).Once()
		_, err := svc.Authenticate(ctx, token)
		requireAppError(t, err, http.StatusUnauthorized, services.MsgUserNotFound)
	})

	t.Run("success", func(t *testing.T) {
		repo.On("GetByID", ctx, "user-123").Return(&models.User{ID: "user-123", IsActive: true}, nil).Once()
		user, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
	})

	repo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	current := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", IsActive: true}
	str := func(s string) *string { return &s }

	t.Run("no changes skips the store", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		got, err := svc.UpdateProfile(ctx, current, models.UpdateProfileRequest{Email: str("ALICE@example.com"), Username: str("alice")})
		require.NoError(t, err)
		assert.Same(t, current, got)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		repo.On("GetByEmail", ctx, "bob@example.com").Return(&models.User{ID: "user-2"}, nil).Once()

		_, err := svc.UpdateProfile(ctx, current, models.UpdateProfileRequest{Email: str("bob@example.com")})
		requireAppError(t, err, http.StatusConflict, "Email is already in use")
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		repo.On("GetByUsername", ctx, "bob").Return(&models.User{ID: "user-2"}, nil).Once()

		_, err := svc.UpdateProfile(ctx, current, models.UpdateProfileRequest{Username: str("bob")})
		requireAppError(t, err, http.StatusConflict, "Username is already taken")
	})

	t.Run("partial update", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)

		updated := &models.User{ID: "user-1", Username: "alice", Email: "new@example.com"}
		repo.On("GetByEmail", ctx, "new@example.com").Return(nil, notFound).Once()
		repo.On("Update", ctx, "user-1", map[string]interface{}{"email": "new@example.com"}).Return(updated, nil).Once()

		got, err := svc.UpdateProfile(ctx, current, models.UpdateProfileRequest{Email: str("New@Example.com")})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", got.Email)
		repo.AssertExpectations(t)
	})
}
