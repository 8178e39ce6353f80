package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gudang/internal/apperrors"
	"gudang/internal/models"
	"gudang/internal/repositories"
)

// Client-facing authentication messages.
const (
	MsgInvalidCredentials = "Email or password is incorrect"
	MsgAccountInactive    = "Account is deactivated. Please contact support."
	MsgNoToken            = "Access denied. No token provided."
	MsgInvalidToken       = "Invalid token."
	MsgTokenExpired       = "Token expired."
	MsgUserNotFound       = "Invalid token. User not found or inactive."
)

// AuthService handles registration, login, profile updates and token resolution.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register creates a user and returns it together with a fresh token.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	email := models.NormalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	// email conflicts are reported before username conflicts
	if taken, err := s.exists(ctx, s.userRepo.GetByEmail, email); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", apperrors.Conflict("User with this email already exists")
	}
	if taken, err := s.exists(ctx, s.userRepo.GetByUsername, username); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", apperrors.Conflict("User with this username already exists")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, "", apperrors.Conflict("User with this email or username already exists")
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Registered user %s (%s)", user.ID, user.Username)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords yield the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, "", apperrors.Authentication(MsgInvalidCredentials)
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, "", apperrors.Authentication(MsgAccountInactive)
	}

	if !s.hasher.Compare(user.Password, password) {
		return nil, "", apperrors.Authentication(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, apperrors.Authentication(MsgNoToken)
	}

	userID, err := s.tokens.Parse(tokenString)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperrors.Authentication(MsgTokenExpired)
		}
		log.Printf("JWT validation failed: %v", err)
		return nil, apperrors.Authentication(MsgInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.Authentication(MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to resolve token user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.Authentication(MsgUserNotFound)
	}
	return user, nil
}

// UpdateProfile changes the username and/or email of user.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, req models.UpdateProfileRequest) (*models.User, error) {
	fields := make(map[string]interface{})

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if email != user.Email {
			if taken, err := s.exists(ctx, s.userRepo.GetByEmail, email); err != nil {
				return nil, err
			} else if taken {
				return nil, apperrors.Conflict("Email is already in use")
			}
			fields["email"] = email
		}
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username {
			if taken, err := s.exists(ctx, s.userRepo.GetByUsername, username); err != nil {
				return nil, err
			} else if taken {
				return nil, apperrors.Conflict("Username is already taken")
			}
			fields["username"] = username
		}
	}

	if len(fields) == 0 {
		return user, nil
	}

	updated, err := s.userRepo.Update(ctx, user.ID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.Conflict("Email or username is already in use")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// ListUsers returns every account. Callers must be admins.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *AuthService) exists(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value string) (bool, error) {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrRecordNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check for existing user: %w", err)
	}
}
