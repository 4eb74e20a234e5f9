package service

import (
	"context" // Request scoped calls
	"time"    // Token lifetime

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Request and response shapes
	"skate_marketplace/internal/utils"  // Password hashing and JWT

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// AuthService registers accounts and exchanges credentials for access tokens
type AuthService struct {
	users    UserRepository
	secret   string        // JWT signing secret
	tokenTTL time.Duration // Access token lifetime
}

// NewAuthService creates the credential service
func NewAuthService(users UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL}
}

// Register creates a USER account and signs it in
func (s *AuthService) Register(ctx context.Context, req dto.CreateUserRequest) (*dto.AuthResponse, error) {
	req.Role = nil // Self-registration never grants a role
	user, err := newUser(ctx, s.users, req)
	if err != nil {
		return nil, err
	}
	logrus.WithField("user_id", user.ID).Info("User registered")
	return s.issue(user)
}

// Login verifies the credentials. Unknown emails and wrong passwords are indistinguishable;
// deactivated accounts are refused after a successful password check.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			utils.VerifyPassword(req.Password, utils.DummyHash) // Same hashing work as a known email
			return nil, apperr.Unauthenticated("Invalid credentials")
		}
		return nil, err
	}
	if !utils.VerifyPassword(req.Password, user.Password) {
		logrus.WithField("user_id", user.ID).Warn("Failed login attempt")
		return nil, apperr.Unauthenticated("Invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}
	return s.issue(user)
}

// IssueToken signs an access token for user
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), s.secret, s.tokenTTL)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

func (s *AuthService) issue(user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{AccessToken: token, User: user}, nil
}

// newUser hashes the password and stores a new active account
func newUser(ctx context.Context, users UserRepository, req dto.CreateUserRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	role := domain.RoleUser
	if req.Role != nil {
		role = *req.Role
	}
	user := &domain.User{
		Email:     domain.NormalizeEmail(req.Email),
		Password:  hash,
		Role:      role,
		IsActive:  true,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := users.Create(ctx, user); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("Email %s is already registered", user.Email)
		}
		return nil, err
	}
	return user, nil
}
