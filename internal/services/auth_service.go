package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/UniFest-2025/event-service/internal/auth"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// AuthService owns login, token verification and password changes across
// the four role partitions.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	// Authenticate maps verified claims back onto a live subject. It fails
	// when the subject was deleted or deactivated after issuance, or when
	// the password changed after the token's iat.
	Authenticate(ctx context.Context, claims *auth.Claims) (*models.User, error)

	// Authorize rejects principals whose role is outside the allowed set.
	Authorize(principal *models.User, roles ...models.UserRole) error

	ChangePassword(ctx context.Context, userID uint, role models.UserRole, req *ChangePasswordRequest) (*LoginResponse, error)
}

type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type authService struct {
	repo      repositories.Repository
	tokens    *auth.Manager
	logger    utils.Logger
	validator *utils.Validator
}

func NewAuthService(repo repositories.Repository, tokens *auth.Manager, logger utils.Logger, validator *utils.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		validator: validator,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.User().GetByEmailAndRole(ctx, email, req.Role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same answer for unknown email and wrong password.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("Failed login attempt", "email", email, "role", req.Role)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) Authenticate(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.repo.User().GetByIDAndRole(ctx, claims.UserID, claims.Role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("subject lookup failed: %w", err)
	}

	if !user.IsActive {
		return nil, ErrSubjectNotFound
	}

	if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time) {
		return nil, ErrStalePassword
	}

	return user, nil
}

func (s *authService) Authorize(principal *models.User, roles ...models.UserRole) error {
	for _, role := range roles {
		if principal.Role == role {
			return nil
		}
	}
	return NewPermissionError(principal.ID, 0, "route", "access", "role not permitted")
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, role models.UserRole, req *ChangePasswordRequest) (*LoginResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByIDAndRole(ctx, userID, role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("subject lookup failed: %w", err)
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return nil, ErrWrongPassword
	}

	hash, err := models.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	changedAt := time.Now()
	if err := s.repo.User().UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt

	// Re-issue so the caller's session survives its own password change;
	// every other outstanding token is now stale.
	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("Password changed", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{Token: token, User: user}, nil
}
