package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// UserService is the thin CRUD surface over the credential store shared by
// the college, teacher and student resources. Password changes never pass
// through Update; they go through AuthService.ChangePassword so the
// stale-token bookkeeping happens in one place.
type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, id uint, role models.UserRole) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, id uint, role models.UserRole, req *UpdateUserRequest, actor *models.User) (*models.User, error)

	// Delete follows the role policy: colleges and students are
	// deactivated, teachers and superadmins are removed.
	Delete(ctx context.Context, id uint, role models.UserRole, actor *models.User) error
}

type CreateUserRequest struct {
	Role     models.UserRole `json:"role" validate:"required,user_role"`
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`

	// Student fields
	CollegeID  *uint   `json:"college_id,omitempty"`
	RollNumber *string `json:"roll_number,omitempty"`
	Department *string `json:"department,omitempty"`

	// College fields
	Address       *string `json:"address,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Website       *string `json:"website,omitempty"`

	// Teacher fields
	AssignedEventID *uint `json:"assigned_event_id,omitempty"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Department      *string `json:"department,omitempty"`
	Address         *string `json:"address,omitempty"`
	ContactNumber   *string `json:"contact_number,omitempty"`
	Website         *string `json:"website,omitempty"`
	AssignedEventID *uint   `json:"assigned_event_id,omitempty"`
	IsVerified      *bool   `json:"is_verified,omitempty"`
}

type userService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
}

func NewUserService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.repo.User().ExistsByEmailAndRole(ctx, email, req.Role)
	if err != nil {
		return nil, fmt.Errorf("email check failed: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if req.Role == models.RoleStudent {
		if req.CollegeID == nil {
			return nil, NewValidationError("college_id", "students must belong to a college", nil)
		}
		if _, err := s.repo.User().GetByIDAndRole(ctx, *req.CollegeID, models.RoleCollege); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCollegeUnknown
			}
			return nil, fmt.Errorf("college lookup failed: %w", err)
		}
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Role:            req.Role,
		Name:            req.Name,
		Email:           email,
		PasswordHash:    hash,
		CollegeID:       req.CollegeID,
		RollNumber:      req.RollNumber,
		Department:      req.Department,
		Address:         req.Address,
		ContactNumber:   req.ContactNumber,
		Website:         req.Website,
		AssignedEventID: req.AssignedEventID,
		IsActive:        true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint, role models.UserRole) (*models.User, error) {
	user, err := s.repo.User().GetByIDAndRole(ctx, id, role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return s.repo.User().List(ctx, filters)
}

func (s *userService) Update(ctx context.Context, id uint, role models.UserRole, req *UpdateUserRequest, actor *models.User) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id, role)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeUserWrite(user, actor, "update"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.ContactNumber != nil {
		user.ContactNumber = req.ContactNumber
	}
	if req.Website != nil {
		user.Website = req.Website
	}
	if req.AssignedEventID != nil {
		user.AssignedEventID = req.AssignedEventID
	}
	// Verification is a superadmin-only toggle.
	if req.IsVerified != nil {
		if actor.Role != models.RoleSuperAdmin {
			return nil, NewPermissionError(actor.ID, id, "user", "verify", "only superadmin may verify accounts")
		}
		user.IsVerified = *req.IsVerified
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint, role models.UserRole, actor *models.User) error {
	user, err := s.Get(ctx, id, role)
	if err != nil {
		return err
	}
	if err := s.authorizeUserWrite(user, actor, "delete"); err != nil {
		return err
	}

	switch role {
	case models.RoleCollege, models.RoleStudent:
		err = s.repo.User().Deactivate(ctx, id)
	default:
		err = s.repo.User().Delete(ctx, id)
	}
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", "user_id", id, "role", role)
	return nil
}

// authorizeUserWrite allows superadmin, the subject itself, and the
// college that owns a student record.
func (s *userService) authorizeUserWrite(subject, actor *models.User, action string) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.ID == subject.ID && actor.Role == subject.Role {
		return nil
	}
	if actor.Role == models.RoleCollege && subject.Role == models.RoleStudent &&
		subject.CollegeID != nil && *subject.CollegeID == actor.ID {
		return nil
	}
	return NewPermissionError(actor.ID, subject.ID, "user", action, "not owner of this record")
}
