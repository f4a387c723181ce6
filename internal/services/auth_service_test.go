package services

import (
	"context"
	"testing"
	"time"

	"github.com/UniFest-2025/event-service/internal/auth"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthServiceFixture() (*mockRepository, AuthService) {
	repo := newMockRepository()
	tokens := auth.NewManager("test-secret", time.Hour)
	service := NewAuthService(repo, tokens, newTestLogger(), utils.NewValidator())
	return repo, service
}

func activeUser(id uint, role models.UserRole, email, password string) *models.User {
	hash, _ := models.HashPassword(password)
	return &models.User{
		ID:           id,
		Role:         role,
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")

	repo.users.On("GetByEmailAndRole", mock.Anything, "asha@college.edu", models.RoleStudent).
		Return(user, nil)

	resp, err := service.Login(context.Background(), &LoginRequest{
		Email:    "Asha@College.edu",
		Password: "correct-horse1",
		Role:     models.RoleStudent,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, uint(1), resp.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")

	repo.users.On("GetByEmailAndRole", mock.Anything, "asha@college.edu", models.RoleStudent).
		Return(user, nil)

	_, err := service.Login(context.Background(), &LoginRequest{
		Email:    "asha@college.edu",
		Password: "wrong-password",
		Role:     models.RoleStudent,
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	repo, service := newAuthServiceFixture()

	repo.users.On("GetByEmailAndRole", mock.Anything, "ghost@college.edu", models.RoleStudent).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Login(context.Background(), &LoginRequest{
		Email:    "ghost@college.edu",
		Password: "whatever123",
		Role:     models.RoleStudent,
	})

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RolePartitionsAreIndependent(t *testing.T) {
	repo, service := newAuthServiceFixture()
	teacher := activeUser(5, models.RoleTeacher, "shared@college.edu", "teacher-pass1")

	// The same address exists in the student partition with a different
	// password; a teacher login must only consult the teacher partition.
	repo.users.On("GetByEmailAndRole", mock.Anything, "shared@college.edu", models.RoleTeacher).
		Return(teacher, nil)

	resp, err := service.Login(context.Background(), &LoginRequest{
		Email:    "shared@college.edu",
		Password: "teacher-pass1",
		Role:     models.RoleTeacher,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	repo.users.AssertCalled(t, "GetByEmailAndRole", mock.Anything, "shared@college.edu", models.RoleTeacher)
	repo.users.AssertNotCalled(t, "GetByEmailAndRole", mock.Anything, "shared@college.edu", models.RoleStudent)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleCollege, "college@college.edu", "college-pass1")
	user.IsActive = false

	repo.users.On("GetByEmailAndRole", mock.Anything, "college@college.edu", models.RoleCollege).
		Return(user, nil)

	_, err := service.Login(context.Background(), &LoginRequest{
		Email:    "college@college.edu",
		Password: "college-pass1",
		Role:     models.RoleCollege,
	})

	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func claimsIssuedAt(userID uint, role models.UserRole, issuedAt time.Time) *auth.Claims {
	return &auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
}

func TestAuthenticate_Success(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")

	repo.users.On("GetByIDAndRole", mock.Anything, uint(1), models.RoleStudent).Return(user, nil)

	subject, err := service.Authenticate(context.Background(), claimsIssuedAt(1, models.RoleStudent, time.Now()))

	require.NoError(t, err)
	assert.Equal(t, uint(1), subject.ID)
}

func TestAuthenticate_SubjectDeleted(t *testing.T) {
	repo, service := newAuthServiceFixture()

	repo.users.On("GetByIDAndRole", mock.Anything, uint(9), models.RoleTeacher).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Authenticate(context.Background(), claimsIssuedAt(9, models.RoleTeacher, time.Now()))

	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestAuthenticate_SubjectDeactivated(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")
	user.IsActive = false

	repo.users.On("GetByIDAndRole", mock.Anything, uint(1), models.RoleStudent).Return(user, nil)

	_, err := service.Authenticate(context.Background(), claimsIssuedAt(1, models.RoleStudent, time.Now()))

	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestAuthenticate_TokenIssuedBeforePasswordChange(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")
	changed := time.Now()
	user.PasswordChangedAt = &changed

	repo.users.On("GetByIDAndRole", mock.Anything, uint(1), models.RoleStudent).Return(user, nil)

	issuedBefore := changed.Add(-10 * time.Minute)
	_, err := service.Authenticate(context.Background(), claimsIssuedAt(1, models.RoleStudent, issuedBefore))

	assert.ErrorIs(t, err, ErrStalePassword)
}

func TestAuthenticate_TokenIssuedAfterPasswordChange(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")
	changed := time.Now().Add(-time.Hour)
	user.PasswordChangedAt = &changed

	repo.users.On("GetByIDAndRole", mock.Anything, uint(1), models.RoleStudent).Return(user, nil)

	_, err := service.Authenticate(context.Background(), claimsIssuedAt(1, models.RoleStudent, time.Now()))

	assert.NoError(t, err)
}

func TestAuthorize(t *testing.T) {
	_, service := newAuthServiceFixture()
	college := &models.User{ID: 2, Role: models.RoleCollege}

	assert.NoError(t, service.Authorize(college, models.RoleCollege, models.RoleSuperAdmin))
	assert.ErrorIs(t, service.Authorize(college, models.RoleStudent), ErrForbidden)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")

	repo.users.On("GetByIDAndRole", mock.Anything, uint(1), models.RoleStudent).Return(user, nil)

	_, err := service.ChangePassword(context.Background(), 1, models.RoleStudent, &ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "brand-new-pass1",
	})

	assert.ErrorIs(t, err, ErrWrongPassword)
	repo.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_Success(t *testing.T) {
	repo, service := newAuthServiceFixture()
	user := activeUser(1, models.RoleStudent, "asha@college.edu", "correct-horse1")

	repo.users.On("GetByIDAndRole", mock.Anything, uint(1), models.RoleStudent).Return(user, nil)
	repo.users.On("UpdatePassword", mock.Anything, uint(1), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil)

	resp, err := service.ChangePassword(context.Background(), 1, models.RoleStudent, &ChangePasswordRequest{
		CurrentPassword: "correct-horse1",
		NewPassword:     "brand-new-pass1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.CheckPassword("brand-new-pass1"))
	repo.users.AssertExpectations(t)
}
