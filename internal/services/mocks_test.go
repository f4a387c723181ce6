package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

func newTestLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestSlogLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDAndRole(ctx context.Context, id uint, role models.UserRole) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	args := m.Called(ctx, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetStudentsByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	args := m.Called(ctx, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetStudentsByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string, changedAt time.Time) error {
	args := m.Called(ctx, id, passwordHash, changedAt)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmailAndRole(ctx context.Context, email string, role models.UserRole) (bool, error) {
	args := m.Called(ctx, email, role)
	return args.Bool(0), args.Error(1)
}

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) CreateWithMembers(ctx context.Context, team *models.Team, memberIDs []uint) error {
	args := m.Called(ctx, team, memberIDs)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByIDWithMembers(ctx context.Context, id uint) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *models.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByEvent(ctx context.Context, eventID uint) ([]*models.Team, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByCollege(ctx context.Context, collegeID uint) ([]*models.Team, error) {
	args := m.Called(ctx, collegeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, studentID uint) error {
	args := m.Called(ctx, teamID, studentID)
	return args.Error(0)
}

func (m *MockTeamRepository) GetMemberStudentIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockTeamRepository) StudentTeamForEvent(ctx context.Context, eventID, studentID uint) (*models.Team, error) {
	args := m.Called(ctx, eventID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) ExistsByName(ctx context.Context, eventID uint, teamName string) (bool, error) {
	args := m.Called(ctx, eventID, teamName)
	return args.Bool(0), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) GetByCollege(ctx context.Context, collegeID uint, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	args := m.Called(ctx, collegeID, filters)
	return args.Get(0).([]*models.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockEventRepository) UpdateResults(ctx context.Context, id uint, results datatypes.JSON) error {
	args := m.Called(ctx, id, results)
	return args.Error(0)
}

func (m *MockEventRepository) AddParticipant(ctx context.Context, eventID, studentID uint) error {
	args := m.Called(ctx, eventID, studentID)
	return args.Error(0)
}

func (m *MockEventRepository) RemoveParticipant(ctx context.Context, eventID, studentID uint) error {
	args := m.Called(ctx, eventID, studentID)
	return args.Error(0)
}

func (m *MockEventRepository) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) IsParticipant(ctx context.Context, eventID, studentID uint) (bool, error) {
	args := m.Called(ctx, eventID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) RecountAnalytics(ctx context.Context, eventID uint) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockEventRepository) AddParticipations(ctx context.Context, eventID uint, studentIDs []uint) error {
	args := m.Called(ctx, eventID, studentIDs)
	return args.Error(0)
}

func (m *MockEventRepository) GetParticipationsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockCertificateRepository is a mock implementation of CertificateRepository
type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *MockCertificateRepository) GetByID(ctx context.Context, id uint) (*models.Certificate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) GetByVerificationCode(ctx context.Context, code string) (*models.Certificate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) GetByEvent(ctx context.Context, eventID uint) ([]*models.Certificate, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) GetByStudent(ctx context.Context, studentID uint) ([]*models.Certificate, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCertificateRepository) ExistsForEventAndStudent(ctx context.Context, eventID, studentID uint) (bool, error) {
	args := m.Called(ctx, eventID, studentID)
	return args.Bool(0), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateWithReceivers(ctx context.Context, n *models.Notification, receiverIDs []uint) error {
	args := m.Called(ctx, n, receiverIDs)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockRepository bundles the entity mocks behind the Repository interface.
type mockRepository struct {
	users         *MockUserRepository
	teams         *MockTeamRepository
	events        *MockEventRepository
	certificates  *MockCertificateRepository
	notifications *MockNotificationRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:         new(MockUserRepository),
		teams:         new(MockTeamRepository),
		events:        new(MockEventRepository),
		certificates:  new(MockCertificateRepository),
		notifications: new(MockNotificationRepository),
	}
}

func (r *mockRepository) User() repositories.UserRepository                 { return r.users }
func (r *mockRepository) Team() repositories.TeamRepository                 { return r.teams }
func (r *mockRepository) Event() repositories.EventRepository               { return r.events }
func (r *mockRepository) Certificate() repositories.CertificateRepository   { return r.certificates }
func (r *mockRepository) Notification() repositories.NotificationRepository { return r.notifications }
