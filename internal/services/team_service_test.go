package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/UniFest-2025/event-service/internal/cache"
	"github.com/UniFest-2025/event-service/internal/events"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type teamServiceFixture struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	service   TeamService
}

func newTeamServiceFixture() *teamServiceFixture {
	repo := newMockRepository()
	logger := newTestLogger()
	publisher := events.NewMockEventPublisher(newTestSlogLogger())
	resolver := NewMembershipResolver(repo, logger)
	sync := NewParticipationSynchronizer(repo, logger)
	service := NewTeamService(repo, resolver, sync, publisher, cache.NoopCache{}, logger, utils.NewValidator())
	return &teamServiceFixture{repo: repo, publisher: publisher, service: service}
}

func student(id uint, name, email string) *models.User {
	return &models.User{ID: id, Role: models.RoleStudent, Name: name, Email: email, IsActive: true}
}

func openEvent(id uint) *models.Event {
	deadline := time.Now().Add(24 * time.Hour)
	return &models.Event{
		ID:                   id,
		CollegeID:            1,
		Title:                "Hackathon",
		Status:               models.EventUpcoming,
		StartDate:            time.Now().Add(48 * time.Hour),
		EndDate:              time.Now().Add(72 * time.Hour),
		RegistrationDeadline: &deadline,
	}
}

func validCreateRequest() *CreateTeamRequest {
	return &CreateTeamRequest{
		EventID:  10,
		TeamName: "Byte Bandits",
		Leader:   &MemberEntry{Name: "Asha Rao", Email: "asha@college.edu"},
		Members: []MemberEntry{
			{Name: "Asha Rao", Email: "asha@college.edu"},
			{Name: "Vikram Shah", Email: "vikram@college.edu"},
		},
	}
}

func TestCreateTeam_Success(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, []string{"asha@college.edu", "vikram@college.edu"}).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{}, nil)
	f.repo.teams.On("CreateWithMembers", mock.Anything, mock.AnythingOfType("*models.Team"), []uint{1, 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Team).ID = 42
		}).
		Return(nil)
	f.repo.events.On("AddParticipations", mock.Anything, uint(10), []uint{1, 2}).Return(nil)
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(&models.Team{
		ID:       42,
		EventID:  10,
		TeamName: "Byte Bandits",
		LeaderID: 1,
		Members: []models.TeamMember{
			{TeamID: 42, EventID: 10, StudentID: 1},
			{TeamID: 42, EventID: 10, StudentID: 2},
		},
	}, nil)

	team, err := f.service.CreateTeam(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, uint(42), team.ID)
	assert.Equal(t, uint(1), team.LeaderID)
	assert.Equal(t, 2, team.MemberCount())
	f.repo.teams.AssertExpectations(t)
	f.repo.events.AssertCalled(t, "AddParticipations", mock.Anything, uint(10), []uint{1, 2})

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, events.EventTeamCreated, f.publisher.Events[0].Type)
}

func TestCreateTeam_MemberOnAnotherTeam(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	// Student 2 already sits on some team of this event.
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{2, 7}, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrMemberAlreadyOnTeam)
	f.repo.teams.AssertNotCalled(t, "CreateWithMembers", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}

func TestCreateTeam_DuplicateKeyRace(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	// The read sees no conflict, but a concurrent creation wins the write.
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{}, nil)
	f.repo.teams.On("CreateWithMembers", mock.Anything, mock.Anything, []uint{1, 2}).
		Return(gorm.ErrDuplicatedKey)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrMemberAlreadyOnTeam)
	f.repo.events.AssertNotCalled(t, "AddParticipations", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTeam_NameTaken(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(true, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrTeamNameTaken)
}

func TestCreateTeam_UnknownMemberEmails(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	// Only the leader resolves.
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{student(1, "Asha Rao", "asha@college.edu")}, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrMembersNotFound)
	var resErr *MemberResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, []string{"vikram@college.edu"}, resErr.NotFound)
}

func TestCreateTeam_LeaderNameMismatchIsFatal(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()
	req.Leader.Name = "Somebody Else"
	req.Members[0].Name = "Somebody Else"

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrLeaderNameMismatch)
}

func TestCreateTeam_MemberNameMismatchIsAdvisory(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()
	req.Members[1].Name = "V. Shah"

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{}, nil)
	f.repo.teams.On("CreateWithMembers", mock.Anything, mock.Anything, []uint{1, 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Team).ID = 43
		}).
		Return(nil)
	f.repo.events.On("AddParticipations", mock.Anything, uint(10), []uint{1, 2}).Return(nil)
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(43)).
		Return(&models.Team{ID: 43, EventID: 10, LeaderID: 1}, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.NoError(t, err)
}

func TestCreateTeam_LeaderByIDInRoster(t *testing.T) {
	f := newTeamServiceFixture()
	leaderID := uint(2)
	req := validCreateRequest()
	req.Leader = nil
	req.LeaderID = &leaderID

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, []string{"asha@college.edu", "vikram@college.edu"}).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{}, nil)
	f.repo.teams.On("CreateWithMembers", mock.Anything, mock.AnythingOfType("*models.Team"), []uint{1, 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Team).ID = 45
		}).
		Return(nil)
	f.repo.events.On("AddParticipations", mock.Anything, uint(10), []uint{1, 2}).Return(nil)
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(45)).
		Return(&models.Team{ID: 45, EventID: 10, LeaderID: 2}, nil)

	team, err := f.service.CreateTeam(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, uint(2), team.LeaderID)
	// A leader already resolved from the member emails needs no extra lookup.
	f.repo.users.AssertNotCalled(t, "GetStudentsByIDs", mock.Anything, mock.Anything)
}

func TestCreateTeam_LeaderByIDUnionedIntoMembers(t *testing.T) {
	f := newTeamServiceFixture()
	leaderID := uint(9)
	req := validCreateRequest()
	req.Leader = nil
	req.LeaderID = &leaderID

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, []string{"asha@college.edu", "vikram@college.edu"}).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.users.On("GetStudentsByIDs", mock.Anything, []uint{9}).
		Return([]*models.User{student(9, "Priya Nair", "priya@college.edu")}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{}, nil)
	// The leader joins the roster even though no member entry names them.
	f.repo.teams.On("CreateWithMembers", mock.Anything, mock.AnythingOfType("*models.Team"), []uint{9, 1, 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Team).ID = 46
		}).
		Return(nil)
	f.repo.events.On("AddParticipations", mock.Anything, uint(10), []uint{9, 1, 2}).Return(nil)
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(46)).Return(&models.Team{
		ID:       46,
		EventID:  10,
		TeamName: "Byte Bandits",
		LeaderID: 9,
		Members: []models.TeamMember{
			{TeamID: 46, EventID: 10, StudentID: 9},
			{TeamID: 46, EventID: 10, StudentID: 1},
			{TeamID: 46, EventID: 10, StudentID: 2},
		},
	}, nil)

	team, err := f.service.CreateTeam(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, uint(9), team.LeaderID)
	assert.Equal(t, 3, team.MemberCount())
	f.repo.teams.AssertExpectations(t)
	f.repo.events.AssertCalled(t, "AddParticipations", mock.Anything, uint(10), []uint{9, 1, 2})
}

func TestCreateTeam_LeaderByIDUnknownStudent(t *testing.T) {
	f := newTeamServiceFixture()
	leaderID := uint(99)
	req := validCreateRequest()
	req.Leader = nil
	req.LeaderID = &leaderID

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.users.On("GetStudentsByIDs", mock.Anything, []uint{99}).
		Return([]*models.User{}, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrUserNotFound)
	f.repo.teams.AssertNotCalled(t, "CreateWithMembers", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}

func TestCreateTeam_TooManyMembers(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()
	req.Members = nil
	students := make([]*models.User, 0, models.TeamMaxMembers+1)
	for i := 1; i <= models.TeamMaxMembers+1; i++ {
		email := string(rune('a'+i)) + "@college.edu"
		req.Members = append(req.Members, MemberEntry{Name: "Student", Email: email})
		students = append(students, student(uint(i), "Student", email))
	}
	req.Leader = &req.Members[0]

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).Return(students, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrTeamTooLarge)
}

func TestCreateTeam_RegistrationClosed(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	event := openEvent(10)
	past := time.Now().Add(-time.Hour)
	event.RegistrationDeadline = &past
	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(event, nil)

	_, err := f.service.CreateTeam(context.Background(), req)

	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestCreateTeam_SyncFailureKeepsTeam(t *testing.T) {
	f := newTeamServiceFixture()
	req := validCreateRequest()

	f.repo.events.On("GetByID", mock.Anything, uint(10)).Return(openEvent(10), nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, mock.Anything).
		Return([]*models.User{
			student(1, "Asha Rao", "asha@college.edu"),
			student(2, "Vikram Shah", "vikram@college.edu"),
		}, nil)
	f.repo.teams.On("ExistsByName", mock.Anything, uint(10), "Byte Bandits").Return(false, nil)
	f.repo.teams.On("GetMemberStudentIDsByEvent", mock.Anything, uint(10)).Return([]uint{}, nil)
	f.repo.teams.On("CreateWithMembers", mock.Anything, mock.Anything, []uint{1, 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Team).ID = 44
		}).
		Return(nil)
	// The projection write fails; the team must still come back.
	f.repo.events.On("AddParticipations", mock.Anything, uint(10), []uint{1, 2}).
		Return(errors.New("connection reset"))
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(44)).
		Return(&models.Team{ID: 44, EventID: 10, LeaderID: 1}, nil)

	team, err := f.service.CreateTeam(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, uint(44), team.ID)
}

func TestAddMember_AlreadyOnTeamForEvent(t *testing.T) {
	f := newTeamServiceFixture()

	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(&models.Team{
		ID:       42,
		EventID:  10,
		LeaderID: 1,
		Members:  []models.TeamMember{{TeamID: 42, EventID: 10, StudentID: 1}},
	}, nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, []string{"nina@college.edu"}).
		Return([]*models.User{student(3, "Nina Patel", "nina@college.edu")}, nil)
	f.repo.teams.On("StudentTeamForEvent", mock.Anything, uint(10), uint(3)).
		Return(&models.Team{ID: 77, EventID: 10}, nil)

	_, err := f.service.AddMember(context.Background(), 42, MemberEntry{Name: "Nina Patel", Email: "nina@college.edu"})

	assert.ErrorIs(t, err, ErrMemberAlreadyOnTeam)
	f.repo.teams.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestAddMember_Success(t *testing.T) {
	f := newTeamServiceFixture()

	team := &models.Team{
		ID:       42,
		EventID:  10,
		TeamName: "Byte Bandits",
		LeaderID: 1,
		Members:  []models.TeamMember{{TeamID: 42, EventID: 10, StudentID: 1}},
	}
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(team, nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, []string{"nina@college.edu"}).
		Return([]*models.User{student(3, "Nina Patel", "nina@college.edu")}, nil)
	f.repo.teams.On("StudentTeamForEvent", mock.Anything, uint(10), uint(3)).
		Return(nil, gorm.ErrRecordNotFound)
	f.repo.teams.On("AddMember", mock.Anything, mock.MatchedBy(func(m *models.TeamMember) bool {
		return m.TeamID == 42 && m.EventID == 10 && m.StudentID == 3
	})).Return(nil)
	f.repo.events.On("AddParticipations", mock.Anything, uint(10), []uint{3}).Return(nil)

	_, err := f.service.AddMember(context.Background(), 42, MemberEntry{Name: "Nina Patel", Email: "nina@college.edu"})

	require.NoError(t, err)
	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, events.EventTeamMemberAdded, f.publisher.Events[0].Type)
}

func TestAddMember_CapacityRaceAtStore(t *testing.T) {
	f := newTeamServiceFixture()

	// The preloaded count clears the fast path, but a concurrent add fills
	// the last slot and the store refuses the insert.
	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(&models.Team{
		ID:       42,
		EventID:  10,
		LeaderID: 1,
		Members:  []models.TeamMember{{TeamID: 42, EventID: 10, StudentID: 1}},
	}, nil)
	f.repo.users.On("GetStudentsByEmails", mock.Anything, []string{"nina@college.edu"}).
		Return([]*models.User{student(3, "Nina Patel", "nina@college.edu")}, nil)
	f.repo.teams.On("StudentTeamForEvent", mock.Anything, uint(10), uint(3)).
		Return(nil, gorm.ErrRecordNotFound)
	f.repo.teams.On("AddMember", mock.Anything, mock.Anything).Return(repositories.ErrMemberLimit)

	_, err := f.service.AddMember(context.Background(), 42, MemberEntry{Name: "Nina Patel", Email: "nina@college.edu"})

	assert.ErrorIs(t, err, ErrTeamTooLarge)
	f.repo.events.AssertNotCalled(t, "AddParticipations", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}

func TestRemoveMember_LeaderIsProtected(t *testing.T) {
	f := newTeamServiceFixture()

	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(&models.Team{
		ID:       42,
		EventID:  10,
		LeaderID: 1,
		Members: []models.TeamMember{
			{TeamID: 42, EventID: 10, StudentID: 1},
			{TeamID: 42, EventID: 10, StudentID: 2},
		},
	}, nil)

	leader := student(1, "Asha Rao", "asha@college.edu")
	err := f.service.RemoveMember(context.Background(), 42, 1, leader)

	assert.ErrorIs(t, err, ErrCannotRemoveLeader)
	f.repo.teams.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMember_DoesNotTouchParticipation(t *testing.T) {
	f := newTeamServiceFixture()

	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(&models.Team{
		ID:       42,
		EventID:  10,
		LeaderID: 1,
		Members: []models.TeamMember{
			{TeamID: 42, EventID: 10, StudentID: 1},
			{TeamID: 42, EventID: 10, StudentID: 2},
		},
	}, nil)
	f.repo.teams.On("RemoveMember", mock.Anything, uint(42), uint(2)).Return(nil)

	leader := student(1, "Asha Rao", "asha@college.edu")
	err := f.service.RemoveMember(context.Background(), 42, 2, leader)

	require.NoError(t, err)
	f.repo.events.AssertNotCalled(t, "AddParticipations", mock.Anything, mock.Anything, mock.Anything)
	f.repo.teams.AssertExpectations(t)
}

func TestRemoveMember_NonLeaderStudentCannotRemoveOthers(t *testing.T) {
	f := newTeamServiceFixture()

	f.repo.teams.On("GetByIDWithMembers", mock.Anything, uint(42)).Return(&models.Team{
		ID:       42,
		EventID:  10,
		LeaderID: 1,
		Members: []models.TeamMember{
			{TeamID: 42, EventID: 10, StudentID: 1},
			{TeamID: 42, EventID: 10, StudentID: 2},
			{TeamID: 42, EventID: 10, StudentID: 3},
		},
	}, nil)

	outsider := student(3, "Nina Patel", "nina@college.edu")
	err := f.service.RemoveMember(context.Background(), 42, 2, outsider)

	assert.ErrorIs(t, err, ErrForbidden)
}
