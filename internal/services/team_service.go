package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/UniFest-2025/event-service/internal/cache"
	"github.com/UniFest-2025/event-service/internal/events"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

const teamCacheTTL = 5 * time.Minute

// TeamService is the team formation engine. Invariants it holds:
// member count within [TeamMinMembers, TeamMaxMembers], leader among the
// members, team name unique per event, and one team per student per event.
// The one-team check is read-then-write; the unique index on
// (event_id, student_id) in team_members catches the race, and the
// resulting duplicate-key error comes back as ErrMemberAlreadyOnTeam.
type TeamService interface {
	CreateTeam(ctx context.Context, req *CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id uint) (*models.Team, error)
	GetTeamsByEvent(ctx context.Context, eventID uint) ([]*models.Team, error)
	GetTeamsByCollege(ctx context.Context, collegeID uint) ([]*models.Team, error)
	AddMember(ctx context.Context, teamID uint, entry MemberEntry) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, studentID uint, actor *models.User) error
	DeleteTeam(ctx context.Context, id uint) error
}

type CreateTeamRequest struct {
	EventID  uint          `json:"event_id" validate:"required"`
	TeamName string        `json:"team_name" validate:"required,min=2,max=100"`
	LeaderID *uint         `json:"leader_id,omitempty"`
	Leader   *MemberEntry  `json:"leader,omitempty"`
	Members  []MemberEntry `json:"members" validate:"required,min=1,dive"`
}

type teamService struct {
	repo      repositories.Repository
	resolver  MembershipResolver
	sync      ParticipationSynchronizer
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    utils.Logger
	validator *utils.Validator
}

func NewTeamService(
	repo repositories.Repository,
	resolver MembershipResolver,
	sync ParticipationSynchronizer,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger utils.Logger,
	validator *utils.Validator,
) TeamService {
	return &teamService{
		repo:      repo,
		resolver:  resolver,
		sync:      sync,
		publisher: publisher,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, req *CreateTeamRequest) (*models.Team, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Leader == nil && req.LeaderID == nil {
		return nil, NewValidationError("leader", "either leader or leader_id is required", nil)
	}

	event, err := s.repo.Event().GetByID(ctx, req.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	if !event.RegistrationOpen(time.Now()) {
		return nil, ErrRegistrationClosed
	}

	resolution, err := s.resolveRoster(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resolution.Complete() {
		return nil, &MemberResolutionError{NotFound: resolution.NotFound}
	}

	leaderID, err := s.pickLeader(ctx, req, resolution)
	if err != nil {
		return nil, err
	}

	memberIDs := resolution.StudentIDs()
	if !containsID(memberIDs, leaderID) {
		memberIDs = append([]uint{leaderID}, memberIDs...)
	}
	if len(memberIDs) > models.TeamMaxMembers {
		return nil, ErrTeamTooLarge
	}
	if len(memberIDs) < models.TeamMinMembers {
		return nil, ErrTeamEmpty
	}

	taken, err := s.repo.Team().ExistsByName(ctx, req.EventID, req.TeamName)
	if err != nil {
		return nil, fmt.Errorf("team name check failed: %w", err)
	}
	if taken {
		return nil, ErrTeamNameTaken
	}

	// First line of defense against double membership; the unique index
	// catches whatever slips through between this read and the write.
	onTeams, err := s.repo.Team().GetMemberStudentIDsByEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("membership conflict check failed: %w", err)
	}
	occupied := make(map[uint]struct{}, len(onTeams))
	for _, id := range onTeams {
		occupied[id] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, clash := occupied[id]; clash {
			return nil, ErrMemberAlreadyOnTeam
		}
	}

	team := &models.Team{
		EventID:  req.EventID,
		TeamName: strings.TrimSpace(req.TeamName),
		LeaderID: leaderID,
		JoinCode: models.NewJoinCode(),
		IsActive: true,
	}
	if err := s.repo.Team().CreateWithMembers(ctx, team, memberIDs); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrMemberAlreadyOnTeam
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info("Team created",
		"team_id", team.ID,
		"event_id", team.EventID,
		"leader_id", team.LeaderID,
		"member_count", len(memberIDs))

	// Projection sync and fan-out run after the authoritative write; a
	// failure here leaves the team standing.
	if err := s.sync.SyncMembers(ctx, team.EventID, memberIDs); err != nil {
		s.logger.Warn("Team created but participation sync failed", "team_id", team.ID, "error", err)
	}
	s.publishTeamEvent(ctx, events.EventTeamCreated, &events.TeamCreatedEvent{
		TeamID:    team.ID,
		TeamName:  team.TeamName,
		EventID:   team.EventID,
		LeaderID:  team.LeaderID,
		MemberIDs: memberIDs,
	})
	s.invalidateTeamCache(ctx, team.EventID)

	return s.GetTeam(ctx, team.ID)
}

// resolveRoster resolves members plus the leader entry when one is given
// by email, in a single bulk lookup.
func (s *teamService) resolveRoster(ctx context.Context, req *CreateTeamRequest) (*Resolution, error) {
	entries := req.Members
	if req.Leader != nil {
		entries = append([]MemberEntry{*req.Leader}, entries...)
	}
	return s.resolver.Resolve(ctx, entries)
}

// pickLeader determines the leader id and enforces the fatal leader-name
// mismatch rule. Member mismatches stay advisory. A leader given by direct
// id need not appear among the member entries; they are looked up and the
// caller unions them into the roster.
func (s *teamService) pickLeader(ctx context.Context, req *CreateTeamRequest, resolution *Resolution) (uint, error) {
	if req.Leader != nil {
		leaderEmail := strings.ToLower(strings.TrimSpace(req.Leader.Email))
		for _, m := range resolution.Resolved {
			if m.Entry.Email != leaderEmail {
				continue
			}
			if m.NameMismatch {
				return 0, ErrLeaderNameMismatch
			}
			return m.Student.ID, nil
		}
		return 0, ErrLeaderNotInTeam
	}

	for _, m := range resolution.Resolved {
		if m.Student.ID == *req.LeaderID {
			return m.Student.ID, nil
		}
	}

	// Direct-id leader outside the member entries.
	students, err := s.repo.User().GetStudentsByIDs(ctx, []uint{*req.LeaderID})
	if err != nil {
		return 0, fmt.Errorf("leader lookup failed: %w", err)
	}
	if len(students) == 0 || !students[0].IsActive {
		return 0, ErrUserNotFound
	}
	return students[0].ID, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *teamService) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	team, err := s.repo.Team().GetByIDWithMembers(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("team lookup failed: %w", err)
	}
	return team, nil
}

func (s *teamService) GetTeamsByEvent(ctx context.Context, eventID uint) ([]*models.Team, error) {
	key := fmt.Sprintf("teams:event:%d", eventID)
	var cached []*models.Team
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	teams, err := s.repo.Team().GetByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by event: %w", err)
	}
	if err := s.cache.Set(ctx, key, teams, teamCacheTTL); err != nil {
		s.logger.Warn("Failed to cache team list", "key", key, "error", err)
	}
	return teams, nil
}

func (s *teamService) GetTeamsByCollege(ctx context.Context, collegeID uint) ([]*models.Team, error) {
	teams, err := s.repo.Team().GetByCollege(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by college: %w", err)
	}
	return teams, nil
}

func (s *teamService) AddMember(ctx context.Context, teamID uint, entry MemberEntry) (*models.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	// Fast-path check; the conditional insert in the store enforces the
	// cap under concurrent adds.
	if team.MemberCount() >= models.TeamMaxMembers {
		return nil, ErrTeamTooLarge
	}

	resolution, err := s.resolver.Resolve(ctx, []MemberEntry{entry})
	if err != nil {
		return nil, err
	}
	if !resolution.Complete() {
		return nil, &MemberResolutionError{NotFound: resolution.NotFound}
	}
	student := resolution.Resolved[0].Student

	if _, err := s.repo.Team().StudentTeamForEvent(ctx, team.EventID, student.ID); err == nil {
		return nil, ErrMemberAlreadyOnTeam
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("membership conflict check failed: %w", err)
	}

	member := &models.TeamMember{
		TeamID:    team.ID,
		EventID:   team.EventID,
		StudentID: student.ID,
	}
	if err := s.repo.Team().AddMember(ctx, member); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrMemberAlreadyOnTeam
		}
		if errors.Is(err, repositories.ErrMemberLimit) {
			return nil, ErrTeamTooLarge
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("Team member added", "team_id", team.ID, "student_id", student.ID)

	if err := s.sync.SyncMembers(ctx, team.EventID, []uint{student.ID}); err != nil {
		s.logger.Warn("Member added but participation sync failed", "team_id", team.ID, "error", err)
	}
	s.publishTeamEvent(ctx, events.EventTeamMemberAdded, &events.TeamMemberAddedEvent{
		TeamID:    team.ID,
		TeamName:  team.TeamName,
		EventID:   team.EventID,
		StudentID: student.ID,
	})
	s.invalidateTeamCache(ctx, team.EventID)

	return s.GetTeam(ctx, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, studentID uint, actor *models.User) error {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if actor.Role == models.RoleStudent && actor.ID != team.LeaderID && actor.ID != studentID {
		return NewPermissionError(actor.ID, teamID, "team", "remove member", "only the leader may remove others")
	}
	if studentID == team.LeaderID {
		return ErrCannotRemoveLeader
	}
	if !team.HasMember(studentID) {
		return ErrMemberNotFound
	}

	if err := s.repo.Team().RemoveMember(ctx, teamID, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logger.Info("Team member removed", "team_id", teamID, "student_id", studentID)

	// Removal does not touch the participation projection; the student
	// keeps the event in their history.
	s.publishTeamEvent(ctx, events.EventTeamMemberRemoved, &events.TeamMemberRemovedEvent{
		TeamID:    teamID,
		EventID:   team.EventID,
		StudentID: studentID,
	})
	s.invalidateTeamCache(ctx, team.EventID)
	return nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id uint) error {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return err
	}

	memberIDs := make([]uint, 0, len(team.Members))
	for _, m := range team.Members {
		memberIDs = append(memberIDs, m.StudentID)
	}

	if err := s.repo.Team().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	s.logger.Info("Team deleted", "team_id", id, "event_id", team.EventID)
	s.publishTeamEvent(ctx, events.EventTeamDissolved, &events.TeamDissolvedEvent{
		TeamID:    team.ID,
		TeamName:  team.TeamName,
		EventID:   team.EventID,
		MemberIDs: memberIDs,
	})
	s.invalidateTeamCache(ctx, team.EventID)
	return nil
}

func (s *teamService) publishTeamEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(eventType, payload)); err != nil {
		s.logger.Warn("Failed to publish team event", "event_type", eventType, "error", err)
	}
}

func (s *teamService) invalidateTeamCache(ctx context.Context, eventID uint) {
	if err := s.cache.Delete(ctx, fmt.Sprintf("teams:event:%d", eventID)); err != nil {
		s.logger.Warn("Failed to invalidate team cache", "event_id", eventID, "error", err)
	}
}
