package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/UniFest-2025/event-service/internal/cache"
	"github.com/UniFest-2025/event-service/internal/events"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
	"gorm.io/datatypes"
)

const eventCacheTTL = 5 * time.Minute

// EventService owns the event lifecycle, individual registration and the
// results document.
type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest, collegeID uint) (*models.Event, error)
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error)
	ListEventsByCollege(ctx context.Context, collegeID uint, filters repositories.EventFilters) ([]*models.Event, int64, error)
	UpdateEvent(ctx context.Context, id uint, req *UpdateEventRequest, actor *models.User) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uint, actor *models.User) error

	RegisterParticipant(ctx context.Context, eventID, studentID uint) error
	UnregisterParticipant(ctx context.Context, eventID, studentID uint) error

	PublishResults(ctx context.Context, eventID uint, results json.RawMessage, actor *models.User) (*models.Event, error)
}

type CreateEventRequest struct {
	Type                 models.EventType     `json:"type" validate:"required,event_type"`
	Category             models.EventCategory `json:"category" validate:"required,event_category"`
	Title                string               `json:"title" validate:"required,min=3,max=200"`
	Description          string               `json:"description"`
	StartDate            time.Time            `json:"start_date" validate:"required"`
	EndDate              time.Time            `json:"end_date" validate:"required"`
	RegistrationDeadline *time.Time           `json:"registration_deadline,omitempty"`
	MaxParticipants      int                  `json:"max_participants" validate:"omitempty,min=1"`
	Location             string               `json:"location"`
}

type UpdateEventRequest struct {
	Title                *string               `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description          *string               `json:"description,omitempty"`
	Category             *models.EventCategory `json:"category,omitempty" validate:"omitempty,event_category"`
	StartDate            *time.Time            `json:"start_date,omitempty"`
	EndDate              *time.Time            `json:"end_date,omitempty"`
	RegistrationDeadline *time.Time            `json:"registration_deadline,omitempty"`
	MaxParticipants      *int                  `json:"max_participants,omitempty" validate:"omitempty,min=1"`
	Location             *string               `json:"location,omitempty"`
	Status               *models.EventStatus   `json:"status,omitempty" validate:"omitempty,event_status"`
}

type eventService struct {
	repo      repositories.Repository
	sync      ParticipationSynchronizer
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    utils.Logger
	validator *utils.Validator
}

func NewEventService(
	repo repositories.Repository,
	sync ParticipationSynchronizer,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger utils.Logger,
	validator *utils.Validator,
) EventService {
	return &eventService{
		repo:      repo,
		sync:      sync,
		publisher: publisher,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest, collegeID uint) (*models.Event, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.RegistrationDeadline != nil && !req.RegistrationDeadline.Before(req.StartDate) {
		return nil, ErrInvalidDeadline
	}

	event := &models.Event{
		CollegeID:            collegeID,
		Type:                 req.Type,
		Category:             req.Category,
		Title:                req.Title,
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Status:               models.EventUpcoming,
		RegistrationDeadline: req.RegistrationDeadline,
		Location:             req.Location,
		MaxParticipants:      req.MaxParticipants,
	}
	if event.MaxParticipants == 0 {
		event.MaxParticipants = 100
	}

	if err := s.repo.Event().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created", "event_id", event.ID, "college_id", collegeID, "title", event.Title)
	s.invalidateEventCache(ctx)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	key := fmt.Sprintf("events:id:%d", id)
	var cached models.Event
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	event, err := s.repo.Event().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	if err := s.cache.Set(ctx, key, event, eventCacheTTL); err != nil {
		s.logger.Warn("Failed to cache event", "event_id", id, "error", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	return s.repo.Event().List(ctx, filters)
}

func (s *eventService) ListEventsByCollege(ctx context.Context, collegeID uint, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	return s.repo.Event().GetByCollege(ctx, collegeID, filters)
}

func (s *eventService) UpdateEvent(ctx context.Context, id uint, req *UpdateEventRequest, actor *models.User) (*models.Event, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	if err := s.authorizeOwner(event, actor, "update"); err != nil {
		return nil, err
	}
	if event.Status == models.EventCompleted || event.Status == models.EventCancelled {
		return nil, ErrEventNotEditable
	}

	oldStatus := event.Status
	applyEventUpdate(event, req)

	if !event.EndDate.After(event.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if event.RegistrationDeadline != nil && !event.RegistrationDeadline.Before(event.StartDate) {
		return nil, ErrInvalidDeadline
	}

	if err := s.repo.Event().Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if req.Status != nil && *req.Status != oldStatus {
		s.publishEvent(ctx, events.EventStatusChanged, &events.StatusChangedEvent{
			EventID:   event.ID,
			Title:     event.Title,
			OldStatus: string(oldStatus),
			NewStatus: string(event.Status),
		})
	}
	s.invalidateEventCache(ctx)
	return event, nil
}

func applyEventUpdate(event *models.Event, req *UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.RegistrationDeadline != nil {
		event.RegistrationDeadline = req.RegistrationDeadline
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
}

func (s *eventService) DeleteEvent(ctx context.Context, id uint, actor *models.User) error {
	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("event lookup failed: %w", err)
	}
	if err := s.authorizeOwner(event, actor, "delete"); err != nil {
		return err
	}

	if err := s.repo.Event().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.logger.Info("Event deleted", "event_id", id)
	s.invalidateEventCache(ctx)
	return nil
}

func (s *eventService) RegisterParticipant(ctx context.Context, eventID, studentID uint) error {
	event, err := s.repo.Event().GetByID(ctx, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("event lookup failed: %w", err)
	}
	if !event.RegistrationOpen(time.Now()) {
		return ErrRegistrationClosed
	}

	count, err := s.repo.Event().CountParticipants(ctx, eventID)
	if err != nil {
		return fmt.Errorf("participant count failed: %w", err)
	}
	if event.MaxParticipants > 0 && count >= int64(event.MaxParticipants) {
		return ErrEventFull
	}

	if err := s.repo.Event().AddParticipant(ctx, eventID, studentID); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to register participant: %w", err)
	}

	if err := s.repo.Event().RecountAnalytics(ctx, eventID); err != nil {
		s.logger.Warn("Analytics recount failed", "event_id", eventID, "error", err)
	}
	if err := s.sync.SyncMembers(ctx, eventID, []uint{studentID}); err != nil {
		s.logger.Warn("Registered but participation sync failed", "event_id", eventID, "error", err)
	}
	s.publishEvent(ctx, events.EventRegistrationAdded, &events.RegistrationAddedEvent{
		EventID:   eventID,
		Title:     event.Title,
		StudentID: studentID,
		JoinedAt:  time.Now(),
	})
	s.invalidateEventCache(ctx)

	s.logger.Info("Participant registered", "event_id", eventID, "student_id", studentID)
	return nil
}

func (s *eventService) UnregisterParticipant(ctx context.Context, eventID, studentID uint) error {
	registered, err := s.repo.Event().IsParticipant(ctx, eventID, studentID)
	if err != nil {
		return fmt.Errorf("registration check failed: %w", err)
	}
	if !registered {
		return ErrNotRegistered
	}

	if err := s.repo.Event().RemoveParticipant(ctx, eventID, studentID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	if err := s.repo.Event().RecountAnalytics(ctx, eventID); err != nil {
		s.logger.Warn("Analytics recount failed", "event_id", eventID, "error", err)
	}
	s.invalidateEventCache(ctx)

	// Unregistration keeps the participation projection; history is
	// append-only on the student side.
	s.logger.Info("Participant removed", "event_id", eventID, "student_id", studentID)
	return nil
}

func (s *eventService) PublishResults(ctx context.Context, eventID uint, results json.RawMessage, actor *models.User) (*models.Event, error) {
	if len(results) == 0 || !json.Valid(results) {
		return nil, NewValidationError("results", "results must be a valid JSON document", nil)
	}

	event, err := s.repo.Event().GetByID(ctx, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	if err := s.authorizeOwner(event, actor, "publish results"); err != nil {
		return nil, err
	}

	if err := s.repo.Event().UpdateResults(ctx, eventID, datatypes.JSON(results)); err != nil {
		return nil, fmt.Errorf("failed to store results: %w", err)
	}
	event.Results = datatypes.JSON(results)

	s.publishEvent(ctx, events.EventResultsPublished, &events.ResultsPublishedEvent{
		EventID: event.ID,
		Title:   event.Title,
	})
	s.invalidateEventCache(ctx)

	s.logger.Info("Event results published", "event_id", eventID)
	return event, nil
}

// authorizeOwner lets the owning college and the superadmin through.
func (s *eventService) authorizeOwner(event *models.Event, actor *models.User, action string) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Role == models.RoleCollege && actor.ID == event.CollegeID {
		return nil
	}
	return NewPermissionError(actor.ID, event.ID, "event", action, "not the owning college")
}

func (s *eventService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(eventType, payload)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

func (s *eventService) invalidateEventCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "events:*"); err != nil {
		s.logger.Warn("Failed to invalidate event cache", "error", err)
	}
}
