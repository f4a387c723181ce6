package services

import (
	"context"
	"fmt"
	"time"

	"github.com/UniFest-2025/event-service/internal/events"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// Rows without an explicit expiry are swept after this window.
const defaultNotificationTTL = 30 * 24 * time.Hour

// NotificationService persists fan-out messages and mirrors them onto the
// message bus.
type NotificationService interface {
	Send(ctx context.Context, req *SendNotificationRequest, sender *models.User) (*models.Notification, error)
	Get(ctx context.Context, id uint) (*models.Notification, error)
	List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	// SweepExpired removes rows past their expiry and returns the count.
	SweepExpired(ctx context.Context) (int64, error)
}

type SendNotificationRequest struct {
	EventID    *uint                   `json:"event_id,omitempty"`
	Message    string                  `json:"message" validate:"required,min=1"`
	Type       models.NotificationType `json:"type" validate:"required"`
	ExpiresAt  *time.Time              `json:"expires_at,omitempty"`
	StudentIDs []uint                  `json:"student_ids" validate:"required,min=1"`
}

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *utils.Validator
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, validator *utils.Validator) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *notificationService) Send(ctx context.Context, req *SendNotificationRequest, sender *models.User) (*models.Notification, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if len(req.StudentIDs) == 0 {
		return nil, ErrNoReceivers
	}

	// Drop ids that do not belong to active students before fan-out.
	students, err := s.repo.User().GetStudentsByIDs(ctx, req.StudentIDs)
	if err != nil {
		return nil, fmt.Errorf("receiver lookup failed: %w", err)
	}
	if len(students) == 0 {
		return nil, ErrNoReceivers
	}
	receiverIDs := make([]uint, 0, len(students))
	for _, st := range students {
		receiverIDs = append(receiverIDs, st.ID)
	}

	expiresAt := req.ExpiresAt
	if expiresAt == nil {
		t := time.Now().Add(defaultNotificationTTL)
		expiresAt = &t
	}

	notification := &models.Notification{
		EventID:    req.EventID,
		SenderID:   sender.ID,
		SenderRole: sender.Role,
		Message:    req.Message,
		Type:       req.Type,
		Status:     models.NotificationUnread,
		ExpiresAt:  expiresAt,
	}
	if err := s.repo.Notification().CreateWithReceivers(ctx, notification, receiverIDs); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("Notification sent",
		"notification_id", notification.ID,
		"type", notification.Type,
		"receiver_count", len(receiverIDs))

	if s.publisher != nil {
		evt := events.NewNotificationEvent(events.EventBulkNotification, map[string]interface{}{
			"notification_id": notification.ID,
			"type":            notification.Type,
			"receiver_ids":    receiverIDs,
		})
		if err := s.publisher.PublishNotificationEvent(ctx, evt); err != nil {
			s.logger.Warn("Failed to publish notification event", "notification_id", notification.ID, "error", err)
		}
	}

	return notification, nil
}

func (s *notificationService) Get(ctx context.Context, id uint) (*models.Notification, error) {
	n, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("notification lookup failed: %w", err)
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	return s.repo.Notification().List(ctx, filters)
}

func (s *notificationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.repo.Notification().MarkRead(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Notification().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *notificationService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.Notification().DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expired notification sweep failed: %w", err)
	}
	if n > 0 {
		s.logger.Info("Expired notifications removed", "count", n)
	}
	return n, nil
}
