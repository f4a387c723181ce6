package repositories

import (
	"context"
	"time"

	"github.com/UniFest-2025/event-service/internal/models"
)

type NotificationRepository interface {
	// CreateWithReceivers inserts the notification and its receiver rows
	// in one transaction.
	CreateWithReceivers(ctx context.Context, n *models.Notification, receiverIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	List(ctx context.Context, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	// DeleteExpired removes rows whose expiry has elapsed; the TTL sweep.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
