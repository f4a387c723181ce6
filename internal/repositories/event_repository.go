package repositories

import (
	"context"

	"github.com/UniFest-2025/event-service/internal/models"
	"gorm.io/datatypes"
)

// EventRepository owns events, their registration rows, and the
// student-side participation projection.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters EventFilters) ([]*models.Event, int64, error)
	GetByCollege(ctx context.Context, collegeID uint, filters EventFilters) ([]*models.Event, int64, error)

	UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error
	UpdateResults(ctx context.Context, id uint, results datatypes.JSON) error

	// Registration set (event-owned)
	AddParticipant(ctx context.Context, eventID, studentID uint) error
	RemoveParticipant(ctx context.Context, eventID, studentID uint) error
	CountParticipants(ctx context.Context, eventID uint) (int64, error)
	IsParticipant(ctx context.Context, eventID, studentID uint) (bool, error)

	// RecountAnalytics refreshes the denormalized counters from the
	// current registration and team set sizes.
	RecountAnalytics(ctx context.Context, eventID uint) error

	// Participation projection (student-owned, synchronizer writes)

	// AddParticipations upserts (student, event) pairs with set
	// semantics: existing pairs are skipped, not duplicated.
	AddParticipations(ctx context.Context, eventID uint, studentIDs []uint) error
	GetParticipationsByStudent(ctx context.Context, studentID uint) ([]uint, error)
}
