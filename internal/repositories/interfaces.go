package repositories

import (
	"errors"
	"time"

	"github.com/UniFest-2025/event-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role       *models.UserRole `json:"role"`
	CollegeID  *uint            `json:"college_id"`
	Department *string          `json:"department"`
	ActiveOnly bool             `json:"active_only"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	SortBy     string           `json:"sort_by"` // "created_at", "name", "email"
	SortOrder  string           `json:"sort_order"`
}

type EventFilters struct {
	Status    *models.EventStatus   `json:"status"`
	Category  *models.EventCategory `json:"category"`
	Type      *models.EventType     `json:"type"`
	CollegeID *uint                 `json:"college_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"` // "created_at", "title", "start_date"
	SortOrder string                `json:"sort_order"`
}

type NotificationFilters struct {
	Type      *models.NotificationType   `json:"type"`
	Status    *models.NotificationStatus `json:"status"`
	EventID   *uint                      `json:"event_id"`
	StudentID *uint                      `json:"student_id"`
	Limit     int                        `json:"limit"`
	Offset    int                        `json:"offset"`
}

// ===== REPOSITORY AGGREGATE =====

// Repository bundles the per-entity repositories for injection into
// services.
type Repository interface {
	User() UserRepository
	Event() EventRepository
	Team() TeamRepository
	Certificate() CertificateRepository
	Notification() NotificationRepository
}

// ===== ERROR CLASSIFIERS =====

// ErrMemberLimit is returned by TeamRepository.AddMember when the insert
// is refused because the team already carries the maximum member count.
var ErrMemberLimit = errors.New("team member limit reached")

// IsNotFoundError reports whether err is the store's record-absent error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// With TranslateError enabled the postgres driver maps 23505 onto
// gorm.ErrDuplicatedKey, which is how the loser of a concurrent team
// creation surfaces.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
