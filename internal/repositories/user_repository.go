package repositories

import (
	"context"
	"time"

	"github.com/UniFest-2025/event-service/internal/models"
)

// UserRepository covers all four role partitions of the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDAndRole resolves a token subject within its role partition.
	GetByIDAndRole(ctx context.Context, id uint, role models.UserRole) (*models.User, error)
	// GetByEmailAndRole is the login lookup; email matching is
	// case-insensitive.
	GetByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// Delete is hard removal (superadmin/teacher policy).
	Delete(ctx context.Context, id uint) error
	// Deactivate is the soft-delete path (college/student policy).
	Deactivate(ctx context.Context, id uint) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// GetStudentsByEmails is the resolver's single bulk lookup; it returns
	// only active students whose email is in the set.
	GetStudentsByEmails(ctx context.Context, emails []string) ([]*models.User, error)
	GetStudentsByIDs(ctx context.Context, ids []uint) ([]*models.User, error)

	UpdatePassword(ctx context.Context, id uint, passwordHash string, changedAt time.Time) error

	ExistsByEmailAndRole(ctx context.Context, email string, role models.UserRole) (bool, error)
}
