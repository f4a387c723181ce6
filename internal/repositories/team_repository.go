package repositories

import (
	"context"

	"github.com/UniFest-2025/event-service/internal/models"
)

// TeamRepository owns teams and their member rows.
type TeamRepository interface {
	// CreateWithMembers inserts the team and its member rows in one
	// transaction so a duplicate-membership violation rolls back the
	// whole creation (no partial team).
	CreateWithMembers(ctx context.Context, team *models.Team, memberIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Team, error)
	// GetByIDWithMembers preloads member rows with student display fields.
	GetByIDWithMembers(ctx context.Context, id uint) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uint) error

	GetByEvent(ctx context.Context, eventID uint) ([]*models.Team, error)
	// GetByCollege lists teams having at least one member from the college.
	GetByCollege(ctx context.Context, collegeID uint) ([]*models.Team, error)

	// AddMember appends one member row; a duplicate on idx_event_member
	// surfaces as a duplicate-key error, and an insert that would push the
	// team past the member cap returns ErrMemberLimit.
	AddMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, studentID uint) error

	// GetMemberStudentIDsByEvent returns every student id already on some
	// team of the event (the conflict-check read).
	GetMemberStudentIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	// StudentTeamForEvent returns the team the student belongs to for the
	// event, or a not-found error.
	StudentTeamForEvent(ctx context.Context, eventID, studentID uint) (*models.Team, error)

	ExistsByName(ctx context.Context, eventID uint, teamName string) (bool, error)
}
