package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"gorm.io/gorm"
)

type TeamPostgreSQL struct {
	db *gorm.DB
}

func NewTeamPostgreSQL(db *gorm.DB) repositories.TeamRepository {
	return &TeamPostgreSQL{db: db}
}

// CreateWithMembers inserts the team and all member rows atomically. If
// any member already sits on another team of the event, idx_event_member
// rejects the insert and the whole creation rolls back.
func (t *TeamPostgreSQL) CreateWithMembers(ctx context.Context, team *models.Team, memberIDs []uint) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		members := make([]models.TeamMember, 0, len(memberIDs))
		for _, studentID := range memberIDs {
			members = append(members, models.TeamMember{
				TeamID:    team.ID,
				EventID:   team.EventID,
				StudentID: studentID,
			})
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}
		return nil
	})
}

func (t *TeamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := t.db.WithContext(ctx).Preload("Members").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (t *TeamPostgreSQL) GetByIDWithMembers(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	err := t.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members.Student").
		Preload("Members.Student.College").
		First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (t *TeamPostgreSQL) Update(ctx context.Context, team *models.Team) error {
	if err := t.db.WithContext(ctx).Save(team).Error; err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return nil
}

// Delete removes the team and its member rows. Teams are destroyed
// explicitly, never cascaded from event deletion.
func (t *TeamPostgreSQL) Delete(ctx context.Context, id uint) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete team members: %w", err)
		}
		result := tx.Delete(&models.Team{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete team: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (t *TeamPostgreSQL) GetByEvent(ctx context.Context, eventID uint) ([]*models.Team, error) {
	var teams []*models.Team
	err := t.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members.Student").
		Where("event_id = ?", eventID).
		Order("team_name ASC").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get teams by event: %w", err)
	}
	return teams, nil
}

func (t *TeamPostgreSQL) GetByCollege(ctx context.Context, collegeID uint) ([]*models.Team, error) {
	var teams []*models.Team
	err := t.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members.Student").
		Where("id IN (?)", t.db.Model(&models.TeamMember{}).
			Select("team_members.team_id").
			Joins("JOIN users ON users.id = team_members.student_id").
			Where("users.college_id = ?", collegeID)).
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get teams by college: %w", err)
	}
	return teams, nil
}

func (t *TeamPostgreSQL) AddMember(ctx context.Context, member *models.TeamMember) error {
	// Conditional insert so two concurrent adds cannot push the team past
	// the member cap; the service's read check alone cannot guarantee that.
	result := t.db.WithContext(ctx).Exec(
		`INSERT INTO team_members (team_id, event_id, student_id, joined_at)
		 SELECT ?, ?, ?, ?
		 WHERE (SELECT COUNT(*) FROM team_members WHERE team_id = ?) < ?`,
		member.TeamID, member.EventID, member.StudentID, time.Now(),
		member.TeamID, models.TeamMaxMembers)
	if result.Error != nil {
		return fmt.Errorf("failed to add member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrMemberLimit
	}
	return nil
}

func (t *TeamPostgreSQL) RemoveMember(ctx context.Context, teamID, studentID uint) error {
	result := t.db.WithContext(ctx).
		Where("team_id = ? AND student_id = ?", teamID, studentID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (t *TeamPostgreSQL) GetMemberStudentIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint
	err := t.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("event_id = ?", eventID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids by event: %w", err)
	}
	return ids, nil
}

func (t *TeamPostgreSQL) StudentTeamForEvent(ctx context.Context, eventID, studentID uint) (*models.Team, error) {
	var member models.TeamMember
	err := t.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return t.GetByID(ctx, member.TeamID)
}

func (t *TeamPostgreSQL) ExistsByName(ctx context.Context, eventID uint, teamName string) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("event_id = ? AND team_name = ?", eventID, teamName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check team name: %w", err)
	}
	return count > 0, nil
}
