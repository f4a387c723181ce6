package postgres

import (
	"context"
	"fmt"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventPostgreSQL struct {
	db *gorm.DB
}

func NewEventPostgreSQL(db *gorm.DB) repositories.EventRepository {
	return &EventPostgreSQL{db: db}
}

func (e *EventPostgreSQL) Create(ctx context.Context, event *models.Event) error {
	if event.Status == "" {
		event.Status = models.EventUpcoming
	}
	if err := e.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (e *EventPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := e.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *EventPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := e.db.WithContext(ctx).
		Preload("College").
		Preload("Participants.Student").
		Preload("Teams.Members.Student").
		First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *EventPostgreSQL) Update(ctx context.Context, event *models.Event) error {
	if err := e.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (e *EventPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := e.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EventPostgreSQL) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Event{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.CollegeID != nil {
		query = query.Where("college_id = ?", *filters.CollegeID)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_date <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, "start_date")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var events []*models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	return events, total, nil
}

func (e *EventPostgreSQL) GetByCollege(ctx context.Context, collegeID uint, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	filters.CollegeID = &collegeID
	return e.List(ctx, filters)
}

func (e *EventPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error {
	result := e.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update event status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EventPostgreSQL) UpdateResults(ctx context.Context, id uint, results datatypes.JSON) error {
	result := e.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("results", results)
	if result.Error != nil {
		return fmt.Errorf("failed to update event results: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EventPostgreSQL) AddParticipant(ctx context.Context, eventID, studentID uint) error {
	reg := models.EventRegistration{EventID: eventID, StudentID: studentID}
	return e.db.WithContext(ctx).Create(&reg).Error
}

func (e *EventPostgreSQL) RemoveParticipant(ctx context.Context, eventID, studentID uint) error {
	result := e.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Delete(&models.EventRegistration{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove participant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EventPostgreSQL) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (e *EventPostgreSQL) IsParticipant(ctx context.Context, eventID, studentID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return count > 0, nil
}

// RecountAnalytics mirrors the save-time recompute of the denormalized
// counters from current set sizes.
func (e *EventPostgreSQL) RecountAnalytics(ctx context.Context, eventID uint) error {
	participants := e.db.Model(&models.EventRegistration{}).
		Select("COUNT(*)").Where("event_id = ?", eventID)
	teams := e.db.Model(&models.Team{}).
		Select("COUNT(*)").Where("event_id = ?", eventID)

	result := e.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"total_participants": participants,
			"total_teams":        teams,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to recount analytics: %w", result.Error)
	}
	return nil
}

// AddParticipations upserts the (student, event) projection pairs.
// ON CONFLICT DO NOTHING gives the write set semantics, which is what
// makes the synchronizer idempotent.
func (e *EventPostgreSQL) AddParticipations(ctx context.Context, eventID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}

	rows := make([]models.StudentParticipation, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		rows = append(rows, models.StudentParticipation{
			StudentID: studentID,
			EventID:   eventID,
		})
	}

	err := e.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to add participations: %w", err)
	}
	return nil
}

func (e *EventPostgreSQL) GetParticipationsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	var eventIDs []uint
	err := e.db.WithContext(ctx).
		Model(&models.StudentParticipation{}).
		Where("student_id = ?", studentID).
		Pluck("event_id", &eventIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get participations: %w", err)
	}
	return eventIDs, nil
}
