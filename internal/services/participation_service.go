package services

import (
	"context"
	"fmt"

	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// ParticipationSynchronizer maintains the student-owned "events I joined"
// projection after team and registration writes.
//
// The projection write runs AFTER the authoritative write and outside its
// transaction. If it fails, the team or registration stands and the
// projection is stale until the next membership change for the same pair;
// re-running a sync is a no-op thanks to the unique (student, event) index.
type ParticipationSynchronizer interface {
	// SyncMembers bulk-adds eventID to every student's participation set.
	SyncMembers(ctx context.Context, eventID uint, studentIDs []uint) error

	// EventsForStudent lists the event ids in the student's projection.
	EventsForStudent(ctx context.Context, studentID uint) ([]uint, error)
}

type participationSynchronizer struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewParticipationSynchronizer(repo repositories.Repository, logger utils.Logger) ParticipationSynchronizer {
	return &participationSynchronizer{repo: repo, logger: logger}
}

func (s *participationSynchronizer) SyncMembers(ctx context.Context, eventID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}

	if err := s.repo.Event().AddParticipations(ctx, eventID, studentIDs); err != nil {
		s.logger.Error("Participation sync failed; projection is stale",
			"event_id", eventID,
			"student_count", len(studentIDs),
			"error", err)
		return fmt.Errorf("participation sync failed: %w", err)
	}

	s.logger.Debug("Participation projection updated",
		"event_id", eventID,
		"student_count", len(studentIDs))
	return nil
}

func (s *participationSynchronizer) EventsForStudent(ctx context.Context, studentID uint) ([]uint, error) {
	return s.repo.Event().GetParticipationsByStudent(ctx, studentID)
}
