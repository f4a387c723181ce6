package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventType string
type EventCategory string
type EventStatus string

const (
	EventCollegeOnly  EventType = "college-only"
	EventInterCollege EventType = "inter-college"

	CategorySports       EventCategory = "sports"
	CategoryCultural     EventCategory = "cultural"
	CategoryHackathon    EventCategory = "hackathon"
	CategorySeminar      EventCategory = "seminar"
	CategoryWorkshop     EventCategory = "workshop"
	CategoryTechnical    EventCategory = "technical"
	CategoryNonTechnical EventCategory = "non-technical"
	CategoryOther        EventCategory = "other"

	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event is owned by a college. Participant and team membership live in
// their own tables so the store can enforce uniqueness per pair; the
// analytics counters are recomputed from set sizes on every save.
type Event struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	CollegeID   uint          `json:"college_id" gorm:"not null;index"`
	Type        EventType     `json:"type" gorm:"not null;size:20"`
	Category    EventCategory `json:"category" gorm:"not null;size:30"`
	Title       string        `json:"title" gorm:"not null;size:200"`
	Description string        `json:"description" gorm:"type:text"`

	StartDate time.Time   `json:"start_date" gorm:"not null"`
	EndDate   time.Time   `json:"end_date" gorm:"not null"`
	Status    EventStatus `json:"status" gorm:"default:upcoming;size:20"`

	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	MaxParticipants      int        `json:"max_participants" gorm:"default:100"`
	Location             string     `json:"location" gorm:"size:255"`

	// Winner/runner-up/scoreboard document; shape varies per category.
	Results datatypes.JSON `json:"results,omitempty" gorm:"type:jsonb"`

	TotalParticipants int `json:"total_participants" gorm:"default:0"`
	TotalTeams        int `json:"total_teams" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	College      *User               `json:"college,omitempty" gorm:"foreignKey:CollegeID"`
	Participants []EventRegistration `json:"participants,omitempty" gorm:"foreignKey:EventID"`
	Teams        []Team              `json:"teams,omitempty" gorm:"foreignKey:EventID"`
}

func (Event) TableName() string {
	return "events"
}

// BeforeSave keeps the denormalized counters in line with the loaded sets.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	if e.Participants != nil {
		e.TotalParticipants = len(e.Participants)
	}
	if e.Teams != nil {
		e.TotalTeams = len(e.Teams)
	}
	return nil
}

// RegistrationOpen reports whether the registration window is still open.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if e.RegistrationDeadline == nil {
		return true
	}
	return now.Before(*e.RegistrationDeadline)
}

// EventRegistration is one entry of the event-owned participant set.
// The pair is unique so re-registering the same student is a storage-level
// conflict rather than a duplicate row.
type EventRegistration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"uniqueIndex:idx_event_student;not null"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex:idx_event_student;not null"`
	CreatedAt time.Time `json:"created_at"`

	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

// StudentParticipation is the student-owned projection of "events I joined",
// maintained by the synchronizer after team/registration writes. The unique
// pair gives the projection set semantics: replaying a sync is a no-op.
type StudentParticipation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex:idx_student_event;not null"`
	EventID   uint      `json:"event_id" gorm:"uniqueIndex:idx_student_event;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (StudentParticipation) TableName() string {
	return "student_participations"
}
