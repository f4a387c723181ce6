package events

import (
	"time"
)

// EventType represents different types of notification events
type EventType string

const (
	// Team events
	EventTeamCreated       EventType = "team.created"
	EventTeamMemberAdded   EventType = "team.member_added"
	EventTeamMemberRemoved EventType = "team.member_removed"
	EventTeamDissolved     EventType = "team.dissolved"

	// Event lifecycle events
	EventRegistrationAdded  EventType = "event.registration_added"
	EventResultsPublished   EventType = "event.results_published"
	EventStatusChanged      EventType = "event.status_changed"

	// Certificate events
	EventCertificateIssued EventType = "certificate.issued"

	// System events
	EventBulkNotification EventType = "system.bulk_notification"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Team notification event payloads

type TeamCreatedEvent struct {
	TeamID    uint   `json:"team_id"`
	TeamName  string `json:"team_name"`
	EventID   uint   `json:"event_id"`
	LeaderID  uint   `json:"leader_id"`
	MemberIDs []uint `json:"member_ids"`
}

type TeamMemberAddedEvent struct {
	TeamID    uint   `json:"team_id"`
	TeamName  string `json:"team_name"`
	EventID   uint   `json:"event_id"`
	StudentID uint   `json:"student_id"`
}

type TeamMemberRemovedEvent struct {
	TeamID    uint   `json:"team_id"`
	EventID   uint   `json:"event_id"`
	StudentID uint   `json:"student_id"`
}

type TeamDissolvedEvent struct {
	TeamID    uint   `json:"team_id"`
	TeamName  string `json:"team_name"`
	EventID   uint   `json:"event_id"`
	MemberIDs []uint `json:"member_ids"`
}

// Event lifecycle payloads

type RegistrationAddedEvent struct {
	EventID   uint      `json:"event_id"`
	Title     string    `json:"title"`
	StudentID uint      `json:"student_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

type ResultsPublishedEvent struct {
	EventID        uint   `json:"event_id"`
	Title          string `json:"title"`
	ParticipantIDs []uint `json:"participant_ids"`
}

type StatusChangedEvent struct {
	EventID   uint   `json:"event_id"`
	Title     string `json:"title"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// Certificate payloads

type CertificateIssuedEvent struct {
	CertificateID    uint   `json:"certificate_id"`
	EventID          uint   `json:"event_id"`
	StudentID        uint   `json:"student_id"`
	Title            string `json:"title"`
	VerificationCode string `json:"verification_code"`
}
