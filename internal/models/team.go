package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TeamMinMembers = 1
	TeamMaxMembers = 10
)

// Team is owned by its event. Team name is unique within the event; the
// member set lives in team_members rows carrying a denormalized event_id
// so the store can reject a student joining two teams of the same event.
type Team struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	EventID  uint   `json:"event_id" gorm:"uniqueIndex:idx_event_team_name;not null"`
	TeamName string `json:"team_name" gorm:"uniqueIndex:idx_event_team_name;not null;size:100"`
	LeaderID uint   `json:"leader_id" gorm:"not null"`
	JoinCode string `json:"join_code" gorm:"uniqueIndex;size:12"`

	Score    float64 `json:"score" gorm:"default:0"`
	Rank     *int    `json:"rank,omitempty"`
	IsActive bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event   *Event       `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Leader  *User        `json:"leader,omitempty" gorm:"foreignKey:LeaderID"`
	Members []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string {
	return "teams"
}

// MemberCount returns the size of the loaded member set.
func (t *Team) MemberCount() int {
	return len(t.Members)
}

// HasMember reports whether the loaded member set contains the student.
func (t *Team) HasMember(studentID uint) bool {
	for _, m := range t.Members {
		if m.StudentID == studentID {
			return true
		}
	}
	return false
}

// NewJoinCode generates a short uppercase join code for a team.
func NewJoinCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// TeamMember is one row of a team's member set. EventID duplicates the
// owning team's event so idx_event_member can hold the one-team-per-event
// invariant at the storage layer; the engine's conflict check is only the
// first line of defense against concurrent creations.
type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeamID    uint      `json:"team_id" gorm:"uniqueIndex:idx_team_member;not null"`
	EventID   uint      `json:"event_id" gorm:"uniqueIndex:idx_event_member;not null"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex:idx_team_member;uniqueIndex:idx_event_member;not null"`
	JoinedAt  time.Time `json:"joined_at" gorm:"autoCreateTime"`

	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
