package models

import (
	"time"
)

type NotificationType string
type NotificationStatus string

const (
	NotificationTeamCreated       NotificationType = "team_created"
	NotificationMemberAdded       NotificationType = "member_added"
	NotificationCertificateIssued NotificationType = "certificate_issued"
	NotificationResultsPublished  NotificationType = "results_published"
	NotificationEventUpdate       NotificationType = "event_update"
	NotificationGeneral           NotificationType = "general"

	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Notification fans a message out to a set of students. Rows auto-expire
// at ExpiresAt (store-level TTL cleanup, not modeled here).
type Notification struct {
	ID         uint               `json:"id" gorm:"primaryKey"`
	EventID    *uint              `json:"event_id,omitempty" gorm:"index"`
	SenderID   uint               `json:"sender_id" gorm:"not null"`
	SenderRole UserRole           `json:"sender_role" gorm:"not null;size:20"`
	Message    string             `json:"message" gorm:"type:text;not null"`
	Type       NotificationType   `json:"type" gorm:"not null;size:30;index"`
	Status     NotificationStatus `json:"status" gorm:"default:unread;size:10"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`

	Receivers []NotificationReceiver `json:"receivers,omitempty" gorm:"foreignKey:NotificationID"`
}

func (Notification) TableName() string {
	return "notifications"
}

type NotificationReceiver struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	NotificationID uint `json:"notification_id" gorm:"uniqueIndex:idx_notification_student;not null"`
	StudentID      uint `json:"student_id" gorm:"uniqueIndex:idx_notification_student;not null"`

	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (NotificationReceiver) TableName() string {
	return "notification_receivers"
}
