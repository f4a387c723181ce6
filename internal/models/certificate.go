package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CertificateTitle string
type IssuerRole string

const (
	CertWinner        CertificateTitle = "Winner"
	CertFirstRunner   CertificateTitle = "1st Runner Up"
	CertSecondRunner  CertificateTitle = "2nd Runner Up"
	CertParticipation CertificateTitle = "Participation"
	CertExcellence    CertificateTitle = "Excellence"
	CertSpecial       CertificateTitle = "Special Recognition"

	IssuerTeacher IssuerRole = "teacher"
	IssuerCollege IssuerRole = "college"
)

var ValidCertificateTitles = []CertificateTitle{
	CertWinner, CertFirstRunner, CertSecondRunner,
	CertParticipation, CertExcellence, CertSpecial,
}

// Certificate records an award for one student at one event. The
// (event, student) pair is unique; the verification code is generated at
// creation and never rewritten.
type Certificate struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	EventID   uint             `json:"event_id" gorm:"uniqueIndex:idx_event_student_cert;not null"`
	StudentID uint             `json:"student_id" gorm:"uniqueIndex:idx_event_student_cert;not null"`
	Title     CertificateTitle `json:"title" gorm:"not null;size:50"`

	IssuerID   uint       `json:"issuer_id" gorm:"not null"`
	IssuerRole IssuerRole `json:"issuer_role" gorm:"not null;size:20"`

	VerificationCode string `json:"verification_code" gorm:"uniqueIndex;size:16"`
	IsVerified       bool   `json:"is_verified" gorm:"default:false"`
	Description      string `json:"description,omitempty" gorm:"type:text"`

	DateIssued time.Time `json:"date_issued" gorm:"autoCreateTime"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Event   *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Student *User  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// NewVerificationCode generates the immutable public lookup code.
func NewVerificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
