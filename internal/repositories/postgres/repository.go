package postgres

import (
	"github.com/UniFest-2025/event-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	user         repositories.UserRepository
	event        repositories.EventRepository
	team         repositories.TeamRepository
	certificate  repositories.CertificateRepository
	notification repositories.NotificationRepository
}

// NewRepository wires the per-entity PostgreSQL repositories.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		user:         NewUserPostgreSQL(db),
		event:        NewEventPostgreSQL(db),
		team:         NewTeamPostgreSQL(db),
		certificate:  NewCertificatePostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *gormRepository) User() repositories.UserRepository                 { return r.user }
func (r *gormRepository) Event() repositories.EventRepository               { return r.event }
func (r *gormRepository) Team() repositories.TeamRepository                 { return r.team }
func (r *gormRepository) Certificate() repositories.CertificateRepository   { return r.certificate }
func (r *gormRepository) Notification() repositories.NotificationRepository { return r.notification }
