package repositories

import (
	"context"

	"github.com/UniFest-2025/event-service/internal/models"
)

type CertificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	GetByID(ctx context.Context, id uint) (*models.Certificate, error)
	GetByVerificationCode(ctx context.Context, code string) (*models.Certificate, error)
	GetByEvent(ctx context.Context, eventID uint) ([]*models.Certificate, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.Certificate, error)
	Delete(ctx context.Context, id uint) error

	ExistsForEventAndStudent(ctx context.Context, eventID, studentID uint) (bool, error)
}
