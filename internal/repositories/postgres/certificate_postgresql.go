package postgres

import (
	"context"
	"fmt"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"gorm.io/gorm"
)

type CertificatePostgreSQL struct {
	db *gorm.DB
}

func NewCertificatePostgreSQL(db *gorm.DB) repositories.CertificateRepository {
	return &CertificatePostgreSQL{db: db}
}

func (c *CertificatePostgreSQL) Create(ctx context.Context, cert *models.Certificate) error {
	return c.db.WithContext(ctx).Create(cert).Error
}

func (c *CertificatePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := c.db.WithContext(ctx).
		Preload("Event").
		Preload("Student").
		First(&cert, id).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (c *CertificatePostgreSQL) GetByVerificationCode(ctx context.Context, code string) (*models.Certificate, error) {
	var cert models.Certificate
	err := c.db.WithContext(ctx).
		Preload("Event").
		Preload("Student").
		Where("verification_code = ?", code).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (c *CertificatePostgreSQL) GetByEvent(ctx context.Context, eventID uint) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	err := c.db.WithContext(ctx).
		Preload("Student").
		Where("event_id = ?", eventID).
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get certificates by event: %w", err)
	}
	return certs, nil
}

func (c *CertificatePostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	err := c.db.WithContext(ctx).
		Preload("Event").
		Where("student_id = ?", studentID).
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get certificates by student: %w", err)
	}
	return certs, nil
}

func (c *CertificatePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Certificate{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete certificate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *CertificatePostgreSQL) ExistsForEventAndStudent(ctx context.Context, eventID, studentID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check certificate existence: %w", err)
	}
	return count > 0, nil
}
