package services

import (
	"context"
	"fmt"

	"github.com/UniFest-2025/event-service/internal/events"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// CertificateService issues and verifies event certificates. One
// certificate per (event, student); the verification code is minted at
// issue time and never changes.
type CertificateService interface {
	Issue(ctx context.Context, req *IssueCertificateRequest, issuer *models.User) (*models.Certificate, error)
	GetByID(ctx context.Context, id uint) (*models.Certificate, error)
	Verify(ctx context.Context, code string) (*models.Certificate, error)
	ListByEvent(ctx context.Context, eventID uint) ([]*models.Certificate, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*models.Certificate, error)
	Revoke(ctx context.Context, id uint, actor *models.User) error
}

type IssueCertificateRequest struct {
	EventID     uint                    `json:"event_id" validate:"required"`
	StudentID   uint                    `json:"student_id" validate:"required"`
	Title       models.CertificateTitle `json:"title" validate:"required,certificate_title"`
	Description string                  `json:"description"`
}

type certificateService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *utils.Validator
}

func NewCertificateService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, validator *utils.Validator) CertificateService {
	return &certificateService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *certificateService) Issue(ctx context.Context, req *IssueCertificateRequest, issuer *models.User) (*models.Certificate, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var issuerRole models.IssuerRole
	switch issuer.Role {
	case models.RoleTeacher:
		issuerRole = models.IssuerTeacher
	case models.RoleCollege:
		issuerRole = models.IssuerCollege
	default:
		return nil, NewPermissionError(issuer.ID, req.EventID, "certificate", "issue", "only teachers and colleges issue certificates")
	}

	if _, err := s.repo.Event().GetByID(ctx, req.EventID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	student, err := s.repo.User().GetByIDAndRole(ctx, req.StudentID, models.RoleStudent)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("student lookup failed: %w", err)
	}

	exists, err := s.repo.Certificate().ExistsForEventAndStudent(ctx, req.EventID, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("certificate existence check failed: %w", err)
	}
	if exists {
		return nil, ErrCertificateExists
	}

	cert := &models.Certificate{
		EventID:          req.EventID,
		StudentID:        req.StudentID,
		Title:            req.Title,
		IssuerID:         issuer.ID,
		IssuerRole:       issuerRole,
		VerificationCode: models.NewVerificationCode(),
		Description:      req.Description,
	}
	if err := s.repo.Certificate().Create(ctx, cert); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrCertificateExists
		}
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	s.logger.Info("Certificate issued",
		"certificate_id", cert.ID,
		"event_id", cert.EventID,
		"student_id", cert.StudentID,
		"title", cert.Title)

	if s.publisher != nil {
		evt := events.NewNotificationEvent(events.EventCertificateIssued, &events.CertificateIssuedEvent{
			CertificateID:    cert.ID,
			EventID:          cert.EventID,
			StudentID:        cert.StudentID,
			Title:            string(cert.Title),
			VerificationCode: cert.VerificationCode,
		})
		if err := s.publisher.PublishNotificationEvent(ctx, evt); err != nil {
			s.logger.Warn("Failed to publish certificate event", "certificate_id", cert.ID, "error", err)
		}
	}

	cert.Student = student
	return cert, nil
}

func (s *certificateService) GetByID(ctx context.Context, id uint) (*models.Certificate, error) {
	cert, err := s.repo.Certificate().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("certificate lookup failed: %w", err)
	}
	return cert, nil
}

func (s *certificateService) Verify(ctx context.Context, code string) (*models.Certificate, error) {
	cert, err := s.repo.Certificate().GetByVerificationCode(ctx, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("certificate lookup failed: %w", err)
	}
	return cert, nil
}

func (s *certificateService) ListByEvent(ctx context.Context, eventID uint) ([]*models.Certificate, error) {
	return s.repo.Certificate().GetByEvent(ctx, eventID)
}

func (s *certificateService) ListByStudent(ctx context.Context, studentID uint) ([]*models.Certificate, error) {
	return s.repo.Certificate().GetByStudent(ctx, studentID)
}

func (s *certificateService) Revoke(ctx context.Context, id uint, actor *models.User) error {
	cert, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleSuperAdmin && actor.ID != cert.IssuerID {
		return NewPermissionError(actor.ID, id, "certificate", "revoke", "only the issuer or superadmin may revoke")
	}

	if err := s.repo.Certificate().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	s.logger.Info("Certificate revoked", "certificate_id", id, "by", actor.ID)
	return nil
}
