package services

import (
	"github.com/UniFest-2025/event-service/internal/auth"
	"github.com/UniFest-2025/event-service/internal/cache"
	"github.com/UniFest-2025/event-service/internal/events"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// Manager wires every service over one repository, cache and publisher.
type Manager struct {
	Auth          AuthService
	Users         UserService
	Events        EventService
	Teams         TeamService
	Resolver      MembershipResolver
	Participation ParticipationSynchronizer
	Certificates  CertificateService
	Notifications NotificationService
	Export        ExportService
}

func NewManager(
	repo repositories.Repository,
	tokens *auth.Manager,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger utils.Logger,
	validator *utils.Validator,
) *Manager {
	resolver := NewMembershipResolver(repo, logger)
	sync := NewParticipationSynchronizer(repo, logger)

	return &Manager{
		Auth:          NewAuthService(repo, tokens, logger, validator),
		Users:         NewUserService(repo, logger, validator),
		Events:        NewEventService(repo, sync, publisher, cacheService, logger, validator),
		Teams:         NewTeamService(repo, resolver, sync, publisher, cacheService, logger, validator),
		Resolver:      resolver,
		Participation: sync,
		Certificates:  NewCertificateService(repo, publisher, logger, validator),
		Notifications: NewNotificationService(repo, publisher, logger, validator),
		Export:        NewExportService(repo, logger),
	}
}
