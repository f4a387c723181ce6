package handlers

import (
	"github.com/UniFest-2025/event-service/internal/auth"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	teamHandler         *TeamHandler
	eventHandler        *EventHandler
	collegeHandler      *UserHandler
	teacherHandler      *UserHandler
	studentHandler      *UserHandler
	certificateHandler  *CertificateHandler
	notificationHandler *NotificationHandler

	tokens      *auth.Manager
	authService services.AuthService
}

func NewHandlerManager(manager *services.Manager, tokens *auth.Manager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(manager.Auth, logger),
		teamHandler:         NewTeamHandler(manager.Teams, logger),
		eventHandler:        NewEventHandler(manager.Events, manager.Export, logger),
		collegeHandler:      NewUserHandler(manager.Users, models.RoleCollege, logger),
		teacherHandler:      NewUserHandler(manager.Users, models.RoleTeacher, logger),
		studentHandler:      NewUserHandler(manager.Users, models.RoleStudent, logger),
		certificateHandler:  NewCertificateHandler(manager.Certificates, logger),
		notificationHandler: NewNotificationHandler(manager.Notifications, logger),
		tokens:              tokens,
		authService:         manager.Auth,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	authed := AuthMiddleware(hm.tokens, hm.authService)
	collegeOrAdmin := RequireRoles(models.RoleCollege, models.RoleSuperAdmin)
	issuerRoles := RequireRoles(models.RoleTeacher, models.RoleCollege, models.RoleSuperAdmin)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", hm.authHandler.Login)
			authGroup.PATCH("/reset-password", authed, hm.authHandler.ResetPassword)
		}

		teams := v1.Group("/teams")
		{
			teams.POST("", authed, hm.teamHandler.CreateTeam)
			teams.GET("/:id", hm.teamHandler.GetTeam)
			teams.POST("/:id/members", authed, hm.teamHandler.AddMember)
			teams.DELETE("/:id/members/:member_id", authed, hm.teamHandler.RemoveMember)
			teams.DELETE("/:id", authed, collegeOrAdmin, hm.teamHandler.DeleteTeam)
			teams.GET("/event/:event_id", hm.teamHandler.GetTeamsByEvent)
			teams.GET("/college/:college_id", hm.teamHandler.GetTeamsByCollege)
		}

		events := v1.Group("/events")
		{
			events.GET("", hm.eventHandler.ListEvents)
			events.GET("/:id", hm.eventHandler.GetEvent)
			events.GET("/college/:college_id", hm.eventHandler.ListEventsByCollege)
			events.POST("", authed, collegeOrAdmin, hm.eventHandler.CreateEvent)
			events.PATCH("/:id", authed, collegeOrAdmin, hm.eventHandler.UpdateEvent)
			events.DELETE("/:id", authed, collegeOrAdmin, hm.eventHandler.DeleteEvent)

			events.POST("/:id/participants", authed, hm.eventHandler.RegisterParticipant)
			events.DELETE("/:id/participants/:student_id", authed, hm.eventHandler.UnregisterParticipant)
			events.PATCH("/:id/results", authed, collegeOrAdmin, hm.eventHandler.PublishResults)
			events.GET("/:id/report", authed, issuerRoles, hm.eventHandler.ExportReport)
		}

		certificates := v1.Group("/certificates")
		{
			certificates.GET("/verify/:code", hm.certificateHandler.Verify)
			certificates.POST("", authed, issuerRoles, hm.certificateHandler.Issue)
			certificates.GET("/:id", authed, hm.certificateHandler.Get)
			certificates.GET("/event/:event_id", authed, hm.certificateHandler.ListByEvent)
			certificates.GET("/student/:student_id", authed, hm.certificateHandler.ListByStudent)
			certificates.DELETE("/:id", authed, issuerRoles, hm.certificateHandler.Revoke)
		}

		colleges := v1.Group("/colleges")
		{
			colleges.GET("", hm.collegeHandler.List)
			colleges.GET("/:id", hm.collegeHandler.Get)
			colleges.POST("", hm.collegeHandler.Create)
			colleges.PATCH("/:id", authed, hm.collegeHandler.Update)
			colleges.DELETE("/:id", authed, hm.collegeHandler.Delete)
		}

		students := v1.Group("/students")
		{
			students.GET("", authed, hm.studentHandler.List)
			students.GET("/:id", authed, hm.studentHandler.Get)
			students.POST("", hm.studentHandler.Create)
			students.PATCH("/:id", authed, hm.studentHandler.Update)
			students.DELETE("/:id", authed, hm.studentHandler.Delete)
		}

		teachers := v1.Group("/teachers")
		{
			teachers.GET("", authed, collegeOrAdmin, hm.teacherHandler.List)
			teachers.GET("/:id", authed, hm.teacherHandler.Get)
			teachers.POST("", authed, collegeOrAdmin, hm.teacherHandler.Create)
			teachers.PATCH("/:id", authed, hm.teacherHandler.Update)
			teachers.DELETE("/:id", authed, collegeOrAdmin, hm.teacherHandler.Delete)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", authed, hm.notificationHandler.List)
			notifications.GET("/:id", authed, hm.notificationHandler.Get)
			notifications.POST("", authed, issuerRoles, hm.notificationHandler.Send)
			notifications.PATCH("/:id/read", authed, hm.notificationHandler.MarkRead)
			notifications.DELETE("/:id", authed, issuerRoles, hm.notificationHandler.Delete)
		}
	}
}
