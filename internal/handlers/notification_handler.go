package handlers

import (
	"net/http"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) Send(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req services.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	notification, err := h.notificationService.Send(c.Request.Context(), &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, notification)
}

func (h *NotificationHandler) Get(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	notification, err := h.notificationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, notification)
}

func (h *NotificationHandler) List(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	filters := repositories.NotificationFilters{}
	filters.Limit, filters.Offset = h.Pagination(c)

	// Students only ever see their own notifications.
	if principal.Role == models.RoleStudent {
		filters.StudentID = &principal.ID
	} else if v := uint(h.ParseIntQuery(c, "student_id", 0)); v != 0 {
		filters.StudentID = &v
	}
	if v := c.Query("type"); v != "" {
		notificationType := models.NotificationType(v)
		filters.Type = &notificationType
	}
	if v := c.Query("status"); v != "" {
		status := models.NotificationStatus(v)
		filters.Status = &status
	}
	if v := uint(h.ParseIntQuery(c, "event_id", 0)); v != 0 {
		filters.EventID = &v
	}

	notifications, total, err := h.notificationService.List(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, notifications, total)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, gin.H{"id": id, "status": models.NotificationRead})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}
