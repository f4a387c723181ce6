package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	BaseHandler
	eventService  services.EventService
	exportService services.ExportService
}

func NewEventHandler(eventService services.EventService, exportService services.ExportService, logger utils.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:   NewBaseHandler(logger),
		eventService:  eventService,
		exportService: exportService,
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Superadmins create on behalf of a college via query param.
	collegeID := principal.ID
	if principal.Role == models.RoleSuperAdmin {
		collegeID = uint(h.ParseIntQuery(c, "college_id", 0))
		if collegeID == 0 {
			h.RespondFail(c, http.StatusBadRequest, "college_id query parameter is required")
			return
		}
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req, collegeID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, event)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	filters := h.eventFilters(c)

	events, total, err := h.eventService.ListEvents(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, events, total)
}

func (h *EventHandler) ListEventsByCollege(c *gin.Context) {
	collegeID := h.ParseIDParam(c, "college_id")
	if collegeID == 0 {
		return
	}

	events, total, err := h.eventService.ListEventsByCollege(c.Request.Context(), collegeID, h.eventFilters(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, events, total)
}

func (h *EventHandler) eventFilters(c *gin.Context) repositories.EventFilters {
	filters := repositories.EventFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = h.Pagination(c)

	if v := c.Query("status"); v != "" {
		status := models.EventStatus(v)
		filters.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := models.EventCategory(v)
		filters.Category = &category
	}
	if v := c.Query("type"); v != "" {
		eventType := models.EventType(v)
		filters.Type = &eventType
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.DateTo = &t
		}
	}
	return filters
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), id, &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), id, principal); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}

type registerParticipantRequest struct {
	StudentID uint `json:"student_id"`
}

func (h *EventHandler) RegisterParticipant(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	// Students register themselves; colleges and teachers pass the id.
	studentID := principal.ID
	if principal.Role != models.RoleStudent {
		var req registerParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.StudentID == 0 {
			h.RespondFail(c, http.StatusBadRequest, "student_id is required")
			return
		}
		studentID = req.StudentID
	}

	if err := h.eventService.RegisterParticipant(c.Request.Context(), id, studentID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, gin.H{"event_id": id, "student_id": studentID})
}

func (h *EventHandler) UnregisterParticipant(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	studentID := h.ParseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	if err := h.eventService.UnregisterParticipant(c.Request.Context(), id, studentID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}

func (h *EventHandler) PublishResults(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var results json.RawMessage
	if err := c.ShouldBindJSON(&results); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid results document")
		return
	}

	event, err := h.eventService.PublishResults(c.Request.Context(), id, results, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, event)
}

// ExportReport streams the participants/teams workbook.
func (h *EventHandler) ExportReport(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, filename, err := h.exportService.ExportEventReport(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
