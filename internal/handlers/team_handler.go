package handlers

import (
	"net/http"

	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	BaseHandler
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService, logger utils.Logger) *TeamHandler {
	return &TeamHandler{
		BaseHandler: NewBaseHandler(logger),
		teamService: teamService,
	}
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req services.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, team)
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, team)
}

func (h *TeamHandler) GetTeamsByEvent(c *gin.Context) {
	eventID := h.ParseIDParam(c, "event_id")
	if eventID == 0 {
		return
	}

	teams, err := h.teamService.GetTeamsByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, teams, int64(len(teams)))
}

func (h *TeamHandler) GetTeamsByCollege(c *gin.Context) {
	collegeID := h.ParseIDParam(c, "college_id")
	if collegeID == 0 {
		return
	}

	teams, err := h.teamService.GetTeamsByCollege(c.Request.Context(), collegeID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, teams, int64(len(teams)))
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var entry services.MemberEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	team, err := h.teamService.AddMember(c.Request.Context(), id, entry)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, team)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	memberID := h.ParseIDParam(c, "member_id")
	if memberID == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), id, memberID, principal); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}
