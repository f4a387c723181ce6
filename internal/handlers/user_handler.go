package handlers

import (
	"net/http"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the college, teacher and student resources from one
// set of handlers; the role is fixed per route group at registration time.
type UserHandler struct {
	BaseHandler
	userService services.UserService
	role        models.UserRole
}

func NewUserHandler(userService services.UserService, role models.UserRole, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		role:        role,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Role = h.role

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id, h.role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	role := h.role
	filters := repositories.UserFilters{
		Role:      &role,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		// Deactivated accounts stay out of listings.
		ActiveOnly: true,
	}
	filters.Limit, filters.Offset = h.Pagination(c)

	if v := uint(h.ParseIntQuery(c, "college_id", 0)); v != 0 {
		filters.CollegeID = &v
	}
	if v := c.Query("department"); v != "" {
		filters.Department = &v
	}

	users, total, err := h.userService.List(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, users, total)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, h.role, &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, h.role, principal); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}
