package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== RESPONSE ENVELOPE =====

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// Response is the wire envelope. status is "success" for 2xx, "fail" for
// client errors and "error" for server faults; results carries the list
// length on collection reads.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Results *int64      `json:"results,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides the shared respond/parse/log helpers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) RespondSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{Status: statusSuccess, Data: data})
}

// RespondList wraps a collection with its length in results.
func (h *BaseHandler) RespondList(c *gin.Context, data interface{}, total int64) {
	c.JSON(http.StatusOK, Response{Status: statusSuccess, Data: data, Results: &total})
}

func (h *BaseHandler) RespondDeleted(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *BaseHandler) RespondFail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Status: statusFail, Message: message})
}

// HandleServiceError maps service errors onto the status taxonomy:
// validation and business conflicts 400, failed auth 401, role rejections
// 403, absent resources 404, anything unclassified 500.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, Response{
			Status:  statusFail,
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var resolutionErr *services.MemberResolutionError
	if errors.As(err, &resolutionErr) {
		c.JSON(http.StatusBadRequest, Response{
			Status:  statusFail,
			Message: resolutionErr.Error(),
			Details: map[string]interface{}{"not_found": resolutionErr.NotFound},
		})
		return
	}

	switch {
	case services.IsValidation(err), services.IsConflict(err):
		h.RespondFail(c, http.StatusBadRequest, err.Error())
	case services.IsUnauthenticated(err):
		h.RespondFail(c, http.StatusUnauthorized, err.Error())
	case services.IsForbidden(err):
		h.RespondFail(c, http.StatusForbidden, "You do not have permission to perform this action")
	case services.IsNotFound(err):
		h.RespondFail(c, http.StatusNotFound, err.Error())
	default:
		h.logger.LogError(err, "Unhandled service error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, Response{
			Status:  statusError,
			Message: "Something went wrong",
		})
	}
}

// ===== PARAM HELPERS =====

// ParseIDParam parses a numeric path parameter, writing the 400 itself.
// A zero return means the response has already been sent.
func (h *BaseHandler) ParseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.RespondFail(c, http.StatusBadRequest, "Invalid "+param)
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) ParseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// Pagination reads the shared limit/offset query parameters.
func (h *BaseHandler) Pagination(c *gin.Context) (limit, offset int) {
	limit = h.ParseIntQuery(c, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	offset = h.ParseIntQuery(c, "offset", 0)
	return limit, offset
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Status: statusSuccess, Data: gin.H{"status": "ok"}})
}
