package handlers

import (
	"net/http"
	"strings"

	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	BaseHandler
	certificateService services.CertificateService
}

func NewCertificateHandler(certificateService services.CertificateService, logger utils.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        NewBaseHandler(logger),
		certificateService: certificateService,
	}
}

func (h *CertificateHandler) Issue(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req services.IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	cert, err := h.certificateService.Issue(c.Request.Context(), &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, cert)
}

func (h *CertificateHandler) Get(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	cert, err := h.certificateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, cert)
}

// Verify is the public lookup by verification code.
func (h *CertificateHandler) Verify(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		h.RespondFail(c, http.StatusBadRequest, "Invalid code")
		return
	}

	cert, err := h.certificateService.Verify(c.Request.Context(), strings.ToUpper(code))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, cert)
}

func (h *CertificateHandler) ListByEvent(c *gin.Context) {
	eventID := h.ParseIDParam(c, "event_id")
	if eventID == 0 {
		return
	}

	certs, err := h.certificateService.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, certs, int64(len(certs)))
}

func (h *CertificateHandler) ListByStudent(c *gin.Context) {
	studentID := h.ParseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	certs, err := h.certificateService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondList(c, certs, int64(len(certs)))
}

func (h *CertificateHandler) Revoke(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	if err := h.certificateService.Revoke(c.Request.Context(), id, principal); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondDeleted(c)
}
