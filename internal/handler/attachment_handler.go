package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	"github.com/utiligas/casedesk/internal/service"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/response"
)

// AttachmentHandler exposes per-case attachment endpoints.
type AttachmentHandler struct {
	attachments *service.AttachmentService
	audit       *service.AuditService
	logger      *zap.Logger
}

// NewAttachmentHandler constructs AttachmentHandler.
func NewAttachmentHandler(attachments *service.AttachmentService, audit *service.AuditService, logger *zap.Logger) *AttachmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentHandler{attachments: attachments, audit: audit, logger: logger}
}

// List returns the case's attachments.
func (h *AttachmentHandler) List(c *gin.Context) {
	caseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	list, err := h.attachments.ListByCase(c.Request.Context(), caseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Create attaches a file to the case and records the action.
func (h *AttachmentHandler) Create(c *gin.Context) {
	caseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	var req service.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid attachment payload"))
		return
	}

	actor := actorID(c)
	a, err := h.attachments.Add(c.Request.Context(), caseID, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), caseID, models.AuditActionAddAttachment,
		fmt.Sprintf("Added attachment %s", a.FileName), actor, nil, a); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", caseID), zap.Error(err))
	}
	response.Created(c, a)
}

// Delete removes an attachment record and records the action. The file on
// disk stays in place.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "attachmentId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid attachment id"))
		return
	}

	actor := actorID(c)
	a, err := h.attachments.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), a.CaseID, models.AuditActionDeleteAttachment,
		fmt.Sprintf("Deleted attachment %s", a.FileName), actor, a, nil); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", a.CaseID), zap.Error(err))
	}
	response.NoContent(c)
}
