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

// CorrespondenceHandler exposes per-case correspondence endpoints.
type CorrespondenceHandler struct {
	correspondences *service.CorrespondenceService
	audit           *service.AuditService
	logger          *zap.Logger
}

// NewCorrespondenceHandler constructs CorrespondenceHandler.
func NewCorrespondenceHandler(correspondences *service.CorrespondenceService, audit *service.AuditService, logger *zap.Logger) *CorrespondenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorrespondenceHandler{correspondences: correspondences, audit: audit, logger: logger}
}

// List returns the case's correspondence.
func (h *CorrespondenceHandler) List(c *gin.Context) {
	caseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	list, err := h.correspondences.ListByCase(c.Request.Context(), caseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// NextSequence previews the sequence pair the next correspondence would get.
func (h *CorrespondenceHandler) NextSequence(c *gin.Context) {
	caseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	seq, err := h.correspondences.NextSequenceNumbers(c.Request.Context(), caseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seq)
}

// Create adds a correspondence to the case and records the action.
func (h *CorrespondenceHandler) Create(c *gin.Context) {
	caseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	var req service.CorrespondenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid correspondence payload"))
		return
	}

	actor := actorID(c)
	co, err := h.correspondences.Add(c.Request.Context(), caseID, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), caseID, models.AuditActionAddCorrespondence,
		fmt.Sprintf("Added correspondence %s", co.YearlySequenceNumber), actor, nil, co); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", caseID), zap.Error(err))
	}
	response.Created(c, co)
}

type updateCorrespondenceRequest struct {
	MessageContent string `json:"message_content"`
}

// Update edits the message content of one correspondence.
func (h *CorrespondenceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "correspondenceId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid correspondence id"))
		return
	}
	var req updateCorrespondenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid correspondence payload"))
		return
	}

	before, err := h.correspondences.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	actor := actorID(c)
	co, err := h.correspondences.UpdateContent(c.Request.Context(), id, req.MessageContent)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), co.CaseID, models.AuditActionUpdateCorrespondence,
		fmt.Sprintf("Updated correspondence %s", co.YearlySequenceNumber), actor, before, co); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", co.CaseID), zap.Error(err))
	}
	response.JSON(c, http.StatusOK, co)
}

// Delete removes one correspondence and records the action.
func (h *CorrespondenceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "correspondenceId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid correspondence id"))
		return
	}

	actor := actorID(c)
	co, err := h.correspondences.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), co.CaseID, models.AuditActionDeleteCorrespondence,
		fmt.Sprintf("Deleted correspondence %s", co.YearlySequenceNumber), actor, co, nil); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", co.CaseID), zap.Error(err))
	}
	response.NoContent(c)
}
