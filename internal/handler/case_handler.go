package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	"github.com/utiligas/casedesk/internal/service"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/response"
)

// CaseHandler exposes the complaint-case endpoints. Mutating endpoints pair
// the store call with an explicit audit call; the store itself never writes
// audit rows.
type CaseHandler struct {
	cases  *service.CaseService
	audit  *service.AuditService
	logger *zap.Logger
}

// NewCaseHandler constructs CaseHandler.
func NewCaseHandler(cases *service.CaseService, audit *service.AuditService, logger *zap.Logger) *CaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseHandler{cases: cases, audit: audit, logger: logger}
}

// List returns case summaries, optionally restricted by year.
func (h *CaseHandler) List(c *gin.Context) {
	year := strings.TrimSpace(c.DefaultQuery("year", models.YearAll))
	summaries, err := h.cases.List(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries)
}

// Search runs the structured filter over the listing.
func (h *CaseHandler) Search(c *gin.Context) {
	filter := models.CaseSearchFilter{
		Field:     strings.TrimSpace(c.DefaultQuery("field", models.SearchFieldAll)),
		Value:     strings.TrimSpace(c.Query("value")),
		Year:      strings.TrimSpace(c.Query("year")),
		DateBasis: strings.TrimSpace(c.Query("basis")),
	}
	summaries, err := h.cases.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries)
}

// Get returns the full case detail.
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	detail, err := h.cases.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Create registers a new case and records the action on its trail.
func (h *CaseHandler) Create(c *gin.Context) {
	var req service.CaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case payload"))
		return
	}
	actor := actorID(c)
	detail, err := h.cases.Create(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), detail.ID, models.AuditActionCreate,
		fmt.Sprintf("Created case for %s", detail.CustomerName), actor, nil, detail.Case); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", detail.ID), zap.Error(err))
	}
	response.Created(c, detail)
}

// Update saves the full case record and records the action with before and
// after snapshots.
func (h *CaseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	var req service.CaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case payload"))
		return
	}

	before, err := h.cases.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	actor := actorID(c)
	detail, err := h.cases.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), id, models.AuditActionUpdate,
		fmt.Sprintf("Updated case for %s", detail.CustomerName), actor, before.Case, detail.Case); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("case_id", id), zap.Error(err))
	}
	response.JSON(c, http.StatusOK, detail)
}

// Delete removes the case with all dependent rows. The audit trail goes
// with the case, so there is no trail entry to write afterwards.
func (h *CaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	if err := h.cases.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Years lists the distinct calendar years present in the store.
func (h *CaseHandler) Years(c *gin.Context) {
	years, err := h.cases.Years(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years)
}

// Statistics returns the aggregate counters.
func (h *CaseHandler) Statistics(c *gin.Context) {
	stats, err := h.cases.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// StatusOptions lists the fixed status vocabulary.
func (h *CaseHandler) StatusOptions(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.StatusOptions())
}

// History returns the case's audit trail.
func (h *CaseHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid case id"))
		return
	}
	entries, err := h.audit.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}
