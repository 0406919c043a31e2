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

// EmployeeHandler exposes the roster endpoints. Roster mutations are
// recorded on the audit trail without a case reference.
type EmployeeHandler struct {
	employees *service.EmployeeService
	audit     *service.AuditService
	logger    *zap.Logger
}

// NewEmployeeHandler constructs EmployeeHandler.
func NewEmployeeHandler(employees *service.EmployeeService, audit *service.AuditService, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{employees: employees, audit: audit, logger: logger}
}

// List returns the roster, excluding the administrator.
func (h *EmployeeHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"
	list, err := h.employees.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Create registers a new employee and records the action.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid employee payload"))
		return
	}
	emp, err := h.employees.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), 0, models.AuditActionAddEmployee,
		fmt.Sprintf("Added employee %s", emp.Name), actorID(c), nil, emp); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("employee_id", emp.ID), zap.Error(err))
	}
	response.Created(c, emp)
}

// Deactivate flips the active flag without removing the row, and records
// the action.
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid employee id"))
		return
	}
	emp, err := h.employees.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.employees.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.LogAction(c.Request.Context(), 0, models.AuditActionDeactivateEmployee,
		fmt.Sprintf("Deactivated employee %s", emp.Name), actorID(c), emp, nil); err != nil {
		h.logger.Warn("audit record failed", zap.Int64("employee_id", id), zap.Error(err))
	}
	response.NoContent(c)
}
