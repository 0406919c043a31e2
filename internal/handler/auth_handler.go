package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utiligas/casedesk/internal/service"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/response"
)

// AuthHandler exposes the login gate.
type AuthHandler struct {
	employees *service.EmployeeService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(employees *service.EmployeeService) *AuthHandler {
	return &AuthHandler{employees: employees}
}

// Login exchanges a performance number for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid login payload"))
		return
	}
	result, err := h.employees.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
