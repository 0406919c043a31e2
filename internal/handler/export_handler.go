package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/utiligas/casedesk/internal/models"
	"github.com/utiligas/casedesk/internal/service"
	"github.com/utiligas/casedesk/pkg/response"
)

// ExportHandler exposes report generation.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Generate renders the filtered case listing into a CSV or PDF report file.
func (h *ExportHandler) Generate(c *gin.Context) {
	filter := models.CaseSearchFilter{
		Field:     strings.TrimSpace(c.DefaultQuery("field", models.SearchFieldAll)),
		Value:     strings.TrimSpace(c.Query("value")),
		Year:      strings.TrimSpace(c.Query("year")),
		DateBasis: strings.TrimSpace(c.Query("basis")),
	}
	format := c.DefaultQuery("format", service.FormatCSV)

	result, err := h.exports.Generate(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
