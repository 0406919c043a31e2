package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/response"
)

// CategoryLister is the read surface the taxonomy endpoint needs.
type CategoryLister interface {
	List(ctx context.Context) ([]models.IssueCategory, error)
}

// CategoryHandler exposes the read-only issue taxonomy.
type CategoryHandler struct {
	categories CategoryLister
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(categories CategoryLister) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List returns all issue categories.
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories"))
		return
	}
	response.JSON(c, http.StatusOK, list)
}
