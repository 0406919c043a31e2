package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/response"
	"github.com/utiligas/casedesk/pkg/settings"
)

// SettingsHandler exposes the small JSON settings side file.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the current settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	cfg, err := h.store.Load()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings"))
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}

// Update replaces the recognized settings keys, preserving unknown ones.
func (h *SettingsHandler) Update(c *gin.Context) {
	var cfg settings.Settings
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid settings payload"))
		return
	}
	if err := h.store.Save(cfg); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings"))
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}
