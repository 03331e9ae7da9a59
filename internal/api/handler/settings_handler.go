package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/service"
)

// SettingsHandler exposes the settings store by key
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(logger *slog.Logger, settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get returns the raw value stored under the key, null when unset.
func (h *SettingsHandler) Get(c *gin.Context) {
	value, err := h.settingsService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to read setting", err)
		return
	}
	if value == nil {
		value = json.RawMessage("null")
	}
	RespondOK(c, gin.H{"key": c.Param("key"), "value": value})
}

// Set stores the request body under the key.
func (h *SettingsHandler) Set(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondBadRequest(c, "Failed to read request body: "+err.Error())
		return
	}
	if !json.Valid(raw) {
		RespondBadRequest(c, "Request body must be a JSON value")
		return
	}

	if err := h.settingsService.Set(c.Request.Context(), c.Param("key"), raw); err != nil {
		RespondServiceError(c, h.logger, "Failed to store setting", err)
		return
	}
	RespondNoContent(c)
}
