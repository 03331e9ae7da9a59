package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/service"
)

// FXHandler handles HTTP requests for the currency table
type FXHandler struct {
	currencyService service.CurrencyService
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewFXHandler creates a new currency table handler
func NewFXHandler(logger *slog.Logger, currencyService service.CurrencyService, settingsService service.SettingsService) *FXHandler {
	return &FXHandler{
		currencyService: currencyService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get returns the current table and the stored sync marker.
func (h *FXHandler) Get(c *gin.Context) {
	lastSync, err := h.settingsService.LastSyncAt(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to read last sync time", err)
		return
	}
	RespondOK(c, CurrencyTableResponse{Table: h.currencyService.Table(), LastSyncAt: lastSync})
}

// SetRate sets one rate by hand.
func (h *FXHandler) SetRate(c *gin.Context) {
	var req SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.currencyService.SetRate(c.Request.Context(), c.Param("code"), req.Rate); err != nil {
		RespondServiceError(c, h.logger, "Failed to set rate", err)
		return
	}
	RespondOK(c, h.currencyService.Table())
}

// Check compares the table with the external source without changing it.
// A source failure answers 502.
func (h *FXHandler) Check(c *gin.Context) {
	result := h.currencyService.CheckRates(c.Request.Context())
	if result.Err != nil {
		h.logger.Warn("Rate check failed", "error", result.Err)
		RespondBadGateway(c, "Rate check failed: "+result.Err.Error())
		return
	}

	changes := result.Changes
	if changes == nil {
		changes = []fx.Change{}
	}
	RespondOK(c, RateCheckResponse{Changes: changes, CheckedAt: result.CheckedAt})
}

// Apply applies changes returned by an earlier check.
func (h *FXHandler) Apply(c *gin.Context) {
	var req ApplyChangesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.currencyService.ApplyReconciliation(c.Request.Context(), req.Changes); err != nil {
		RespondServiceError(c, h.logger, "Failed to apply rate changes", err)
		return
	}
	RespondOK(c, h.currencyService.Table())
}

// Restore resets the table to the built-in rates and clears lastSyncAt.
func (h *FXHandler) Restore(c *gin.Context) {
	if err := h.settingsService.RestoreDefaults(c.Request.Context()); err != nil {
		RespondServiceError(c, h.logger, "Failed to restore default rates", err)
		return
	}
	RespondOK(c, h.currencyService.Table())
}
