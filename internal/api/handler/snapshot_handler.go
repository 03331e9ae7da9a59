package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/service"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SnapshotHandler handles export, import and reset of the whole ledger
type SnapshotHandler struct {
	snapshotService service.SnapshotService
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(logger *slog.Logger, snapshotService service.SnapshotService, settingsService service.SettingsService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// Export downloads the snapshot document itself, without the envelope, so
// it can be imported again as is.
func (h *SnapshotHandler) Export(c *gin.Context) {
	snap, err := h.snapshotService.Export(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to export snapshot", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"travel_ledger_%s.json\"", snap.ExportedAt.Format("20060102")))
	c.JSON(http.StatusOK, snap)
}

// Import applies an uploaded snapshot document.
func (h *SnapshotHandler) Import(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondBadRequest(c, "Failed to read request body: "+err.Error())
		return
	}

	result, err := h.snapshotService.Import(c.Request.Context(), raw)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to import snapshot", err)
		return
	}
	RespondOK(c, result)
}

// Workbook downloads every entry as an XLSX file. The file is built in
// memory first so a failure can still be reported as JSON.
func (h *SnapshotHandler) Workbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.snapshotService.ExportWorkbook(c.Request.Context(), &buf); err != nil {
		RespondServiceError(c, h.logger, "Failed to export workbook", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"travel_ledger_%s.xlsx\"", time.Now().Format("20060102")))
	c.Data(http.StatusOK, workbookContentType, buf.Bytes())
}

// Reset deletes every entry and setting.
func (h *SnapshotHandler) Reset(c *gin.Context) {
	if err := h.settingsService.ResetAll(c.Request.Context()); err != nil {
		RespondServiceError(c, h.logger, "Failed to reset local data", err)
		return
	}
	RespondNoContent(c)
}
