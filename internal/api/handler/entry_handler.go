package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/service"
)

// EntryHandler handles HTTP requests for entry operations
type EntryHandler struct {
	entryService service.EntryService
	logger       *slog.Logger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(logger *slog.Logger, entryService service.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		logger:       logger,
	}
}

// Create records a new entry. Any entryId in the body is ignored.
func (h *EntryHandler) Create(c *gin.Context) {
	var req service.SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.EntryID = ""

	saved, err := h.entryService.Save(c.Request.Context(), &req)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to create entry", err)
		return
	}
	RespondCreated(c, saved.ToDocument())
}

// Update replaces an existing entry as a whole.
func (h *EntryHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.entryService.Get(c.Request.Context(), id); err != nil {
		RespondServiceError(c, h.logger, "Failed to load entry", err)
		return
	}

	req.EntryID = id
	saved, err := h.entryService.Save(c.Request.Context(), &req)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to update entry", err)
		return
	}
	RespondOK(c, saved.ToDocument())
}

// GetByID returns one entry, 404 when unknown.
func (h *EntryHandler) GetByID(c *gin.Context) {
	e, err := h.entryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to get entry", err)
		return
	}
	RespondOK(c, e.ToDocument())
}

// Delete removes an entry. Deleting an unknown id succeeds.
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.entryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondServiceError(c, h.logger, "Failed to delete entry", err)
		return
	}
	RespondNoContent(c)
}

// ListRecent returns the newest entries first.
func (h *EntryHandler) ListRecent(c *gin.Context) {
	var query ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.entryService.ListRecent(c.Request.Context(), query.Limit, query.IncludeWithdrawals)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to list entries", err)
		return
	}
	RespondOK(c, toEntryList(entries))
}
