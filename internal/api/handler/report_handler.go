package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/aggregate"
	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/service"
)

// ReportHandler handles HTTP requests for daily spend reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Day returns the spend attributed to one day.
func (h *ReportHandler) Day(c *gin.Context) {
	day, err := date.Parse(c.Param("date"))
	if err != nil {
		RespondBadRequest(c, "Invalid date: "+err.Error())
		return
	}

	total, err := h.reportService.SpendForDay(c.Request.Context(), day)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to compute day total", err)
		return
	}
	RespondOK(c, DayReportResponse{Date: day.String(), TotalILS: total})
}

// Range returns one total per day between from and to.
func (h *ReportHandler) Range(c *gin.Context) {
	var query RangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	from, err := date.Parse(query.From)
	if err != nil {
		RespondBadRequest(c, "Invalid from date: "+err.Error())
		return
	}
	to, err := date.Parse(query.To)
	if err != nil {
		RespondBadRequest(c, "Invalid to date: "+err.Error())
		return
	}

	days, err := h.reportService.SpendForRange(c.Request.Context(), from, to)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to compute range totals", err)
		return
	}

	var sum float64
	for _, d := range days {
		sum += d.TotalILS
	}
	RespondOK(c, RangeReportResponse{
		From:     from.String(),
		To:       to.String(),
		Days:     days,
		TotalILS: aggregate.Round(sum),
	})
}
