package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/api/middleware"
	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/service"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Data          any        `json:"data,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

func RespondOK(c *gin.Context, data any) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data any) {
	RespondWithData(c, http.StatusCreated, data)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondBadGateway reports that the external rate source failed.
func RespondBadGateway(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadGateway, "RATE_SOURCE_UNAVAILABLE", message)
}

func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

var badRequestErrors = []error{
	entry.ErrInvalidEntry,
	entry.ErrInvalidSpan,
	entry.ErrInvalidAmount,
	fx.ErrInvalidRate,
	fx.ErrBaseRateImmutable,
	fx.ErrUnknownCurrency,
	service.ErrUnknownCategory,
	service.ErrInvalidSnapshot,
	service.ErrUnsupportedSchema,
	service.ErrInvalidRange,
	service.ErrInvalidSetting,
}

// RespondServiceError maps a service error onto a status code. Input errors
// carry their message to the client; anything else is logged and hidden
// behind a generic 500.
func RespondServiceError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, entry.ErrEntryNotFound{}):
		RespondNotFound(c, err.Error())
		return
	case errors.Is(err, service.ErrUnknownSetting):
		RespondNotFound(c, err.Error())
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			RespondBadRequest(c, err.Error())
			return
		}
	}

	logger.Error(msg,
		"error", err,
		"correlation_id", middleware.GetCorrelationID(c),
	)
	RespondInternalError(c)
}
