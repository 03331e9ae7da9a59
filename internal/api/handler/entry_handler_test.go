package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// envelope mirrors Response with the data kept raw for typed decoding.
type envelope struct {
	Data          json.RawMessage `json:"data"`
	Error         *ErrorInfo      `json:"error"`
	CorrelationID string          `json:"correlation_id"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func sampleEntry() *entry.Entry {
	amount := 322.2795
	return &entry.Entry{
		EntryID:          "e-1",
		TimestampCreated: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Date:             date.MustParse("2024-05-01"),
		CategoryID:       "FOOD_DRINK",
		AmountOriginal:   100,
		Currency:         "USD",
		AmountILS:        &amount,
		SyncStatus:       entry.SyncStatusPending,
	}
}

func newEntryRouter(svc service.EntryService) *gin.Engine {
	h := NewEntryHandler(testLogger(), svc)
	router := gin.New()
	router.GET("/entries", h.ListRecent)
	router.POST("/entries", h.Create)
	router.GET("/entries/:id", h.GetByID)
	router.PUT("/entries/:id", h.Update)
	router.DELETE("/entries/:id", h.Delete)
	return router
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestEntryHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("Save", mock.Anything, mock.MatchedBy(func(req *service.SaveEntryRequest) bool {
			return req.EntryID == "" &&
				req.CategoryID == "FOOD_DRINK" &&
				req.Date == date.MustParse("2024-05-01") &&
				req.AmountOriginal == 100 &&
				req.Currency == "USD"
		})).Return(sampleEntry(), nil).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodPost, "/entries",
			`{"entryId":"ignored","date":"2024-05-01","categoryId":"FOOD_DRINK","amountOriginal":100,"currency":"USD"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var doc entry.Document
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &doc))
		assert.Equal(t, "e-1", doc.EntryID)
		assert.Equal(t, "2024-05-01", doc.Date)
		assert.InDelta(t, 322.2795, *doc.AmountILS, 1e-9)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		svc := new(MockEntryService)
		router := newEntryRouter(svc)

		assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPost, "/entries", `{"date":`).Code)
		assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPost, "/entries", `{"date":"2024-13-45"}`).Code)
		svc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("ValidationError", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("Save", mock.Anything, mock.Anything).Return(nil, service.ErrUnknownCategory).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodPost, "/entries", `{"date":"2024-05-01","categoryId":"NOPE"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("StorageError", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("Save", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodPost, "/entries", `{"date":"2024-05-01","categoryId":"OTHER"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "disk full")
	})
}

func TestEntryHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("Get", mock.Anything, "e-1").Return(sampleEntry(), nil).Once()
		svc.On("Save", mock.Anything, mock.MatchedBy(func(req *service.SaveEntryRequest) bool {
			return req.EntryID == "e-1" && req.Notes == "edited"
		})).Return(sampleEntry(), nil).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodPut, "/entries/e-1",
			`{"date":"2024-05-01","categoryId":"FOOD_DRINK","notes":"edited"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("UnknownEntry", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("Get", mock.Anything, "nope").Return(nil, entry.ErrEntryNotFound{EntryID: "nope"}).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodPut, "/entries/nope", `{"date":"2024-05-01","categoryId":"OTHER"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		svc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestEntryHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockEntryService)
	svc.On("Get", mock.Anything, "e-1").Return(sampleEntry(), nil).Once()
	svc.On("Get", mock.Anything, "missing").Return(nil, entry.ErrEntryNotFound{EntryID: "missing"}).Once()
	router := newEntryRouter(svc)

	rr := doJSON(router, http.MethodGet, "/entries/e-1", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(router, http.MethodGet, "/entries/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	env := decodeEnvelope(t, rr)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "entry not found: missing", env.Error.Message)
}

func TestEntryHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockEntryService)
	svc.On("Delete", mock.Anything, "e-1").Return(nil).Once()

	rr := doJSON(newEntryRouter(svc), http.MethodDelete, "/entries/e-1", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestEntryHandler_ListRecent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Defaults", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("ListRecent", mock.Anything, 20, true).Return([]*entry.Entry{sampleEntry()}, nil).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodGet, "/entries", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		var list EntryListResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &list))
		require.Len(t, list.Entries, 1)
		assert.Equal(t, "e-1", list.Entries[0].EntryID)
	})

	t.Run("Query", func(t *testing.T) {
		svc := new(MockEntryService)
		svc.On("ListRecent", mock.Anything, 5, false).Return([]*entry.Entry{}, nil).Once()

		rr := doJSON(newEntryRouter(svc), http.MethodGet, "/entries?limit=5&include_withdrawals=false", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"entries":[]}`, string(decodeEnvelope(t, rr).Data))
		svc.AssertExpectations(t)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		svc := new(MockEntryService)

		rr := doJSON(newEntryRouter(svc), http.MethodGet, "/entries?limit=-1", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
