package ratesource

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-ledger/internal/config"
)

func newTestClient(url string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(logger, &config.FXConfig{SourceURL: url, RatesPath: "$.rates"}, nil)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchRates(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"amount":1.0,"base":"ILS","date":"2024-05-01","rates":{"USD":0.2688,"EUR":0.25,"THB":9.85,"XXX":"n/a"}}`)

	rates, err := newTestClient(srv.URL).FetchRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"USD": 0.2688, "EUR": 0.25, "THB": 9.85}, rates)
}

func TestClient_FetchRates_Errors(t *testing.T) {
	t.Run("NonSuccessStatus", func(t *testing.T) {
		srv := serve(t, http.StatusServiceUnavailable, `{}`)

		_, err := newTestClient(srv.URL).FetchRates(context.Background())
		var statusErr ErrUnexpectedStatus
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	})

	t.Run("MissingRates", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"message":"not found"}`)

		_, err := newTestClient(srv.URL).FetchRates(context.Background())
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("RatesNotAnObject", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"rates":[1,2,3]}`)

		_, err := newTestClient(srv.URL).FetchRates(context.Background())
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("NotJSON", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `<html>`)

		_, err := newTestClient(srv.URL).FetchRates(context.Background())
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("Offline", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()

		_, err := newTestClient(url).FetchRates(context.Background())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestExtractRates_CustomPath(t *testing.T) {
	body := map[string]any{
		"data": map[string]any{
			"quotes": map[string]any{"USD": 0.27},
		},
	}
	rates, err := extractRates("$.data.quotes", body)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"USD": 0.27}, rates)
}
