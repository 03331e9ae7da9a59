package handler

import (
	"time"

	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/service"
)

// ListEntriesQuery holds the query parameters of the recent entries list.
type ListEntriesQuery struct {
	Limit              int  `form:"limit,default=20" binding:"min=0,max=500"`
	IncludeWithdrawals bool `form:"include_withdrawals,default=true"`
}

// EntryListResponse represents a list of entries in API responses
type EntryListResponse struct {
	Entries []entry.Document `json:"entries"`
}

// SetRateRequest sets one currency rate.
type SetRateRequest struct {
	Rate float64 `json:"rate" binding:"required"`
}

// ApplyChangesRequest carries changes previously returned by a rate check.
type ApplyChangesRequest struct {
	Changes []fx.Change `json:"changes" binding:"required"`
}

// CurrencyTableResponse represents the currency table in API responses
type CurrencyTableResponse struct {
	Table      *fx.Table  `json:"fx"`
	LastSyncAt *time.Time `json:"lastSyncAt"`
}

// RateCheckResponse represents the outcome of a rate check
type RateCheckResponse struct {
	Changes   []fx.Change `json:"changes"`
	CheckedAt time.Time   `json:"checkedAt"`
}

// RangeQuery holds the bounds of a range report, both included.
type RangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// DayReportResponse represents one day total
type DayReportResponse struct {
	Date     string  `json:"date"`
	TotalILS float64 `json:"totalILS"`
}

// RangeReportResponse represents per-day totals over a range
type RangeReportResponse struct {
	From     string             `json:"from"`
	To       string             `json:"to"`
	Days     []service.DayTotal `json:"days"`
	TotalILS float64            `json:"totalILS"`
}

func toEntryList(entries []*entry.Entry) EntryListResponse {
	docs := make([]entry.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.ToDocument())
	}
	return EntryListResponse{Entries: docs}
}
