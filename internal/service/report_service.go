package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/travel-ledger/internal/aggregate"
	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
)

// MaxRangeDays bounds the number of days a single range report covers.
const MaxRangeDays = 1000

// DayTotal is the rounded base currency spend of one day.
type DayTotal struct {
	Date     date.Date `json:"date"`
	TotalILS float64   `json:"totalILS"`
}

type WorkerPoolConfig struct {
	Size int
}

// ReportServiceImpl implements the ReportService interface. Range reports
// compute each day on a shared worker pool.
type ReportServiceImpl struct {
	entryRepo entry.Repository
	pool      *ants.Pool
	logger    *slog.Logger
}

// NewReportService creates a report service and its worker pool.
func NewReportService(logger *slog.Logger, entryRepo entry.Repository, config WorkerPoolConfig) (*ReportServiceImpl, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}
	return &ReportServiceImpl{
		entryRepo: entryRepo,
		pool:      pool,
		logger:    logger,
	}, nil
}

// SpendForDay returns the total spend attributed to day.
func (s *ReportServiceImpl) SpendForDay(ctx context.Context, day date.Date) (float64, error) {
	entries, err := s.entryRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return aggregate.SpendForDay(entries, day), nil
}

// SpendForRange returns one total per day from from to to, both included,
// in date order.
func (s *ReportServiceImpl) SpendForRange(ctx context.Context, from, to date.Date) ([]DayTotal, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange, from, to)
	}
	days := to.DaysSince(from) + 1
	if days > MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days exceeds the limit of %d", ErrInvalidRange, days, MaxRangeDays)
	}

	entries, err := s.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make([]DayTotal, days)
	var wg sync.WaitGroup
	for i := range totals {
		day := from.Add(i)
		wg.Add(1)
		// Each task writes only its own slot.
		err := s.pool.Submit(func() {
			defer wg.Done()
			totals[i] = DayTotal{Date: day, TotalILS: aggregate.SpendForDay(entries, day)}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			s.logger.Error("Failed to submit day to worker pool",
				"date", day.String(),
				"error", err,
			)
			return nil, err
		}
	}
	wg.Wait()

	return totals, nil
}

// Shutdown releases the worker pool.
func (s *ReportServiceImpl) Shutdown() {
	s.logger.Info("Shutting down report worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *ReportServiceImpl) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *ReportServiceImpl) Capacity() int {
	return s.pool.Cap()
}
