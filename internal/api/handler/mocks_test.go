package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/service"
)

type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) Save(ctx context.Context, req *service.SaveEntryRequest) (*entry.Entry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryService) Get(ctx context.Context, entryID string) (*entry.Entry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryService) Delete(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockEntryService) ListRecent(ctx context.Context, limit int, includeWithdrawals bool) ([]*entry.Entry, error) {
	args := m.Called(ctx, limit, includeWithdrawals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entry.Entry), args.Error(1)
}

type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) Initialize(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCurrencyService) ToBase(amount float64, code string) (float64, bool) {
	args := m.Called(amount, code)
	return args.Get(0).(float64), args.Bool(1)
}

func (m *MockCurrencyService) Table() *fx.Table {
	return m.Called().Get(0).(*fx.Table)
}

func (m *MockCurrencyService) SetRate(ctx context.Context, code string, rate float64) error {
	return m.Called(ctx, code, rate).Error(0)
}

func (m *MockCurrencyService) Reconcile(external map[string]float64) []fx.Change {
	return m.Called(external).Get(0).([]fx.Change)
}

func (m *MockCurrencyService) CheckRates(ctx context.Context) fx.Reconciliation {
	return m.Called(ctx).Get(0).(fx.Reconciliation)
}

func (m *MockCurrencyService) ApplyReconciliation(ctx context.Context, changes []fx.Change) error {
	return m.Called(ctx, changes).Error(0)
}

func (m *MockCurrencyService) RestoreDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCurrencyService) Replace(ctx context.Context, table *fx.Table) error {
	return m.Called(ctx, table).Error(0)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockSettingsService) Set(ctx context.Context, key string, value json.RawMessage) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockSettingsService) LastSyncAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockSettingsService) RestoreDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSettingsService) ResetAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
