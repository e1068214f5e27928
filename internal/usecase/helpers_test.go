package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testQuery = domain.RateQuery{Asset: "USDT", Fiat: "VES", Side: domain.SideBuy}

func quoteAt(price string, at time.Time) domain.RateQuote {
	return domain.RateQuote{
		Price:            decimal.RequireFromString(price),
		BaseAsset:        "USDT",
		QuoteCurrency:    "VES",
		CounterpartyName: "trader",
		Side:             domain.SideBuy,
		FetchedAt:        at,
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeFetcher counts calls. When gate is set, Fetch blocks until it is closed.
type fakeFetcher struct {
	calls   atomic.Int32
	started chan struct{}

	mu    sync.Mutex
	quote domain.RateQuote
	err   error
	gate  chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{started: make(chan struct{}, 64)}
}

func (f *fakeFetcher) set(quote domain.RateQuote, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quote = quote
	f.err = err
}

func (f *fakeFetcher) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ domain.RateQuery) (domain.RateQuote, error) {
	f.calls.Add(1)
	select {
	case f.started <- struct{}{}:
	default:
	}

	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.RateQuote{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quote, f.err
}

// waitStarted consumes n fetch starts or fails the test.
func (f *fakeFetcher) waitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.started:
		case <-time.After(time.Second):
			t.Fatalf("fetch %d of %d did not start", i+1, n)
		}
	}
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: make(map[string]int)}
}

func (m *recordingMetrics) inc(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *recordingMetrics) CacheHit(string)                         { m.inc("hit") }
func (m *recordingMetrics) CacheStale(string)                       { m.inc("stale") }
func (m *recordingMetrics) CacheMiss(string)                        { m.inc("miss") }
func (m *recordingMetrics) FetchResult(string, bool, time.Duration) {}

func (m *recordingMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

// blockingListener holds every notification until release is closed.
type blockingListener struct {
	release     chan struct{}
	hadDeadline atomic.Bool
	notified    atomic.Int32
}

func (l *blockingListener) OnRateUpdated(ctx context.Context, _ domain.RateQuery, _ domain.RateQuote) {
	_, ok := ctx.Deadline()
	l.hadDeadline.Store(ok)
	<-l.release
	l.notified.Add(1)
}

type recordingListener struct {
	mu     sync.Mutex
	quotes []domain.RateQuote
}

func (l *recordingListener) OnRateUpdated(_ context.Context, _ domain.RateQuery, quote domain.RateQuote) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quotes = append(l.quotes, quote)
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.quotes)
}

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) GetOverrides(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	overrides, _ := args.Get(0).(map[string]bool)
	return overrides, args.Error(1)
}

func (m *mockSettingsRepo) SetOverride(ctx context.Context, key string, enabled bool) error {
	args := m.Called(ctx, key, enabled)
	return args.Error(0)
}

func (m *mockSettingsRepo) DeleteOverride(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockLayoutRepo struct {
	mock.Mock
}

func (m *mockLayoutRepo) GetOrder(ctx context.Context, userID uuid.UUID) (*domain.LayoutOrder, error) {
	args := m.Called(ctx, userID)
	order, _ := args.Get(0).(*domain.LayoutOrder)
	return order, args.Error(1)
}

func (m *mockLayoutRepo) SaveOrder(ctx context.Context, order *domain.LayoutOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockLayoutRepo) DeleteOrder(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
