package background

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/usecase"
	"go.uber.org/zap"
)

// BackgroundTasks keeps the configured rate queries warm so that the first
// dashboard render after a quiet period does not pay for a cold fetch.
// Reads go through the cache, so refreshes stay deduplicated.
type BackgroundTasks struct {
	Rates    usecase.RateSource
	Queries  []domain.RateQuery
	Interval time.Duration
	Logger   *zap.Logger

	wg sync.WaitGroup
}

func NewBackgroundTasks(rates usecase.RateSource, queries []domain.RateQuery, interval time.Duration, logger *zap.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		Rates:    rates,
		Queries:  queries,
		Interval: interval,
		Logger:   logger,
	}
}

// StartAll returns immediately. A non-positive interval disables warming.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.Interval <= 0 || len(bt.Queries) == 0 {
		return
	}
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		bt.startRateWarmup(ctx)
	}()
}

// Wait blocks until the tasks started by StartAll have returned.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startRateWarmup(ctx context.Context) {
	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	bt.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.warm(ctx)
		}
	}
}

func (bt *BackgroundTasks) warm(ctx context.Context) {
	for _, q := range bt.Queries {
		snapshot := bt.Rates.Get(ctx, q)
		if !snapshot.Available {
			bt.Logger.Debug("rate warmup: not available yet", zap.String("key", q.CacheKey()))
		}
	}
}
