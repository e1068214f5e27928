package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) Get(context.Context, domain.RateQuery) domain.RateSnapshot {
	s.calls.Add(1)
	return domain.RateNotAvailable
}

func TestBackgroundTasks_WarmsUntilCancelled(t *testing.T) {
	src := &countingSource{}
	queries := []domain.RateQuery{
		{Asset: "USDT", Fiat: "VES", Side: domain.SideBuy},
		{Asset: "USDT", Fiat: "VES", Side: domain.SideSell},
	}
	bt := NewBackgroundTasks(src, queries, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	bt.StartAll(ctx)

	assert.Eventually(t, func() bool { return src.calls.Load() >= 4 }, time.Second, time.Millisecond)

	cancel()
	bt.Wait()
	after := src.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, src.calls.Load())
}

func TestBackgroundTasks_DisabledWithoutInterval(t *testing.T) {
	src := &countingSource{}
	bt := NewBackgroundTasks(src, []domain.RateQuery{{Asset: "USDT"}}, 0, zap.NewNop())

	bt.StartAll(context.Background())
	bt.Wait()

	assert.Equal(t, int32(0), src.calls.Load())
}
