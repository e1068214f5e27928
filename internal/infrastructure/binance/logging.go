package binance

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"go.uber.org/zap"
)

// loggingFetcher decorates a domain.RateFetcher with logging
type loggingFetcher struct {
	next   domain.RateFetcher
	logger *zap.Logger
}

func NewLoggingFetcher(logger *zap.Logger, next domain.RateFetcher) domain.RateFetcher {
	return &loggingFetcher{
		next:   next,
		logger: logger,
	}
}

func (f *loggingFetcher) Fetch(ctx context.Context, query domain.RateQuery) (quote domain.RateQuote, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("method", "fetch"),
			zap.String("key", query.CacheKey()),
			zap.Duration("took", time.Since(begin)),
		}
		if err != nil {
			f.logger.Warn("rate fetch failed", append(fields, zap.Error(err))...)
			return
		}
		f.logger.Debug("rate fetched", append(fields,
			zap.String("price", quote.Price.String()),
			zap.String("counterparty", quote.CounterpartyName),
		)...)
	}(time.Now())
	return f.next.Fetch(ctx, query)
}
