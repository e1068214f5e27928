package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RateFetchedEvent is one row of the rate history table.
type RateFetchedEvent struct {
	ID               uint   `gorm:"primaryKey"`
	CacheKey         string `gorm:"index"`
	Asset            string
	Fiat             string
	Side             string
	Price            decimal.Decimal `gorm:"type:numeric(24,8)"`
	CounterpartyName string
	FetchedAt        time.Time `gorm:"index"`
}

func (RateFetchedEvent) TableName() string {
	return "rate_history"
}

func NewRateFetchedEvent(query domain.RateQuery, quote domain.RateQuote) RateFetchedEvent {
	return RateFetchedEvent{
		CacheKey:         query.CacheKey(),
		Asset:            quote.BaseAsset,
		Fiat:             quote.QuoteCurrency,
		Side:             string(quote.Side),
		Price:            quote.Price,
		CounterpartyName: quote.CounterpartyName,
		FetchedAt:        quote.FetchedAt,
	}
}

type RateEventLogger interface {
	LogRateFetched(ctx context.Context, event RateFetchedEvent) error
}

// PGRateEventLogger appends every cached quote to rate_history. It is
// registered as a cache listener, so write failures are logged and dropped.
type PGRateEventLogger struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPGRateEventLogger(db *gorm.DB, logger *zap.Logger) *PGRateEventLogger {
	return &PGRateEventLogger{db: db, logger: logger}
}

func (l *PGRateEventLogger) LogRateFetched(ctx context.Context, event RateFetchedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGRateEventLogger) OnRateUpdated(ctx context.Context, query domain.RateQuery, quote domain.RateQuote) {
	if err := l.LogRateFetched(ctx, NewRateFetchedEvent(query, quote)); err != nil {
		l.logger.Warn("failed to record rate history", zap.String("key", query.CacheKey()), zap.Error(err))
	}
}
