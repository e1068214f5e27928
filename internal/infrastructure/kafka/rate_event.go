package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

type RateEvent struct {
	EventID          string    `json:"event_id"`
	Key              string    `json:"key"`
	Asset            string    `json:"asset"`
	Fiat             string    `json:"fiat"`
	Side             string    `json:"side"`
	Price            string    `json:"price"`
	CounterpartyName string    `json:"counterparty_name,omitempty"`
	FetchedAt        time.Time `json:"fetched_at"`
}

// RatePublisher emits a RateEvent for every quote the cache stores.
type RatePublisher struct {
	pub    domain.PublisherPort
	topic  string
	newID  func() string
	logger *zap.Logger
}

func NewRatePublisher(pub domain.PublisherPort, topic string, logger *zap.Logger) (*RatePublisher, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("init event id generator: %w", err)
	}
	return &RatePublisher{
		pub:    pub,
		topic:  topic,
		newID:  idGenerator,
		logger: logger,
	}, nil
}

func (p *RatePublisher) PublishRate(ctx context.Context, query domain.RateQuery, quote domain.RateQuote) error {
	event := RateEvent{
		EventID:          p.newID(),
		Key:              query.CacheKey(),
		Asset:            quote.BaseAsset,
		Fiat:             quote.QuoteCurrency,
		Side:             string(quote.Side),
		Price:            quote.Price.String(),
		CounterpartyName: quote.CounterpartyName,
		FetchedAt:        quote.FetchedAt,
	}
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.pub.Publish(ctx, p.topic, domain.Message{Key: []byte(event.Key), Value: v})
}

func (p *RatePublisher) OnRateUpdated(ctx context.Context, query domain.RateQuery, quote domain.RateQuote) {
	if err := p.PublishRate(ctx, query, quote); err != nil {
		p.logger.Warn("failed to publish rate event", zap.String("key", query.CacheKey()), zap.Error(err))
	}
}
