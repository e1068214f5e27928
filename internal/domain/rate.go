package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// ParseTradeSide accepts BUY/SELL in any case.
func ParseTradeSide(s string) (TradeSide, error) {
	switch TradeSide(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("unknown trade side %q", s)
}

// RateQuery selects one advertised P2P price.
type RateQuery struct {
	Asset string
	Fiat  string
	Side  TradeSide
}

// CacheKey identifies the cached quote for the asset/fiat/side triple.
func (q RateQuery) CacheKey() string {
	return fmt.Sprintf("%s:%s:%s",
		strings.ToUpper(q.Asset),
		strings.ToUpper(q.Fiat),
		strings.ToUpper(string(q.Side)),
	)
}

// RateQuote is the top advert returned by the provider. It is never mutated,
// a newer fetch produces a new quote.
type RateQuote struct {
	Price            decimal.Decimal
	BaseAsset        string
	QuoteCurrency    string
	CounterpartyName string
	Side             TradeSide
	FetchedAt        time.Time
}

// RateSnapshot is what readers of the cache get back. Available is false
// until the first successful fetch for the query.
type RateSnapshot struct {
	Quote     RateQuote
	Available bool
}

var RateNotAvailable = RateSnapshot{}
