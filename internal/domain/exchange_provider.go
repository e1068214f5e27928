package domain

import "context"

// RateFetcher performs one outbound request to the quote provider. Errors
// are *FetchError.
type RateFetcher interface {
	Fetch(ctx context.Context, query RateQuery) (RateQuote, error)
}

// RateListener is notified after a fetched quote replaced the cached one.
type RateListener interface {
	OnRateUpdated(ctx context.Context, query RateQuery, quote RateQuote)
}
