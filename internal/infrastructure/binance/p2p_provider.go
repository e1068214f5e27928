package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL  = "https://p2p.binance.com"
	AdvSearchPath   = "/bapi/c2c/v2/friendly/c2c/adv/search"
	DefaultTimeout  = 10 * time.Second
	RevalidateAfter = 300 * time.Second

	// Browser-like User-Agent, the search endpoint rejects obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	successCode = "000000"
)

type searchRequest struct {
	Page      int      `json:"page"`
	Rows      int      `json:"rows"`
	PayTypes  []string `json:"payTypes"`
	Asset     string   `json:"asset"`
	TradeType string   `json:"tradeType"`
	Fiat      string   `json:"fiat"`
}

type searchResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Success bool   `json:"success"`
	Total   int    `json:"total"`
	Data    []struct {
		Adv struct {
			Price     string `json:"price"`
			Asset     string `json:"asset"`
			FiatUnit  string `json:"fiatUnit"`
			TradeType string `json:"tradeType"`
		} `json:"adv"`
		Advertiser struct {
			NickName string `json:"nickName"`
		} `json:"advertiser"`
	} `json:"data"`
}

// P2PProvider fetches the best priced advert from the Binance P2P search.
type P2PProvider struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
}

type Option func(*P2PProvider)

func WithBaseURL(url string) Option {
	return func(p *P2PProvider) {
		if url != "" {
			p.baseURL = url
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(p *P2PProvider) {
		if timeout > 0 {
			p.client.Timeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *P2PProvider) {
		p.now = now
	}
}

func NewP2PProvider(opts ...Option) *P2PProvider {
	p := &P2PProvider{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: DefaultBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *P2PProvider) Fetch(ctx context.Context, query domain.RateQuery) (domain.RateQuote, error) {
	payload, err := json.Marshal(searchRequest{
		Page:      1,
		Rows:      1,
		PayTypes:  []string{},
		Asset:     query.Asset,
		TradeType: string(query.Side),
		Fiat:      query.Fiat,
	})
	if err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchMalformed, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+AdvSearchPath, bytes.NewReader(payload))
	if err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchUpstream, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	// Lets an edge cache coalesce identical searches inside one window.
	req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(RevalidateAfter.Seconds())))
	req.Header.Set("X-Cache-Tag", "p2p-rate:"+query.CacheKey())

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchUpstream, fmt.Errorf("failed to get adverts: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RateQuote{}, &domain.FetchError{
			Kind:   domain.FetchUpstream,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("p2p search returned status: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchUpstream, fmt.Errorf("failed to read response body: %w", err))
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchMalformed, fmt.Errorf("failed to parse search response: %w", err))
	}
	if search.Code != "" && search.Code != successCode {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchUpstream, fmt.Errorf("p2p search error %s: %s", search.Code, search.Message))
	}
	if len(search.Data) == 0 {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchEmpty, fmt.Errorf("no adverts for %s", query.CacheKey()))
	}

	return p.toQuote(search)
}

func (p *P2PProvider) toQuote(search searchResponse) (domain.RateQuote, error) {
	top := search.Data[0]
	if top.Adv.Price == "" || top.Adv.Asset == "" || top.Adv.FiatUnit == "" {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchMalformed, errors.New("advert is missing price, asset or fiat"))
	}

	price, err := decimal.NewFromString(top.Adv.Price)
	if err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchMalformed, fmt.Errorf("bad price %q: %w", top.Adv.Price, err))
	}
	if !price.IsPositive() {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchMalformed, fmt.Errorf("non-positive price %s", price))
	}

	side, err := domain.ParseTradeSide(top.Adv.TradeType)
	if err != nil {
		return domain.RateQuote{}, domain.NewFetchError(domain.FetchMalformed, err)
	}

	return domain.RateQuote{
		Price:            price,
		BaseAsset:        top.Adv.Asset,
		QuoteCurrency:    top.Adv.FiatUnit,
		CounterpartyName: top.Advertiser.NickName,
		Side:             side,
		FetchedAt:        p.now(),
	}, nil
}
