// Package pricing provides market price sources.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/domain"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// YahooSource resolves prices from the Yahoo Finance v8 chart API.
// Quotes are cached for a short TTL, and transient failures are retried a
// bounded number of times before the lookup fails fast.
type YahooSource struct {
	cli      *http.Client
	baseURL  string
	ttl      time.Duration
	attempts int
	backoff  time.Duration
	log      zerolog.Logger

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

type cachedQuote struct {
	price   decimal.Decimal
	fetched time.Time
}

// NewYahooSource creates a Yahoo price source with default settings.
func NewYahooSource(log zerolog.Logger) *YahooSource {
	return &YahooSource{
		cli:      &http.Client{Timeout: 8 * time.Second},
		baseURL:  defaultBaseURL,
		ttl:      60 * time.Second,
		attempts: 3,
		backoff:  250 * time.Millisecond,
		log:      log.With().Str("component", "pricing").Logger(),
		cache:    make(map[string]cachedQuote),
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (p *YahooSource) SetBaseURL(url string) {
	p.baseURL = strings.TrimSuffix(url, "/")
}

// Price implements domain.PriceSource.
func (p *YahooSource) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return decimal.Zero, fmt.Errorf("%w: empty symbol", domain.ErrUnknownTicker)
	}

	p.mu.RLock()
	if c, ok := p.cache[ticker]; ok && time.Since(c.fetched) < p.ttl {
		p.mu.RUnlock()
		return c.price, nil
	}
	p.mu.RUnlock()

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", p.baseURL, ticker)
	result, err := p.fetchChart(ctx, ticker, url)
	if err != nil {
		return decimal.Zero, err
	}

	price := decimal.NewFromFloat(result.Meta.RegularMarketPrice)

	// Fallback: last non-zero close when the meta quote is missing.
	if price.LessThanOrEqual(decimal.Zero) {
		for i := len(result.Timestamp) - 1; i >= 0; i-- {
			if c := result.close(i); c > 0 {
				price = decimal.NewFromFloat(c)
				break
			}
		}
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: no quote for %s", domain.ErrUnknownTicker, ticker)
	}

	price = price.Round(2)
	p.mu.Lock()
	p.cache[ticker] = cachedQuote{price: price, fetched: time.Now()}
	p.mu.Unlock()

	return price, nil
}

// PriceOn implements domain.PriceSource.
func (p *YahooSource) PriceOn(ctx context.Context, ticker string, day time.Time) (decimal.Decimal, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		p.baseURL, ticker, start.Unix(), end.Unix())

	result, err := p.fetchChart(ctx, ticker, url)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range result.Timestamp {
		if c := result.close(i); c > 0 {
			return decimal.NewFromFloat(c).Round(2), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: no market data for %s on %s",
		domain.ErrUnknownTicker, ticker, start.Format("2006-01-02"))
}

// History implements domain.PriceSource: daily closes and volumes for the
// past year.
func (p *YahooSource) History(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1y", p.baseURL, ticker)
	result, err := p.fetchChart(ctx, ticker, url)
	if err != nil {
		return nil, err
	}

	points := make([]domain.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := result.close(i)
		if c <= 0 {
			continue
		}
		points = append(points, domain.PricePoint{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  decimal.NewFromFloat(c).Round(2),
			Volume: result.volume(i),
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no market data for %s", domain.ErrUnknownTicker, ticker)
	}
	return points, nil
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

func (r *chartResult) close(i int) float64 {
	if len(r.Indicators.Quote) == 0 || i >= len(r.Indicators.Quote[0].Close) {
		return 0
	}
	return r.Indicators.Quote[0].Close[i]
}

func (r *chartResult) volume(i int) int64 {
	if len(r.Indicators.Quote) == 0 || i >= len(r.Indicators.Quote[0].Volume) {
		return 0
	}
	return r.Indicators.Quote[0].Volume[i]
}

// fetchChart performs the chart request with bounded retries on transport
// errors and server-side failures. A 404 or an empty result set means the
// symbol has no market data and is not retried.
func (p *YahooSource) fetchChart(ctx context.Context, ticker, url string) (*chartResult, error) {
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * p.backoff):
			}
		}

		result, retryable, err := p.fetchChartOnce(ctx, ticker, url)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		p.log.Warn().Err(err).Str("ticker", ticker).Int("attempt", attempt).Msg("price lookup failed")
	}
	return nil, lastErr
}

func (p *YahooSource) fetchChartOnce(ctx context.Context, ticker, url string) (*chartResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", "stockfolio/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	case resp.StatusCode != http.StatusOK:
		return nil, true, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []chartResult `json:"result"`
			Error  any           `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, true, err
	}
	if len(raw.Chart.Result) == 0 {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	return &raw.Chart.Result[0], false, nil
}
