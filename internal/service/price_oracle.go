package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// Compile-time interface check
var _ domain.PriceOracle = (*YahooPriceOracle)(nil)

// YahooPriceOracle resolves prices from the Yahoo Finance v8 chart API.
// Every Lookup hits the API: trades must execute at a fresh quote, so
// there is deliberately no cache here.
type YahooPriceOracle struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooPriceOracle creates a YahooPriceOracle against baseURL
func NewYahooPriceOracle(baseURL string, timeout time.Duration) *YahooPriceOracle {
	return &YahooPriceOracle{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// Lookup fetches the current price for symbol. Unresolvable symbols and
// unusable payloads map to ErrUnknownSymbol; transport failures map to
// ErrOracleUnavailable.
func (o *YahooPriceOracle) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	if symbol == "" {
		return nil, domain.ErrUnknownSymbol
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", o.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrOracleUnavailable, err)
	}
	req.Header.Set("User-Agent", "stocksim/1.0")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quote API returned status %d", domain.ErrOracleUnavailable, resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Symbol             string  `json:"symbol"`
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode quote response: %v", domain.ErrUnknownSymbol, err)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, domain.ErrUnknownSymbol
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice

	// Fallback: last non-zero close when the meta price is missing
	if price <= 0 && len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] > 0 {
				price = closes[i]
				break
			}
		}
	}

	if price <= 0 {
		return nil, domain.ErrUnknownSymbol
	}

	return &domain.Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(price).Round(2),
	}, nil
}
