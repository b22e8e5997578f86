package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches market prices for securities. Implementations wrap a real
// provider API; tests substitute a stub.
type Client interface {
	LatestPrice(ctx context.Context, symbol string) (Quote, error)
}

// ChartClient queries a chart-style quote provider API over HTTP. The base
// URL points at the provider's chart endpoint; an optional bearer token is
// attached to every request.
type ChartClient struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewChartClient creates a quote client for the given provider base URL.
// authToken may be empty for providers that allow anonymous access.
func NewChartClient(baseURL, authToken string) *ChartClient {
	return &ChartClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		authToken:  authToken,
	}
}

// LatestPrice fetches the last five days of daily data for a symbol and
// returns the most recent close. Five days covers weekends and exchange
// holidays so the latest trading day is always present.
func (c *ChartClient) LatestPrice(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.baseURL, symbol)

	response, err := c.queryChart(ctx, url)
	if err != nil {
		return Quote{}, err
	}
	if len(response.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return Quote{}, fmt.Errorf("no price data returned for symbol %s", symbol)
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return Quote{}, fmt.Errorf("mismatched data lengths for symbol %s", symbol)
	}

	last := len(result.Timestamp) - 1
	return Quote{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Price:    result.Indicators.Quote[0].Close[last],
		AsOf:     time.Unix(result.Timestamp[last], 0).UTC(),
	}, nil
}

// queryChart executes an HTTP request against the provider and decodes the
// chart response. The User-Agent header mimics a browser because some
// providers block unidentified clients.
func (c *ChartClient) queryChart(ctx context.Context, url string) (chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chartResponse{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartResponse{}, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return chartResponse{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("quote provider error: %s", *response.Chart.Error)
	}

	return response, nil
}
