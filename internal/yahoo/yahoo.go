package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Yahoo Finance chart API root.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoPriceData is returned when a chart carries no usable close price.
var ErrNoPriceData = errors.New("no price data returned")

// Client is the subset of FinanceClient used by price lookups.
type Client interface {
	LatestClose(ctx context.Context, symbol string) (PricePoint, error)
}

// FinanceClient fetches quotes from the Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a client against DefaultBaseURL with a 10 second timeout.
func NewFinanceClient() *FinanceClient {
	return NewFinanceClientWithBaseURL(DefaultBaseURL)
}

// NewFinanceClientWithBaseURL creates a client against another chart API root, such as a test server.
func NewFinanceClientWithBaseURL(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// ParseChart converts a raw response into a PriceChart.
// Days whose close is null are dropped. Returns ErrNoPriceData when nothing usable remains.
func ParseChart(resp Response) (PriceChart, error) {
	if len(resp.Chart.Result) == 0 {
		return PriceChart{}, ErrNoPriceData
	}
	result := resp.Chart.Result[0]

	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return PriceChart{}, ErrNoPriceData
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths: %d timestamps, %d closes", len(result.Timestamp), len(closes))
	}

	points := make([]PricePoint, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		points = append(points, PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(points) == 0 {
		return PriceChart{}, ErrNoPriceData
	}

	return PriceChart{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Points:   points,
	}, nil
}

// Latest returns the most recent point of the chart.
func (c PriceChart) Latest() PricePoint {
	return c.Points[len(c.Points)-1]
}

// QueryFiveDay fetches the last five trading days of daily prices for a symbol.
func (c *FinanceClient) QueryFiveDay(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	return c.query(ctx, endpoint)
}

// LatestClose returns the most recent daily close for a symbol.
func (c *FinanceClient) LatestClose(ctx context.Context, symbol string) (PricePoint, error) {
	resp, err := c.QueryFiveDay(ctx, symbol)
	if err != nil {
		return PricePoint{}, err
	}

	chart, err := ParseChart(resp)
	if err != nil {
		return PricePoint{}, fmt.Errorf("symbol %s: %w", symbol, err)
	}

	return chart.Latest(), nil
}

func (c *FinanceClient) query(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("failed to decode yahoo response (status %d): %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}

	if resp.StatusCode != http.StatusOK {
		return response, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}
