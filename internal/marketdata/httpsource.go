package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/models"
)

// Ensure HTTPSource implements Source
var _ Source = (*HTTPSource)(nil)

// HTTPSource fetches market data from a CoinGecko-compatible REST API.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPSource creates an HTTPSource against baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Markets fetches one page of coin market rows.
func (s *HTTPSource) Markets(ctx context.Context, q models.MarketQuery) ([]models.Market, error) {
	params := url.Values{}
	params.Set("vs_currency", q.Currency)
	params.Set("order", q.Order)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))

	var markets []models.Market
	if err := s.getJSON(ctx, "/coins/markets?"+params.Encode(), &markets); err != nil {
		return nil, err
	}
	return markets, nil
}

// chartResponse matches the upstream market_chart payload: arrays of
// [timestamp_ms, value] pairs.
type chartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// Chart fetches a price chart and flattens it into chart points.
func (s *HTTPSource) Chart(ctx context.Context, q models.ChartQuery) ([]models.ChartPoint, error) {
	params := url.Values{}
	params.Set("vs_currency", q.Currency)
	params.Set("days", strconv.Itoa(q.Days))

	var resp chartResponse
	path := fmt.Sprintf("/coins/%s/market_chart?%s", url.PathEscape(q.CoinID), params.Encode())
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	points := make([]models.ChartPoint, len(resp.Prices))
	for i, pair := range resp.Prices {
		points[i] = models.ChartPoint{
			Timestamp: int64(pair[0]),
			Price:     pair[1],
		}
	}
	return points, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
