package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/cache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/connectivity"
	"github.com/Jansenc08/CryptoApp-sub004/internal/fetch"
	"github.com/Jansenc08/CryptoApp-sub004/internal/imagecache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
	"github.com/Jansenc08/CryptoApp-sub004/internal/marketdata"
	"github.com/Jansenc08/CryptoApp-sub004/internal/models"
)

// fakeSource serves scripted market data and counts upstream calls.
type fakeSource struct {
	mu          sync.Mutex
	markets     []models.Market
	chart       []models.ChartPoint
	err         error
	marketCalls int
}

var _ marketdata.Source = (*fakeSource)(nil)

func (f *fakeSource) Markets(ctx context.Context, q models.MarketQuery) ([]models.Market, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marketCalls++
	return f.markets, f.err
}

func (f *fakeSource) Chart(ctx context.Context, q models.ChartQuery) ([]models.ChartPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chart, f.err
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.marketCalls
}

// fakeByteStore is a map-backed ByteStore for logo tests.
type fakeByteStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ interfaces.ByteStore = (*fakeByteStore)(nil)

func newFakeByteStore() *fakeByteStore {
	return &fakeByteStore{data: make(map[string][]byte)}
}

func (f *fakeByteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeByteStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = val
}

func (f *fakeByteStore) Delete(ctx context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
}

func (f *fakeByteStore) Close() error { return nil }

type serverFixture struct {
	server *Server
	source *fakeSource
	cache  *cache.Cache
}

// newServerFixture builds a server over real core components and a fake
// upstream. Real wall clock; tests steer behavior through TTLs instead of
// moving time.
func newServerFixture(source *fakeSource, ttls marketdata.TTLs, minInterval time.Duration, logos *imagecache.Loader) *serverFixture {
	clk := clock.New()
	logger := zap.NewNop()

	c := cache.New(cache.Options{MaxItems: 100, MaxMemory: 1 << 20}, clk, logger)
	orch := fetch.New(fetch.Options{MinInterval: minInterval}, clk, logger)
	monitor := connectivity.NewMonitor(connectivity.Config{}, nil, clk, logger)
	service := marketdata.NewService(c, orch, monitor, source, ttls, logger)

	return &serverFixture{
		server: NewServer(c, orch, monitor, service, logos, logger),
		source: source,
		cache:  c,
	}
}

func defaultTTLs() marketdata.TTLs {
	return marketdata.TTLs{Markets: time.Hour, Charts: time.Hour}
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_Markets_ServedFromCacheOnSecondRequest(t *testing.T) {
	source := &fakeSource{markets: []models.Market{{ID: "bitcoin", Symbol: "btc", CurrentPrice: 60000}}}
	fx := newServerFixture(source, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/markets?currency=usd&page=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.Market
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "bitcoin", rows[0].ID)

	rec = doRequest(t, fx.server, http.MethodGet, "/coins/markets?currency=usd&page=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, source.calls(), "second request must come from the cache")
}

func TestServer_Markets_ThrottledReturns429(t *testing.T) {
	source := &fakeSource{markets: []models.Market{{ID: "bitcoin"}}}
	// Entries expire immediately, so the second request reaches the
	// orchestrator inside the cool-down window.
	fx := newServerFixture(source, marketdata.TTLs{Markets: time.Nanosecond, Charts: time.Nanosecond}, time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/markets")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, fx.server, http.MethodGet, "/coins/markets")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "throttled")
}

func TestServer_Markets_UpstreamFailureReturns502(t *testing.T) {
	fx := newServerFixture(&fakeSource{err: errors.New("connection refused")}, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/markets")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServer_Chart(t *testing.T) {
	source := &fakeSource{chart: []models.ChartPoint{{Timestamp: 1700000000000, Price: 60000}}}
	fx := newServerFixture(source, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/bitcoin/chart?days=7&priority=high")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []models.ChartPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Equal(t, []models.ChartPoint{{Timestamp: 1700000000000, Price: 60000}}, points)
}

func TestServer_CacheStats(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)
	fx.cache.Set("key", make([]byte, 100), time.Minute)

	rec := doRequest(t, fx.server, http.MethodGet, "/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats CacheStatsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.ItemCount)
	assert.Equal(t, 100, stats.MaxItems)
	assert.Greater(t, stats.MemoryUsage, int64(100))
	assert.NotEmpty(t, stats.MemoryUsageHuman)
	assert.Equal(t, "1.0 MB", stats.MaxMemoryHuman)
}

func TestServer_CacheClear(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)
	fx.cache.Set("key", "value", time.Minute)

	rec := doRequest(t, fx.server, http.MethodDelete, "/cache")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, fx.cache.Stats().ItemCount)
}

func TestServer_Status(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unknown", status.Connectivity.State)
	assert.True(t, status.Connectivity.Connected)
	assert.Equal(t, 0, status.InFlight)
	assert.NotEmpty(t, status.Uptime)
}

func TestServer_Connectivity(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/connectivity")
	require.Equal(t, http.StatusOK, rec.Code)

	var status connectivity.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.InitialProbeDone)
}

func TestServer_Metrics(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Logo(t *testing.T) {
	// Minimal valid PNG signature so content sniffing resolves image/png.
	pngBytes := []byte("\x89PNG\r\n\x1a\n0123456789")

	loader := imagecache.NewLoader(newFakeByteStore(), func(ctx context.Context, url string) ([]byte, error) {
		return pngBytes, nil
	}, time.Hour, zap.NewNop())
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, loader)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/bitcoin/logo?url=https%3A%2F%2Fimg.example%2Fbtc.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestServer_Logo_MissingURL(t *testing.T) {
	loader := imagecache.NewLoader(newFakeByteStore(), nil, time.Hour, zap.NewNop())
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, loader)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/bitcoin/logo")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Logo_StoreDisabled(t *testing.T) {
	fx := newServerFixture(&fakeSource{}, defaultTTLs(), time.Hour, nil)

	rec := doRequest(t, fx.server, http.MethodGet, "/coins/bitcoin/logo?url=https%3A%2F%2Fimg.example%2Fbtc.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
