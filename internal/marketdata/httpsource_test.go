package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/models"
)

func TestHTTPSource_Markets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png",
			 "current_price":60000,"market_cap":1.2e12,"price_change_percentage_24h":-1.5}
		]`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, 2*time.Second, zap.NewNop())
	got, err := source.Markets(context.Background(), models.MarketQuery{
		Page: 1, PerPage: 50, Currency: "usd", Order: "market_cap_desc",
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "bitcoin", got[0].ID)
	assert.Equal(t, "btc", got[0].Symbol)
	assert.Equal(t, float64(60000), got[0].CurrentPrice)
	assert.Equal(t, -1.5, got[0].PercentChange24h)
}

func TestHTTPSource_Chart_FlattensPricePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,60000],[1700000060000,60100.5]]}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, 2*time.Second, zap.NewNop())
	got, err := source.Chart(context.Background(), models.ChartQuery{
		CoinID: "bitcoin", Days: 7, Currency: "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, []models.ChartPoint{
		{Timestamp: 1700000000000, Price: 60000},
		{Timestamp: 1700000060000, Price: 60100.5},
	}, got)
}

func TestHTTPSource_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, 2*time.Second, zap.NewNop())
	_, err := source.Markets(context.Background(), models.MarketQuery{Currency: "usd"})
	assert.ErrorContains(t, err, "429")
}

func TestHTTPSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, 2*time.Second, zap.NewNop())
	_, err := source.Chart(context.Background(), models.ChartQuery{CoinID: "bitcoin", Days: 7, Currency: "usd"})
	assert.ErrorContains(t, err, "decode")
}
