package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/cache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/fetch"
	"github.com/Jansenc08/CryptoApp-sub004/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, StatusResponse{
		Cache:        cacheStatsPayload(s.cache.Stats()),
		Connectivity: s.monitor.Snapshot(),
		InFlight:     s.orch.InFlight(),
		Uptime:       time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, cacheStatsPayload(s.cache.Stats()))
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear()
	s.logger.Info("cache cleared via API")
	s.writeResponse(w, map[string]any{"success": true})
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, s.monitor.Snapshot())
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := models.MarketQuery{
		Page:     intParam(query.Get("page"), 1),
		PerPage:  intParam(query.Get("per_page"), 50),
		Currency: stringParam(query.Get("currency"), "usd"),
		Order:    stringParam(query.Get("order"), "market_cap_desc"),
	}
	prio := fetch.ParsePriority(query.Get("priority"))

	markets, err := s.service.Markets(r.Context(), q, prio)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeResponse(w, markets)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := models.ChartQuery{
		CoinID:   mux.Vars(r)["id"],
		Days:     intParam(query.Get("days"), 7),
		Currency: stringParam(query.Get("currency"), "usd"),
	}
	prio := fetch.ParsePriority(query.Get("priority"))

	points, err := s.service.Chart(r.Context(), q, prio)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeResponse(w, points)
}

// handleLogo serves coin logo bytes through the image store. The origin URL
// comes from the caller because logo URLs are part of the market rows.
func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	if s.logos == nil {
		s.writeErrorResponse(w, "image store disabled", http.StatusNotFound)
		return
	}

	originURL := r.URL.Query().Get("url")
	if originURL == "" {
		s.writeErrorResponse(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	key := cache.NewKeyBuilder().Logo(mux.Vars(r)["id"])
	data, err := s.logos.Load(r.Context(), key, originURL)
	if err != nil {
		s.logger.Warn("logo fetch failed", zap.Error(err))
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write logo response", zap.Error(err))
	}
}

// writeFetchError maps orchestrator errors to HTTP statuses: a throttled
// request is the client's to retry, a producer failure is an upstream fault.
func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fetch.ErrThrottled):
		s.writeErrorResponse(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, fetch.ErrCancelled):
		s.writeErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.logger.Warn("fetch failed", zap.Error(err))
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
	}
}

func cacheStatsPayload(stats cache.Stats) CacheStatsPayload {
	return CacheStatsPayload{
		ItemCount:        stats.ItemCount,
		MaxItems:         stats.MaxItems,
		MemoryUsage:      stats.MemoryUsage,
		MemoryUsageHuman: humanize.Bytes(uint64(stats.MemoryUsage)),
		MaxMemory:        stats.MaxMemory,
		MaxMemoryHuman:   humanize.Bytes(uint64(stats.MaxMemory)),
	}
}

func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func stringParam(raw, def string) string {
	if raw == "" {
		return def
	}
	return raw
}
