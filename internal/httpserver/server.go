package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/cache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/connectivity"
	"github.com/Jansenc08/CryptoApp-sub004/internal/fetch"
	"github.com/Jansenc08/CryptoApp-sub004/internal/imagecache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/marketdata"
)

// Server exposes the resilience core over HTTP: market data endpoints for
// consumers plus observability endpoints for operators.
type Server struct {
	cache     *cache.Cache
	orch      *fetch.Orchestrator
	monitor   *connectivity.Monitor
	service   *marketdata.Service
	logos     *imagecache.Loader // nil when the image store is disabled
	logger    *zap.Logger
	server    *http.Server
	startedAt time.Time
}

// NewServer creates a Server over the shared components.
func NewServer(
	c *cache.Cache,
	orch *fetch.Orchestrator,
	monitor *connectivity.Monitor,
	service *marketdata.Service,
	logos *imagecache.Loader,
	logger *zap.Logger,
) *Server {
	return &Server{
		cache:     c,
		orch:      orch,
		monitor:   monitor,
		service:   service,
		logos:     logos,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Market data
	router.HandleFunc("/coins/markets", s.handleMarkets).Methods("GET")
	router.HandleFunc("/coins/{id}/chart", s.handleChart).Methods("GET")
	router.HandleFunc("/coins/{id}/logo", s.handleLogo).Methods("GET")

	// Observability
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/cache/stats", s.handleCacheStats).Methods("GET")
	router.HandleFunc("/cache", s.handleCacheClear).Methods("DELETE")
	router.HandleFunc("/connectivity", s.handleConnectivity).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

func (s *Server) writeResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
