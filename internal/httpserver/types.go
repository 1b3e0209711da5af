package httpserver

import (
	"github.com/Jansenc08/CryptoApp-sub004/internal/connectivity"
)

// CacheStatsPayload is the JSON shape of a cache stats snapshot.
type CacheStatsPayload struct {
	ItemCount        int    `json:"item_count"`
	MaxItems         int    `json:"max_items"`
	MemoryUsage      int64  `json:"memory_usage"`
	MemoryUsageHuman string `json:"memory_usage_human"`
	MaxMemory        int64  `json:"max_memory"`
	MaxMemoryHuman   string `json:"max_memory_human"`
}

// StatusResponse aggregates the state of every core component.
type StatusResponse struct {
	Cache        CacheStatsPayload   `json:"cache"`
	Connectivity connectivity.Status `json:"connectivity"`
	InFlight     int                 `json:"in_flight_requests"`
	Uptime       string              `json:"uptime"`
}

// ErrorResponse is the JSON shape of a failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
