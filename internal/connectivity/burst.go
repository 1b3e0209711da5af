package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
)

// probeAll checks every endpoint concurrently and returns true as soon as
// any of them answers within the timeout. The remaining probes are cancelled
// once a winner exists; while disconnected, speed of recovery detection
// matters more than a complete result set.
func probeAll(ctx context.Context, prober interfaces.Prober, endpoints []string, timeout time.Duration) bool {
	if len(endpoints) == 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan error, len(endpoints))

	var wg sync.WaitGroup
	for _, endpoint := range endpoints {
		wg.Add(1)
		go func(ep string) {
			defer wg.Done()
			results <- prober.Probe(ctx, ep)
		}(endpoint)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for err := range results {
		if err == nil {
			cancel()
			return true
		}
	}
	return false
}

// probeOne checks a single endpoint with its own timeout.
func probeOne(ctx context.Context, prober interfaces.Prober, endpoint string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return prober.Probe(ctx, endpoint) == nil
}
