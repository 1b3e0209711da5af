package connectivity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
)

// Ensure HTTPProber implements interfaces.Prober
var _ interfaces.Prober = (*HTTPProber)(nil)

// HTTPProber checks reachability with a HEAD request. Any HTTP response at
// all counts as reachable; a 4xx from a probe endpoint still proves the
// network path works. Timeouts come from the caller's context.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates an HTTPProber.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			// Probes must stay cheap: never follow redirect chains.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Probe issues a HEAD request to endpoint and reports reachability.
func (p *HTTPProber) Probe(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("probe endpoint returned %d", resp.StatusCode)
	}
	return nil
}
