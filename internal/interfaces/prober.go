package interfaces

import "context"

//go:generate mockgen -package=mock -source=prober.go -destination=mock/prober.go

// Prober performs one lightweight reachability check against an endpoint.
// A nil return means the endpoint answered; any error is a failed probe.
type Prober interface {
	Probe(ctx context.Context, endpoint string) error
}
