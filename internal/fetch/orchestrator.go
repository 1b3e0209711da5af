package fetch

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
)

var (
	// ErrThrottled is returned when a request for a key is rejected because
	// a previous request for the same key succeeded too recently. It is
	// terminal for that call; callers retry on their own schedule.
	ErrThrottled = errors.New("request throttled")

	// ErrCancelled is returned to every waiter of a request whose
	// registration was dropped by CancelAll before completion.
	ErrCancelled = errors.New("request cancelled")
)

// Options configures an Orchestrator.
type Options struct {
	// MinInterval is the cool-down window after a successful fetch for a
	// key. Failures do not arm the window.
	MinInterval time.Duration

	// MaxConcurrent bounds the number of producers running at once.
	// Zero means unlimited; priority ordering only applies when bounded.
	MaxConcurrent int
}

// call is one in-flight or queued request. All concurrent callers for the
// same key share a single call and observe the identical outcome.
type call struct {
	key      string
	producer func(context.Context) (any, error)
	priority Priority
	seq      uint64

	heapIndex int
	started   bool
	startedAt time.Time

	done      chan struct{} // closed once the producer has returned
	discarded chan struct{} // closed when CancelAll drops the registration
	value     any
	err       error
}

// Orchestrator deduplicates, throttles and schedules keyed requests.
//
// The check for an existing in-flight call and the registration of a new one
// happen in one critical section, so two racing callers can never both start
// a producer for the same key.
type Orchestrator struct {
	mu          sync.Mutex
	inflight    map[string]*call
	lastSuccess map[string]time.Time
	pending     callQueue
	running     int
	seq         uint64

	opts   Options
	clock  clock.Clock
	logger *zap.Logger
}

// New creates an Orchestrator.
func New(opts Options, clk clock.Clock, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		inflight:    make(map[string]*call),
		lastSuccess: make(map[string]time.Time),
		opts:        opts,
		clock:       clk,
		logger:      logger,
	}
}

// Execute runs producer at most once per key across all concurrent callers
// and returns its typed result. Joining callers never re-invoke producer.
func Execute[T any](o *Orchestrator, ctx context.Context, key string, prio Priority, producer func(context.Context) (T, error)) (T, error) {
	var zero T

	v, err := o.Do(ctx, key, prio, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T for key %q", v, key)
	}
	return typed, nil
}

// Do is the untyped variant of Execute.
//
// If key already has an in-flight call the caller joins it, possibly raising
// its effective priority. Otherwise the throttle window is checked and a new
// call is registered and dispatched. The producer runs detached from any
// single caller's context: one caller giving up must not abort the fetch for
// the others.
func (o *Orchestrator) Do(ctx context.Context, key string, prio Priority, producer func(context.Context) (any, error)) (any, error) {
	o.mu.Lock()

	if c, ok := o.inflight[key]; ok {
		if prio > c.priority {
			c.priority = prio
			if !c.started && c.heapIndex >= 0 {
				heap.Fix(&o.pending, c.heapIndex)
			}
		}
		o.mu.Unlock()
		metrics.FetchDedupJoins.Inc()
		return o.wait(ctx, c)
	}

	if last, ok := o.lastSuccess[key]; ok && o.clock.Now().Sub(last) < o.opts.MinInterval {
		o.mu.Unlock()
		metrics.FetchThrottled.Inc()
		o.logger.Debug("request throttled", zap.String("key", key))
		return nil, ErrThrottled
	}

	o.seq++
	c := &call{
		key:       key,
		producer:  producer,
		priority:  prio,
		seq:       o.seq,
		heapIndex: -1,
		done:      make(chan struct{}),
		discarded: make(chan struct{}),
	}
	o.inflight[key] = c

	if o.opts.MaxConcurrent <= 0 || o.running < o.opts.MaxConcurrent {
		o.startLocked(c)
	} else {
		heap.Push(&o.pending, c)
	}
	o.mu.Unlock()

	return o.wait(ctx, c)
}

// CancelAll drops every queued and in-flight registration. Waiters receive
// ErrCancelled; producers that are already running complete into a discarded
// result. Throttle records survive, the orchestrator stays usable.
func (o *Orchestrator) CancelAll() {
	o.mu.Lock()
	defer o.mu.Unlock()

	dropped := len(o.inflight)
	for key, c := range o.inflight {
		delete(o.inflight, key)
		close(c.discarded)
	}
	o.pending = o.pending[:0]

	if dropped > 0 {
		o.logger.Info("cancelled all in-flight requests", zap.Int("dropped", dropped))
	}
}

// InFlight returns the number of registered requests, queued ones included.
func (o *Orchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.inflight)
}

func (o *Orchestrator) startLocked(c *call) {
	c.started = true
	c.startedAt = o.clock.Now()
	o.running++
	metrics.FetchInFlight.Set(float64(o.running))
	go o.run(c)
}

func (o *Orchestrator) run(c *call) {
	timer := prometheus.NewTimer(metrics.FetchDuration)
	v, err := c.producer(context.Background())
	timer.ObserveDuration()

	if err != nil {
		metrics.FetchProducerErrors.Inc()
	}

	o.mu.Lock()
	c.value, c.err = v, err

	select {
	case <-c.discarded:
		o.logger.Debug("discarding result of cancelled request", zap.String("key", c.key))
	default:
		delete(o.inflight, c.key)
		if err == nil {
			o.lastSuccess[c.key] = o.clock.Now()
		}
	}

	o.running--
	metrics.FetchInFlight.Set(float64(o.running))
	o.dispatchLocked()
	o.mu.Unlock()

	close(c.done)
}

func (o *Orchestrator) dispatchLocked() {
	for o.pending.Len() > 0 && (o.opts.MaxConcurrent <= 0 || o.running < o.opts.MaxConcurrent) {
		c := heap.Pop(&o.pending).(*call)
		o.startLocked(c)
	}
}

// wait blocks until the shared call resolves. A caller whose own context
// expires detaches with the context error; the underlying call keeps going.
func (o *Orchestrator) wait(ctx context.Context, c *call) (any, error) {
	select {
	case <-c.done:
		select {
		case <-c.discarded:
			return nil, ErrCancelled
		default:
		}
		return c.value, c.err
	case <-c.discarded:
		return nil, ErrCancelled
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
