package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
)

type state int

const (
	stateUnknown state = iota
	stateConnected
	stateDisconnected
)

func (s state) String() string {
	switch s {
	case stateConnected:
		return "connected"
	case stateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Config holds the tunables of the Monitor. Zero values get defaults from
// the configuration layer; the Monitor itself trusts what it is given.
type Config struct {
	Endpoints []string

	RequiredSuccesses int // consecutive successes to flip to connected
	RequiredFailures  int // consecutive failures to flip to disconnected

	GracePeriod time.Duration // window after an app-level success that suppresses disconnect flips

	ConnectedInterval    time.Duration // slow cadence while connected
	DisconnectedInterval time.Duration // fast cadence while disconnected or unknown

	SingleTimeout time.Duration // timeout for the steady-state single probe
	BurstTimeout  time.Duration // timeout for the parallel recovery probe
}

// Status is a read-only snapshot of the monitor state.
type Status struct {
	State                  string     `json:"state"`
	Connected              bool       `json:"connected"`
	InitialProbeDone       bool       `json:"initial_probe_done"`
	ConsecutiveSuccesses   int        `json:"consecutive_successes"`
	ConsecutiveFailures    int        `json:"consecutive_failures"`
	LastApplicationSuccess *time.Time `json:"last_application_success,omitempty"`
}

// Monitor tracks real network reachability through active probing.
//
// While connected it confirms steady state with one cheap probe against a
// rotating endpoint at a slow cadence. While disconnected, or before the
// first result ever, it bursts all endpoints in parallel at a fast cadence
// so recovery is noticed almost immediately. State only flips after the
// configured number of consistent results, except for the very first probe,
// which sets state unconditionally.
type Monitor struct {
	cfg    Config
	prober interfaces.Prober
	clock  clock.Clock
	logger *zap.Logger

	mu                   sync.Mutex
	state                state
	initialProbeDone     bool
	consecutiveSuccesses int
	consecutiveFailures  int
	lastAppSuccess       time.Time
	rotation             int
	observers            []chan bool
	lastPublished        *bool

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewMonitor creates a Monitor. Call Start to begin probing.
func NewMonitor(cfg Config, prober interfaces.Prober, clk clock.Clock, logger *zap.Logger) *Monitor {
	return &Monitor{
		cfg:    cfg,
		prober: prober,
		clock:  clk,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the probe loop. The first probe fires immediately.
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		go m.loop()
	})
}

// Stop halts probing and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done
	})
}

// IsConnected reports current reachability. Optimistically true until the
// first probe completes so startup is never blocked on a pessimistic guess.
func (m *Monitor) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != stateDisconnected
}

// ReportAppSuccess records that a genuine application-level transfer just
// succeeded. A probe-failure streak inside the grace window after this call
// will not flip the state to disconnected: a slow probe endpoint is not
// evidence of disconnection while real traffic is flowing.
func (m *Monitor) ReportAppSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAppSuccess = m.clock.Now()
}

// Subscribe registers an observer for connectivity transitions. The channel
// carries only changes; consecutive duplicate states are suppressed. Slow
// observers miss updates rather than blocking the monitor.
func (m *Monitor) Subscribe() <-chan bool {
	ch := make(chan bool, 4)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, ch)
	return ch
}

// Unsubscribe removes an observer previously returned by Subscribe.
func (m *Monitor) Unsubscribe(ch <-chan bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, obs := range m.observers {
		if obs == ch {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			close(obs)
			return
		}
	}
}

// Snapshot returns the current monitor state for observability endpoints.
func (m *Monitor) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		State:                m.state.String(),
		Connected:            m.state != stateDisconnected,
		InitialProbeDone:     m.initialProbeDone,
		ConsecutiveSuccesses: m.consecutiveSuccesses,
		ConsecutiveFailures:  m.consecutiveFailures,
	}
	if !m.lastAppSuccess.IsZero() {
		t := m.lastAppSuccess
		st.LastApplicationSuccess = &t
	}
	return st
}

// loop is the only goroutine that processes probe completions, so counter
// updates are inherently serial. Every state transition restarts the timer
// at the cadence of the new state.
func (m *Monitor) loop() {
	defer close(m.done)

	ctx := context.Background()
	for {
		m.probeAndApply(ctx)

		timer := m.clock.Timer(m.interval())
		select {
		case <-timer.C:
		case <-m.stop:
			timer.Stop()
			return
		}
	}
}

func (m *Monitor) probeAndApply(ctx context.Context) {
	m.applyProbeResult(m.runProbe(ctx))
}

// runProbe picks the strategy for the current state: a single rotating
// endpoint while connected, a parallel burst otherwise.
func (m *Monitor) runProbe(ctx context.Context) bool {
	m.mu.Lock()
	burst := m.state != stateConnected
	endpoint := ""
	if !burst && len(m.cfg.Endpoints) > 0 {
		endpoint = m.cfg.Endpoints[m.rotation%len(m.cfg.Endpoints)]
		m.rotation++
	}
	m.mu.Unlock()

	if burst {
		stop := metrics.TimeProbe("burst")
		ok := probeAll(ctx, m.prober, m.cfg.Endpoints, m.cfg.BurstTimeout)
		stop()
		if !ok {
			metrics.ProbeFailures.WithLabelValues("burst").Inc()
		}
		return ok
	}

	if endpoint == "" {
		return false
	}
	stop := metrics.TimeProbe("single")
	ok := probeOne(ctx, m.prober, endpoint, m.cfg.SingleTimeout)
	stop()
	if !ok {
		metrics.ProbeFailures.WithLabelValues("single").Inc()
	}
	return ok
}

// applyProbeResult runs the hysteresis state machine for one probe outcome.
func (m *Monitor) applyProbeResult(success bool) {
	m.mu.Lock()

	firstProbe := !m.initialProbeDone
	m.initialProbeDone = true

	if success {
		m.consecutiveFailures = 0
		m.consecutiveSuccesses++

		if m.state != stateConnected && (firstProbe || m.consecutiveSuccesses >= m.cfg.RequiredSuccesses) {
			m.transitionLocked(stateConnected)
		}
	} else {
		m.consecutiveSuccesses = 0

		if m.state == stateConnected && m.withinGraceLocked() {
			m.consecutiveFailures = 0
			m.logger.Debug("probe failure suppressed by recent application success")
		} else {
			m.consecutiveFailures++
			if firstProbe || (m.state == stateConnected && m.consecutiveFailures >= m.cfg.RequiredFailures) {
				m.transitionLocked(stateDisconnected)
			}
		}
	}

	m.mu.Unlock()
}

func (m *Monitor) withinGraceLocked() bool {
	if m.lastAppSuccess.IsZero() || m.cfg.GracePeriod <= 0 {
		return false
	}
	return m.clock.Now().Sub(m.lastAppSuccess) <= m.cfg.GracePeriod
}

func (m *Monitor) transitionLocked(next state) {
	prev := m.state
	m.state = next
	connected := next == stateConnected

	m.logger.Info("connectivity state changed",
		zap.String("from", prev.String()),
		zap.String("to", next.String()))
	metrics.UpdateConnectivityState(connected)
	metrics.ConnectivityFlips.Inc()

	if m.lastPublished != nil && *m.lastPublished == connected {
		return
	}
	v := connected
	m.lastPublished = &v

	for _, obs := range m.observers {
		select {
		case obs <- connected:
		default:
			m.logger.Warn("connectivity observer too slow, dropping update")
		}
	}
}

// interval returns the polling cadence for the current state.
func (m *Monitor) interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateConnected {
		return m.cfg.ConnectedInterval
	}
	return m.cfg.DisconnectedInterval
}
