// Package connectivity tracks whether the detection backend is reachable.
// The rest of the app treats its answer as binary: online means detection
// and recommendations work, offline means only the bundled catalog does.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/snapbasket/snapbasket/internal/logger"
)

// State is the current reachability of the backend.
type State int

const (
	// StateOnline means the last probe answered.
	StateOnline State = iota
	// StateOffline means the last probe failed.
	StateOffline
)

// String returns a human-readable state.
func (s State) String() string {
	if s == StateOnline {
		return "online"
	}
	return "offline"
}

// MonitorOption configures the monitor.
type MonitorOption func(*Monitor)

// WithProbeInterval sets how often the backend is probed.
func WithProbeInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithProbeTimeout bounds a single probe request.
func WithProbeTimeout(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.client.Timeout = d
	}
}

// Monitor probes the backend with periodic HEAD requests and reports
// transitions. It starts optimistic: the state is online until a probe
// says otherwise, so the first snap after launch is not refused on a
// stale answer.
type Monitor struct {
	url      string
	log      *logger.Logger
	client   *http.Client
	interval time.Duration

	mu     sync.RWMutex
	state  State
	events chan State
}

// NewMonitor creates a monitor for the given probe URL.
func NewMonitor(url string, log *logger.Logger, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		url:      url,
		log:      log,
		client:   &http.Client{Timeout: 3 * time.Second},
		interval: 15 * time.Second,
		state:    StateOnline,
		events:   make(chan State, 4),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the last observed state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Online is shorthand for State() == StateOnline.
func (m *Monitor) Online() bool { return m.State() == StateOnline }

// Events delivers one value per transition, never per probe. The channel is
// buffered; a slow reader drops transitions rather than blocking probes.
func (m *Monitor) Events() <-chan State { return m.events }

// Run probes immediately, then on every tick. Blocks until ctx is
// cancelled. Intended to be called as a goroutine.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("connectivity monitor started (interval=%s)", m.interval)
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("connectivity monitor stopped")
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	next := StateOnline
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		next = StateOffline
	} else {
		resp, err := m.client.Do(req)
		if err != nil {
			next = StateOffline
		} else {
			// Any HTTP answer proves reachability, status code included.
			resp.Body.Close()
		}
	}

	m.mu.Lock()
	changed := next != m.state
	m.state = next
	m.mu.Unlock()

	if !changed {
		return
	}
	m.log.Info("backend is %s", next)
	select {
	case m.events <- next:
	default:
		m.log.Debug("dropping connectivity event, reader is behind")
	}
}
