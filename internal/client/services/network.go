package services

import (
	"context"
	"sync"
	"time"

	"github.com/archepal/archepal/internal/client/remote"
	"github.com/archepal/archepal/internal/logging"
)

// NetStatus is the process-wide connectivity state: best current knowledge,
// never persisted. Consumers must tolerate false positives (a captive
// portal can look connected) and false negatives.
type NetStatus struct {
	Connected      bool
	ConnectionType string
}

// Prober supplies connectivity observations to a Monitor. Implementations
// range from real reachability checks to platform network listeners.
type Prober interface {
	Probe(ctx context.Context) NetStatus
}

// PingProber probes by pinging the remote document store with a short
// timeout, the fallback when no platform listener is available.
type PingProber struct {
	Remote  remote.Client
	Timeout time.Duration
}

func (p *PingProber) Probe(ctx context.Context) NetStatus {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.Remote.Ping(ctx); err != nil {
		return NetStatus{}
	}
	return NetStatus{Connected: true, ConnectionType: "unknown"}
}

// Monitor holds the observable connectivity state. It is constructed once
// and injected wherever connectivity matters; there is no package-level
// global. The Monitor records what it is told and never probes on its own.
type Monitor struct {
	mu     sync.Mutex
	status NetStatus
	subs   map[int]chan NetStatus
	nextID int
	log    logging.Logger
}

func NewMonitor(log logging.Logger) *Monitor {
	return &Monitor{
		subs: make(map[int]chan NetStatus),
		log:  log.With("component", "network"),
	}
}

// Status returns the current best-known connectivity state.
func (m *Monitor) Status() NetStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// SetStatus records a new observation and notifies subscribers when it
// differs from the previous one.
func (m *Monitor) SetStatus(st NetStatus) {
	m.mu.Lock()
	if m.status == st {
		m.mu.Unlock()
		return
	}
	m.status = st

	for _, ch := range m.subs {
		// Non-blocking: a slow consumer drops intermediate updates, which
		// keeps the "best current knowledge" contract intact.
		select {
		case ch <- st:
		default:
		}
	}
	m.mu.Unlock()

	m.log.Info(context.Background(), "connectivity changed",
		"connected", st.Connected, "type", st.ConnectionType)
}

// Subscribe registers for change notifications. The cancel function must be
// called to release the subscription.
func (m *Monitor) Subscribe() (<-chan NetStatus, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan NetStatus, 1)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
	return ch, cancel
}

// Watch feeds the Monitor from the given prober on a fixed interval until
// ctx is done. It probes once immediately so consumers do not start with a
// stale zero state.
func (m *Monitor) Watch(ctx context.Context, prober Prober, interval time.Duration) {
	m.SetStatus(prober.Probe(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.SetStatus(prober.Probe(ctx))
		case <-ctx.Done():
			return
		}
	}
}
