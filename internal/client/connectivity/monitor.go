// Package connectivity tracks whether the remote admissions service is
// reachable. The sync engine and the CLI prompt both read the flag; the
// offline-to-online edge additionally triggers a sync.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mgichure/EMIS/internal/logging"
)

// Pinger probes the remote health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

const probeTimeout = 3 * time.Second

// Monitor polls the health endpoint on a fixed interval and keeps the
// last observed state. Reads never block on the network.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	logger   logging.Logger

	online atomic.Bool

	mu       sync.Mutex
	onOnline []func(ctx context.Context)
}

func NewMonitor(pinger Pinger, interval time.Duration, logger logging.Logger) *Monitor {
	return &Monitor{
		pinger:   pinger,
		interval: interval,
		logger:   logger.With("component", "connectivity"),
	}
}

// Online returns the last observed reachability state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// OnOnline registers a callback fired on every offline-to-online edge.
// Callbacks run on the monitor goroutine and should hand work off quickly.
func (m *Monitor) OnOnline(fn func(ctx context.Context)) {
	m.mu.Lock()
	m.onOnline = append(m.onOnline, fn)
	m.mu.Unlock()
}

func (m *Monitor) setOnline(ctx context.Context, online bool) {
	prev := m.online.Swap(online)
	if prev == online {
		return
	}

	if online {
		m.logger.Info(ctx, "connection restored")
		m.mu.Lock()
		callbacks := make([]func(ctx context.Context), len(m.onOnline))
		copy(callbacks, m.onOnline)
		m.mu.Unlock()
		for _, fn := range callbacks {
			fn(ctx)
		}
	} else {
		m.logger.Warn(ctx, "connection lost, working offline")
	}
}

// probe pings the service, absorbing short blips with a couple of quick
// fibonacci-spaced retries before declaring the service unreachable.
func (m *Monitor) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := m.pinger.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	return err == nil
}

// CheckNow probes immediately, updates the state and returns it.
func (m *Monitor) CheckNow(ctx context.Context) bool {
	online := m.probe(ctx)
	m.setOnline(ctx, online)
	return online
}

// Start probes once right away, then keeps polling until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	m.CheckNow(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CheckNow(ctx)
		case <-ctx.Done():
			return
		}
	}
}
