package poller

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// RefreshFunc produces a fresh snapshot of the polled data.
type RefreshFunc[T any] func(ctx context.Context) (T, error)

// Poller periodically refreshes one dataset and retains the last good
// snapshot across failures. A failed refresh never clears data consumers
// already have; it only records the error.
type Poller[T any] struct {
	name     string
	interval time.Duration
	refresh  RefreshFunc[T]
	logger   *logging.Logger

	// refreshMu serializes refreshes so a manual trigger never overlaps
	// the ticker-driven one.
	refreshMu sync.Mutex

	mu          sync.RWMutex
	data        T
	hasData     bool
	lastSuccess time.Time
	lastErr     error
	listeners   []func(T)
}

func New[T any](name string, interval time.Duration, refresh RefreshFunc[T], logger *logging.Logger) *Poller[T] {
	if logger == nil {
		logger = logging.Default()
	}
	return &Poller[T]{
		name:     name,
		interval: interval,
		refresh:  refresh,
		logger:   logger,
	}
}

// Subscribe registers fn to run after every successful refresh. Must be
// called before Run starts.
func (p *Poller[T]) Subscribe(fn func(T)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Run refreshes once immediately, then on every interval tick until ctx is
// canceled. The initial refresh failing is not fatal; the poller keeps
// retrying on its schedule.
func (p *Poller[T]) Run(ctx context.Context) {
	if err := p.RequestRefresh(ctx); err != nil {
		p.logger.WarnContext(ctx, "initial poll failed", "poller", p.name, "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "poller stopped", "poller", p.name)
			return
		case <-ticker.C:
			if err := p.RequestRefresh(ctx); err != nil {
				p.logger.WarnContext(ctx, "scheduled poll failed", "poller", p.name, "error", err)
			}
		}
	}
}

// RequestRefresh runs one refresh now, serialized against any in-flight
// refresh, and reports its outcome. On failure the previous snapshot stays
// available.
func (p *Poller[T]) RequestRefresh(ctx context.Context) error {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	data, err := p.refresh(ctx)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		return crerr.Wrapf(err, "refresh %s", p.name)
	}

	p.mu.Lock()
	p.data = data
	p.hasData = true
	p.lastSuccess = time.Now()
	p.lastErr = nil
	listeners := make([]func(T), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	p.logger.DebugContext(ctx, "poll refreshed",
		"poller", p.name,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	for _, fn := range listeners {
		fn(data)
	}
	return nil
}

// Snapshot returns the last good dataset. The second return is false until
// the first successful refresh.
func (p *Poller[T]) Snapshot() (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data, p.hasData
}

// LastSuccess returns when the last successful refresh finished, zero if
// none has.
func (p *Poller[T]) LastSuccess() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSuccess
}

// LastError returns the error of the most recent refresh, nil after a
// success.
func (p *Poller[T]) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func (p *Poller[T]) Name() string {
	return p.name
}
