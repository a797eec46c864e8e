package platform

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

// IdleWatcher polls an IdleProvider and calls onIdle once each time the user
// has been away for at least the threshold. A zero threshold disables it.
type IdleWatcher struct {
	provider  IdleProvider
	interval  time.Duration
	threshold atomic.Int64
	onIdle    func(time.Duration)
	logger    *log.Logger

	fired bool
}

// NewIdleWatcher creates a watcher that polls every interval.
func NewIdleWatcher(provider IdleProvider, interval time.Duration, onIdle func(time.Duration), logger *log.Logger) *IdleWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &IdleWatcher{provider: provider, interval: interval, onIdle: onIdle, logger: logger}
}

// SetThreshold changes the idle threshold.
func (watcher *IdleWatcher) SetThreshold(threshold time.Duration) {
	watcher.threshold.Store(int64(threshold))
}

// Run polls until ctx is done or the provider turns out to be unsupported.
func (watcher *IdleWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !watcher.check() {
				return
			}
		}
	}
}

// check performs one poll and reports whether polling should continue.
func (watcher *IdleWatcher) check() bool {
	threshold := time.Duration(watcher.threshold.Load())
	if threshold <= 0 {
		watcher.fired = false
		return true
	}

	idle, err := watcher.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.logger.Warn("idle detection disabled", "err", err)
			return false
		}
		watcher.logger.Debug("idle check failed", "err", err)
		return true
	}

	if idle < threshold {
		watcher.fired = false
		return true
	}
	if !watcher.fired {
		watcher.fired = true
		watcher.onIdle(idle)
	}
	return true
}
