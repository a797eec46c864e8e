package engine

import (
	"context"
	"time"
)

// Ticker delivers clock ticks to the engine.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemTicker struct {
	ticker *time.Ticker
}

// NewSystemTicker wraps time.Ticker. Ticks that the receiver is too slow to
// take are dropped, so a stalled host never sees a burst of catch-up ticks.
func NewSystemTicker(interval time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(interval)}
}

func (t systemTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t systemTicker) Stop() {
	t.ticker.Stop()
}

// Start launches the clock goroutine. It runs until ctx is cancelled or Stop
// is called. Calling Start on a running engine does nothing.
func (engine *Engine) Start(ctx context.Context) {
	engine.runMu.Lock()
	defer engine.runMu.Unlock()
	if engine.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done

	go func() {
		defer close(done)
		engine.Run(runCtx)
	}()
}

// Stop cancels the clock, waits for it to exit and closes every subscriber
// channel.
func (engine *Engine) Stop() {
	engine.runMu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	engine.observersMu.Lock()
	subscribers := engine.subscribers
	engine.subscribers = nil
	engine.observersMu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}

// Run calls Tick once per tick interval until ctx is done.
func (engine *Engine) Run(ctx context.Context) {
	ticker := engine.options.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			engine.Tick()
		}
	}
}
