package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"pomodesk/internal/core/model"
)

// ErrUnknownPreset is returned by ApplyPreset for names that match no preset.
var ErrUnknownPreset = errors.New("unknown preset")

// Options contains construction parameters for Engine.
type Options struct {
	Settings         model.PomodoroSettings
	CountdownMinutes uint32
	FocusSound       FocusSound

	TickInterval time.Duration
	NewTicker    func(time.Duration) Ticker
	Now          func() time.Time
	Logger       *log.Logger
}

// DefaultOptions returns the startup configuration: default settings and a
// 25 minute countdown.
func DefaultOptions() Options {
	return Options{
		Settings:         model.DefaultPomodoroSettings(),
		CountdownMinutes: model.DefaultCountdownMinutes,
		FocusSound:       FocusSoundOff,
		TickInterval:     time.Second,
	}
}

// Engine owns the Pomodoro and countdown timers. All state lives behind one
// mutex; side effects run after it is released.
type Engine struct {
	mu         sync.Mutex
	pomodoro   PomodoroState
	countdown  CountdownState
	focusSound FocusSound
	version    uint64

	observersMu sync.RWMutex
	sinks       []Sink
	handlers    []CompletionHandler
	subscribers []chan Snapshot

	options Options
	logger  *log.Logger

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an engine. The clock is not running until Start is called.
func New(options Options) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.NewTicker == nil {
		options.NewTicker = NewSystemTicker
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}

	return &Engine{
		pomodoro:   newPomodoroState(options.Settings),
		countdown:  newCountdownState(options.CountdownMinutes),
		focusSound: options.FocusSound,
		options:    options,
		logger:     options.Logger,
	}
}

// AddSink registers a presentation sink. Sinks are called in registration order.
func (engine *Engine) AddSink(sink Sink) {
	engine.observersMu.Lock()
	engine.sinks = append(engine.sinks, sink)
	engine.observersMu.Unlock()
}

// AddCompletionHandler registers a handler for session completions.
func (engine *Engine) AddCompletionHandler(handler CompletionHandler) {
	engine.observersMu.Lock()
	engine.handlers = append(engine.handlers, handler)
	engine.observersMu.Unlock()
}

// Subscribe registers a snapshot channel. Sends never block: when the buffer
// is full the snapshot is dropped for that subscriber.
func (engine *Engine) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	engine.observersMu.Lock()
	engine.subscribers = append(engine.subscribers, ch)
	engine.observersMu.Unlock()
	return ch
}

// Snapshot returns a copy of the current state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Emit publishes the current state without changing it.
func (engine *Engine) Emit() {
	engine.publish(engine.Snapshot())
}

// Tick advances both timers by one second.
func (engine *Engine) Tick() {
	var completion *Completion
	snapshot := engine.apply(func() {
		if mode, seconds, ok := engine.pomodoro.advance(); ok {
			completion = &Completion{
				Mode:    mode,
				Kind:    KindOf(mode),
				Seconds: seconds,
				At:      engine.options.Now(),
			}
		}
		engine.countdown.advance()
	})

	if completion != nil {
		engine.logger.Info("session completed", "mode", completion.Mode, "next", snapshot.Pomodoro.Mode)
		engine.dispatch(*completion)
	}
	engine.publish(snapshot)
}

// UpdateSettings replaces the Pomodoro settings. An idle timer is reloaded to
// the new length; an active one is only ever shortened.
func (engine *Engine) UpdateSettings(settings model.PomodoroSettings) {
	engine.command("update_settings", func() {
		engine.pomodoro.applySettings(settings)
	})
}

// ApplyPreset replaces the durations of the current settings with a preset.
func (engine *Engine) ApplyPreset(name string) error {
	preset, ok := model.LookupPreset(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	engine.command("apply_preset", func() {
		engine.pomodoro.applySettings(preset.Apply(engine.pomodoro.Settings))
	})
	return nil
}

// StartPomodoro switches to work mode and runs. A paused work session resumes
// where it stopped.
func (engine *Engine) StartPomodoro() {
	engine.command("start_pomodoro", engine.pomodoro.startWork)
}

// StartBreak begins a full short break. Manual breaks are never long.
func (engine *Engine) StartBreak() {
	engine.command("start_break", func() {
		engine.pomodoro.restartIn(ModeShortBreak)
	})
}

// SkipBreak abandons the current break and begins a full work session.
func (engine *Engine) SkipBreak() {
	engine.command("skip_break", func() {
		engine.pomodoro.restartIn(ModeWork)
	})
}

// PausePomodoro stops the Pomodoro and cancels any pending auto-start.
func (engine *Engine) PausePomodoro() {
	engine.command("pause_pomodoro", engine.pomodoro.pause)
}

// ResetPomodoro stops the Pomodoro and reloads the current mode's full length.
func (engine *Engine) ResetPomodoro() {
	engine.command("reset_pomodoro", engine.pomodoro.reset)
}

// StartCountdown runs the countdown.
func (engine *Engine) StartCountdown() {
	engine.command("start_countdown", engine.countdown.start)
}

// PauseCountdown stops the countdown and keeps its remaining time.
func (engine *Engine) PauseCountdown() {
	engine.command("pause_countdown", engine.countdown.pause)
}

// ResetCountdown stops the countdown and reloads its full duration.
func (engine *Engine) ResetCountdown() {
	engine.command("reset_countdown", engine.countdown.reset)
}

// SetCountdownDuration changes the countdown length. An active countdown stops.
func (engine *Engine) SetCountdownDuration(minutes uint32) {
	engine.command("set_countdown_duration", func() {
		engine.countdown.setDuration(minutes)
	})
}

// SetFocusSound records the focus sound hint.
func (engine *Engine) SetFocusSound(sound FocusSound) {
	engine.command("set_focus_sound", func() {
		engine.focusSound = sound
	})
}

func (engine *Engine) command(name string, fn func()) {
	snapshot := engine.apply(fn)
	engine.logger.Debug("command applied", "command", name, "version", snapshot.Version)
	engine.publish(snapshot)
}

// apply runs fn under the lock and returns the snapshot that follows it.
func (engine *Engine) apply(fn func()) Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	fn()
	engine.version++
	return engine.snapshotLocked()
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Pomodoro:   engine.pomodoro,
		Countdown:  engine.countdown,
		FocusSound: engine.focusSound,
		Version:    engine.version,
	}
}

func (engine *Engine) dispatch(completion Completion) {
	engine.observersMu.RLock()
	handlers := append([]CompletionHandler(nil), engine.handlers...)
	engine.observersMu.RUnlock()

	for index, handler := range handlers {
		engine.notify(index, handler, completion)
	}
}

func (engine *Engine) notify(index int, handler CompletionHandler, completion Completion) {
	defer func() {
		if recovered := recover(); recovered != nil {
			engine.logger.Error("completion handler panicked", "handler", index, "panic", recovered)
		}
	}()
	if err := handler.SessionCompleted(completion); err != nil {
		engine.logger.Warn("completion handler failed", "handler", index, "kind", completion.Kind, "err", err)
	}
}

func (engine *Engine) publish(snapshot Snapshot) {
	engine.observersMu.RLock()
	sinks := append([]Sink(nil), engine.sinks...)
	engine.observersMu.RUnlock()

	for index, sink := range sinks {
		engine.render(index, sink, snapshot)
	}

	engine.observersMu.RLock()
	for _, ch := range engine.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
	engine.observersMu.RUnlock()
}

func (engine *Engine) render(index int, sink Sink, snapshot Snapshot) {
	defer func() {
		if recovered := recover(); recovered != nil {
			engine.logger.Error("sink panicked", "sink", index, "panic", recovered)
		}
	}()
	if err := sink.Render(snapshot); err != nil {
		engine.logger.Warn("sink render failed", "sink", index, "err", err)
	}
}

var _ Commander = (*Engine)(nil)
