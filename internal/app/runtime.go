// Package app assembles the engine and its supporting services. The desktop
// and terminal front ends share one Runtime.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"pomodesk/internal/config"
	"pomodesk/internal/control"
	"pomodesk/internal/core/engine"
	"pomodesk/internal/notify"
	"pomodesk/internal/platform"
	"pomodesk/internal/sound"
	"pomodesk/internal/storage"
	"pomodesk/internal/ui/preferences"
)

const idlePollInterval = 5 * time.Second

// Deps are the platform services a Runtime talks to. Nil fields get the real
// implementation.
type Deps struct {
	NewAudio  func() (sound.Backend, error)
	Idle      platform.IdleProvider
	Send      notify.SendFunc
	Autostart func(enabled bool) error
}

// Runtime owns the engine and every non-UI service around it.
type Runtime struct {
	Engine   *engine.Engine
	History  *storage.HistoryRepo
	Notifier *notify.Notifier
	Player   *sound.FocusPlayer

	cfg       config.Config
	logger    *log.Logger
	db        *sql.DB
	server    *control.Server
	idle      *platform.IdleWatcher
	autostart func(bool) error

	mu       sync.Mutex
	settings preferences.Settings

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New loads settings, opens history and wires the engine. listener may be nil,
// in which case no control socket is served.
func New(cfg config.Config, logger *log.Logger, listener net.Listener, deps Deps) (*Runtime, error) {
	settings, err := storage.LoadSettings(cfg.ConfigDir)
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}

	options := settings.EngineOptions()
	options.Logger = logger.WithPrefix("engine")
	rt := &Runtime{
		Engine:    engine.New(options),
		cfg:       cfg,
		logger:    logger,
		settings:  settings,
		autostart: deps.Autostart,
	}

	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		logger.Error("history disabled", "path", cfg.DBPath, "err", err)
	} else {
		rt.db = db
		rt.History = storage.NewHistoryRepo(db, time.Local, logger.WithPrefix("history"))
		rt.Engine.AddCompletionHandler(storage.NewRecorder(rt.History))
	}

	notifyEnabled := settings.Notifications && !cfg.NoNotify
	if deps.Send != nil {
		rt.Notifier = notify.NewWithSender(notifyEnabled, deps.Send, logger.WithPrefix("notify"))
	} else {
		rt.Notifier = notify.New(notifyEnabled, logger.WithPrefix("notify"))
	}
	rt.Engine.AddCompletionHandler(rt.Notifier)

	newAudio := deps.NewAudio
	if newAudio == nil {
		newAudio = sound.NewOtoBackend
	}
	rt.Player = sound.NewFocusPlayer(newAudio, logger.WithPrefix("sound"))
	rt.Engine.AddSink(rt.Player)

	idleProvider := deps.Idle
	if idleProvider == nil {
		idleProvider = platform.NewIdleProvider()
	}
	rt.idle = platform.NewIdleWatcher(idleProvider, idlePollInterval, rt.pauseWhenIdle, logger.WithPrefix("idle"))
	rt.idle.SetThreshold(time.Duration(settings.PauseWhenIdleMinutes) * time.Minute)

	if rt.autostart == nil {
		rt.autostart = rt.defaultAutostart
	}

	if listener != nil {
		handler := control.NewHandler(rt.Engine, rt.StatsSource(), rt.Persist, logger.WithPrefix("control"))
		rt.server = control.NewServer(listener, handler, logger.WithPrefix("control"))
	}

	return rt, nil
}

// Start runs the clock, the control server and the idle watcher until ctx
// ends or Close is called.
func (rt *Runtime) Start(ctx context.Context) {
	ctx, rt.cancel = context.WithCancel(ctx)
	if rt.Engine.Snapshot().FocusSound != engine.FocusSoundOff {
		rt.wg.Add(1)
		go func() {
			defer rt.wg.Done()
			if err := rt.Player.Open(); err != nil {
				rt.logger.Warn("open audio device", "err", err)
			}
		}()
	}
	rt.Engine.Start(ctx)
	rt.Engine.Emit()

	if rt.server != nil {
		rt.wg.Add(1)
		go func() {
			defer rt.wg.Done()
			if err := rt.server.Serve(ctx); err != nil {
				rt.logger.Error("control server stopped", "err", err)
			}
		}()
	}

	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		rt.idle.Run(ctx)
	}()
}

// StatsSource returns the history repository, or nil when history is
// unavailable.
func (rt *Runtime) StatsSource() control.StatsSource {
	if rt.History == nil {
		return nil
	}
	return rt.History
}

// Settings returns the current preferences.
func (rt *Runtime) Settings() preferences.Settings {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.settings
}

// ApplySettings pushes settings into the engine and services and saves them.
func (rt *Runtime) ApplySettings(settings preferences.Settings) error {
	rt.mu.Lock()
	previous := rt.settings
	rt.settings = settings
	rt.mu.Unlock()

	rt.Engine.UpdateSettings(settings.Pomodoro)
	if settings.CountdownMinutes != rt.Engine.Snapshot().Countdown.DurationMinutes {
		rt.Engine.SetCountdownDuration(settings.CountdownMinutes)
	}
	if settings.FocusSound != rt.Engine.Snapshot().FocusSound {
		rt.Engine.SetFocusSound(settings.FocusSound)
	}
	rt.Notifier.SetEnabled(settings.Notifications && !rt.cfg.NoNotify)
	rt.idle.SetThreshold(time.Duration(settings.PauseWhenIdleMinutes) * time.Minute)

	var errs []error
	if settings.LaunchAtLogin != previous.LaunchAtLogin {
		if err := rt.autostart(settings.LaunchAtLogin); err != nil {
			errs = append(errs, fmt.Errorf("launch at login: %w", err))
		}
	}
	if err := storage.SaveSettings(rt.cfg.ConfigDir, settings); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Persist saves the engine-owned settings of snapshot.
func (rt *Runtime) Persist(snapshot engine.Snapshot) {
	rt.mu.Lock()
	rt.settings = rt.settings.FromSnapshot(snapshot)
	settings := rt.settings
	rt.mu.Unlock()

	if err := storage.SaveSettings(rt.cfg.ConfigDir, settings); err != nil {
		rt.logger.Error("save settings", "err", err)
	}
}

// Close stops every service and saves the settings one last time.
func (rt *Runtime) Close() error {
	if rt.cancel != nil {
		rt.cancel()
	}
	rt.Engine.Stop()
	var errs []error
	if rt.server != nil {
		if err := rt.server.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.wg.Wait()

	rt.Persist(rt.Engine.Snapshot())
	if err := rt.Player.Close(); err != nil {
		errs = append(errs, err)
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (rt *Runtime) pauseWhenIdle(idle time.Duration) {
	pomodoro := rt.Engine.Snapshot().Pomodoro
	if !pomodoro.Running || pomodoro.Mode != engine.ModeWork {
		return
	}
	rt.logger.Info("pausing work session, user is idle", "idle", idle.Round(time.Second))
	rt.Engine.PausePomodoro()
}

func (rt *Runtime) defaultAutostart(enabled bool) error {
	autostart, err := platform.NewAutostart(config.AppName)
	if err != nil {
		return err
	}
	return autostart.Apply(enabled)
}
