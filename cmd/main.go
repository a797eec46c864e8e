package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodesk/internal/app"
	"pomodesk/internal/config"
	"pomodesk/internal/platform"
	"pomodesk/internal/ui/overlay"
	"pomodesk/internal/ui/panel"
	"pomodesk/internal/ui/preferences"
	"pomodesk/internal/ui/term"
	"pomodesk/internal/ui/tray"
	"pomodesk/resources"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)
	if cfg.TUI {
		// The terminal UI owns the screen; logs go to a file instead.
		file, err := cfg.OpenLogFile()
		if err != nil {
			return err
		}
		defer file.Close()
		logger = cfg.NewLogger(file)
	}

	guard, err := platform.AcquireSingleInstance(config.AppName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			fmt.Fprintf(os.Stderr, "pomodesk is already running at %s; use pomoctl to control it\n", platform.InstanceAddress(config.AppName))
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	rt, err := app.New(cfg, logger, guard.Listener(), app.Deps{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TUI {
		return runTerminal(ctx, rt)
	}
	return runDesktop(ctx, rt, logger)
}

func runTerminal(ctx context.Context, rt *app.Runtime) error {
	updates := rt.Engine.Subscribe(8)
	rt.Start(ctx)

	uiErr := term.Run(ctx, rt.Engine, updates, rt.Persist)
	return errors.Join(uiErr, rt.Close())
}

func runDesktop(ctx context.Context, rt *app.Runtime, logger *log.Logger) error {
	fyneApp := fyneapp.NewWithID("com.pomodesk.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconLogo))

	settings := rt.Settings()
	var prefsWindow *preferences.Window
	showPreferences := func() {
		prefsWindow.UpdateSettings(rt.Settings())
		prefsWindow.Show()
	}
	mainWindow := panel.New(fyneApp, rt.Engine, rt.StatsSource(), rt.Persist, showPreferences, logger.WithPrefix("panel"))

	breakOverlay := overlay.New(fyneApp, rt.Engine, overlay.Config{
		Enabled: settings.BreakOverlay,
		Opacity: settings.OverlayAlpha(),
	}, resources.MustIcon(resources.IconCoffee))

	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := rt.ApplySettings(updated); err != nil {
			logger.Error("apply settings", "err", err)
			dialog.ShowError(err, mainWindow.Window())
		}
		breakOverlay.UpdateConfig(overlay.Config{
			Enabled: updated.BreakOverlay,
			Opacity: updated.OverlayAlpha(),
		})
	})

	rt.Engine.AddSink(mainWindow)
	rt.Engine.AddSink(breakOverlay)
	rt.Engine.AddCompletionHandler(mainWindow)

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, rt.Engine, tray.Icons{
			Idle:      resources.MustIcon(resources.IconLogo),
			Work:      resources.MustIcon(resources.IconTomato),
			Break:     resources.MustIcon(resources.IconCoffee),
			Countdown: resources.MustIcon(resources.IconStopwatch),
		}, tray.Callbacks{
			OnOpenApp:     mainWindow.Show,
			OnPreferences: showPreferences,
			OnQuit:        fyneApp.Quit,
		})
		rt.Engine.AddSink(trayManager)
	} else {
		logger.Warn("system tray unsupported on this platform; closing the window quits")
		mainWindow.Window().SetCloseIntercept(fyneApp.Quit)
	}

	fyneApp.Lifecycle().SetOnStarted(func() {
		rt.Start(ctx)
	})
	context.AfterFunc(ctx, func() {
		fyne.Do(fyneApp.Quit)
	})

	mainWindow.Show()
	fyneApp.Run()
	return rt.Close()
}
