// Package panel is the main application window.
package panel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
	"pomodesk/internal/storage"
	"pomodesk/internal/ui/status"
)

// StatsSource supplies today's history totals.
type StatsSource interface {
	Today(ctx context.Context) (storage.DailyStats, error)
}

// Window shows both timers and their controls.
type Window struct {
	window    fyne.Window
	commander engine.Commander
	stats     StatsSource
	onChange  func(engine.Snapshot)
	logger    *log.Logger

	modeLabel     *widget.Label
	pomodoroClock *widget.Label
	pomodoroBar   *widget.ProgressBar
	cycleLabel    *widget.Label
	startButton   *widget.Button
	pauseButton   *widget.Button
	breakButton   *widget.Button
	skipButton    *widget.Button
	preset        *widget.Select

	countdownClock *widget.Label
	countdownBar   *widget.ProgressBar
	countdownLine  *widget.Label
	minutes        *widget.Entry
	countdownStart *widget.Button
	countdownPause *widget.Button

	focusSound *widget.Select
	statsLabel *widget.Label

	mu          sync.Mutex
	lastVersion uint64
	lastMinutes uint32
	syncing     bool
}

// New creates the main window. onChange is called after commands that
// change persisted settings.
func New(app fyne.App, commander engine.Commander, stats StatsSource, onChange func(engine.Snapshot), onPreferences func(), logger *log.Logger) *Window {
	panel := &Window{
		window:    app.NewWindow("Pomodesk"),
		commander: commander,
		stats:     stats,
		onChange:  onChange,
		logger:    logger,

		modeLabel:     widget.NewLabelWithStyle("Work", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		pomodoroClock: widget.NewLabelWithStyle("25:00", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true, Bold: true}),
		pomodoroBar:   widget.NewProgressBar(),
		cycleLabel:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),

		countdownClock: widget.NewLabelWithStyle("25:00", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true, Bold: true}),
		countdownBar:   widget.NewProgressBar(),
		countdownLine:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		minutes:        widget.NewEntry(),
		statsLabel:     widget.NewLabel(""),
	}
	panel.pomodoroClock.SizeName = theme.SizeNameHeadingText
	panel.countdownClock.SizeName = theme.SizeNameHeadingText
	panel.pomodoroBar.TextFormatter = func() string { return "" }
	panel.countdownBar.TextFormatter = func() string { return "" }

	panel.startButton = widget.NewButton("Start", commander.StartPomodoro)
	panel.pauseButton = widget.NewButton("Pause", commander.PausePomodoro)
	resetButton := widget.NewButton("Reset", commander.ResetPomodoro)
	panel.breakButton = widget.NewButton("Start Break", commander.StartBreak)
	panel.skipButton = widget.NewButton("Skip Break", commander.SkipBreak)
	panel.preset = widget.NewSelect(model.PresetNames(), panel.selectPreset)
	panel.preset.PlaceHolder = "Custom"

	panel.countdownStart = widget.NewButton("Start", commander.StartCountdown)
	panel.countdownPause = widget.NewButton("Pause", commander.PauseCountdown)
	countdownReset := widget.NewButton("Reset", commander.ResetCountdown)
	setButton := widget.NewButton("Set", panel.setCountdownMinutes)
	panel.minutes.OnSubmitted = func(string) { panel.setCountdownMinutes() }

	soundLabels := make([]string, 0, len(engine.FocusSounds))
	for _, sound := range engine.FocusSounds {
		soundLabels = append(soundLabels, sound.Label())
	}
	panel.focusSound = widget.NewSelect(soundLabels, panel.selectSound)

	pomodoroTab := container.NewVBox(
		panel.modeLabel,
		panel.pomodoroClock,
		panel.pomodoroBar,
		panel.cycleLabel,
		container.NewGridWithColumns(3, panel.startButton, panel.pauseButton, resetButton),
		container.NewGridWithColumns(2, panel.breakButton, panel.skipButton),
		container.NewBorder(nil, nil, widget.NewLabel("Preset"), nil, panel.preset),
	)
	countdownTab := container.NewVBox(
		panel.countdownClock,
		panel.countdownBar,
		panel.countdownLine,
		container.NewGridWithColumns(3, panel.countdownStart, panel.countdownPause, countdownReset),
		container.NewBorder(nil, nil, widget.NewLabel("Minutes"), setButton, panel.minutes),
	)
	tabs := container.NewAppTabs(
		container.NewTabItem("Pomodoro", pomodoroTab),
		container.NewTabItem("Countdown", countdownTab),
	)

	footer := container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Focus sound"), nil, panel.focusSound),
		container.NewBorder(nil, nil, nil, widget.NewButton("Settings…", onPreferences), panel.statsLabel),
	)

	panel.window.SetContent(container.NewBorder(nil, footer, nil, nil, tabs))
	panel.window.Resize(fyne.NewSize(380, 420))
	panel.window.SetCloseIntercept(panel.window.Hide)
	return panel
}

// Window returns the underlying fyne window.
func (panel *Window) Window() fyne.Window {
	return panel.window
}

// Show displays the window and refreshes today's stats.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
	panel.RefreshStats()
}

// Render updates the window for snapshot.
func (panel *Window) Render(snapshot engine.Snapshot) error {
	fyne.Do(func() {
		panel.mu.Lock()
		defer panel.mu.Unlock()
		if snapshot.Version != 0 && snapshot.Version < panel.lastVersion {
			return
		}
		panel.lastVersion = snapshot.Version
		panel.apply(snapshot)
	})
	return nil
}

// SessionCompleted refreshes the stats line once history has the new row.
func (panel *Window) SessionCompleted(engine.Completion) error {
	go panel.RefreshStats()
	return nil
}

// RefreshStats reloads today's totals from history.
func (panel *Window) RefreshStats() {
	if panel.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats, err := panel.stats.Today(ctx)
	if err != nil {
		panel.logger.Warn("load today's stats", "err", err)
		return
	}
	fyne.Do(func() {
		panel.statsLabel.SetText(statsLine(stats))
	})
}

func (panel *Window) apply(snapshot engine.Snapshot) {
	pomodoro := snapshot.Pomodoro
	panel.modeLabel.SetText(status.PomodoroLine(pomodoro))
	panel.pomodoroClock.SetText(status.FormatClock(pomodoro.RemainingSeconds))
	panel.pomodoroBar.SetValue(status.Progress(pomodoro.RemainingSeconds, pomodoro.TotalSeconds))
	panel.cycleLabel.SetText(status.CycleLine(pomodoro))

	countdown := snapshot.Countdown
	panel.countdownClock.SetText(status.FormatClock(countdown.RemainingSeconds))
	panel.countdownBar.SetValue(status.CountdownProgress(countdown))
	panel.countdownLine.SetText(status.CountdownLine(countdown))

	state := controlsFor(snapshot)
	panel.startButton.SetText(state.PomodoroStart)
	setEnabled(panel.startButton, state.StartPomodoro)
	setEnabled(panel.pauseButton, state.PausePomodoro)
	setEnabled(panel.breakButton, state.StartBreak)
	setEnabled(panel.skipButton, state.SkipBreak)
	setEnabled(panel.countdownStart, state.StartCountdown)
	setEnabled(panel.countdownPause, state.PauseCountdown)

	// Programmatic selection fires OnChanged; syncing keeps it from looping
	// back into the engine.
	panel.syncing = true
	if name := model.MatchPreset(pomodoro.Settings); name != "" {
		panel.preset.SetSelected(name)
	} else {
		panel.preset.ClearSelected()
	}
	panel.focusSound.SetSelected(snapshot.FocusSound.Label())
	if panel.minutes.Text == "" || countdown.DurationMinutes != panel.lastMinutes {
		panel.minutes.SetText(strconv.FormatUint(uint64(countdown.DurationMinutes), 10))
		panel.lastMinutes = countdown.DurationMinutes
	}
	panel.syncing = false
}

func (panel *Window) selectPreset(name string) {
	if panel.syncing || name == "" {
		return
	}
	if err := panel.commander.ApplyPreset(name); err != nil {
		dialog.ShowError(err, panel.window)
		return
	}
	panel.changed()
}

func (panel *Window) selectSound(label string) {
	if panel.syncing {
		return
	}
	for _, sound := range engine.FocusSounds {
		if sound.Label() == label {
			panel.commander.SetFocusSound(sound)
			panel.changed()
			return
		}
	}
}

func (panel *Window) setCountdownMinutes() {
	minutes, err := strconv.ParseUint(strings.TrimSpace(panel.minutes.Text), 10, 32)
	if err != nil {
		dialog.ShowError(fmt.Errorf("countdown: enter a whole number of minutes"), panel.window)
		return
	}
	panel.commander.SetCountdownDuration(uint32(minutes))
	panel.changed()
}

func (panel *Window) changed() {
	if panel.onChange != nil {
		panel.onChange(panel.commander.Snapshot())
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
