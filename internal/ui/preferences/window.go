package preferences

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
)

const customPreset = "Custom"

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)

	preset        *widget.Select
	work          *widget.Entry
	shortBreak    *widget.Entry
	longBreak     *widget.Entry
	sessions      *widget.Entry
	countdown     *widget.Entry
	autoLongBreak *widget.Check
	pauseMusic    *widget.Check
	notifications *widget.Check
	launchAtLogin *widget.Check
	idleMinutes   *widget.Entry
	focusSound    *widget.RadioGroup
	breakOverlay  *widget.Check
	opacity       *widget.Slider
}

// formValues is the raw text of the duration fields.
type formValues struct {
	Work, ShortBreak, LongBreak, Sessions, Countdown, IdleMinutes string
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodesk Settings")

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		work:          widget.NewEntry(),
		shortBreak:    widget.NewEntry(),
		longBreak:     widget.NewEntry(),
		sessions:      widget.NewEntry(),
		countdown:     widget.NewEntry(),
		autoLongBreak: widget.NewCheck("Long break after the cycle", nil),
		pauseMusic:    widget.NewCheck("Pause music during breaks", nil),
		notifications: widget.NewCheck("Desktop notifications", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
		idleMinutes:   widget.NewEntry(),
		breakOverlay:  widget.NewCheck("Show an overlay during breaks", nil),
		opacity:       widget.NewSlider(0.3, 1),
	}
	prefs.opacity.Step = 0.05

	prefs.preset = widget.NewSelect(append(model.PresetNames(), customPreset), prefs.applyPreset)
	soundLabels := make([]string, 0, len(engine.FocusSounds))
	for _, sound := range engine.FocusSounds {
		soundLabels = append(soundLabels, sound.Label())
	}
	prefs.focusSound = widget.NewRadioGroup(soundLabels, nil)
	prefs.focusSound.Horizontal = true

	form := container.NewVBox(
		widget.NewLabelWithStyle("Pomodoro", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Preset"), prefs.preset),
		container.NewHBox(widget.NewLabel("Work"), prefs.work, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), prefs.shortBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), prefs.longBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Sessions per cycle"), prefs.sessions),
		prefs.autoLongBreak,
		prefs.pauseMusic,
		widget.NewLabelWithStyle("Countdown", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Duration"), prefs.countdown, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Focus sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.focusSound,
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		prefs.launchAtLogin,
		container.NewHBox(widget.NewLabel("Pause work when idle for"), prefs.idleMinutes, widget.NewLabel("min (0 = never)")),
		widget.NewLabelWithStyle("Break overlay", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.breakOverlay,
		container.NewBorder(nil, nil, widget.NewLabel("Opacity"), nil, prefs.opacity),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(460, 680))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.fillDurations(settings.Pomodoro)
	prefs.countdown.SetText(fmt.Sprint(settings.CountdownMinutes))
	prefs.autoLongBreak.SetChecked(settings.Pomodoro.AutoLongBreak)
	prefs.pauseMusic.SetChecked(settings.Pomodoro.PauseMusicOnBreak)
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.idleMinutes.SetText(fmt.Sprint(settings.PauseWhenIdleMinutes))
	prefs.focusSound.SetSelected(settings.FocusSound.Label())
	prefs.breakOverlay.SetChecked(settings.BreakOverlay)
	prefs.opacity.SetValue(settings.OverlayOpacity)
	prefs.selectPreset(settings.Pomodoro)
}

func (prefs *Window) fillDurations(settings model.PomodoroSettings) {
	prefs.work.SetText(fmt.Sprint(settings.WorkMinutes))
	prefs.shortBreak.SetText(fmt.Sprint(settings.ShortBreakMinutes))
	prefs.longBreak.SetText(fmt.Sprint(settings.LongBreakMinutes))
	prefs.sessions.SetText(fmt.Sprint(settings.SessionsBeforeLongBreak))
}

func (prefs *Window) selectPreset(settings model.PomodoroSettings) {
	name := model.MatchPreset(settings)
	if name == "" {
		name = customPreset
	}
	prefs.preset.SetSelectedIndex(indexOf(prefs.preset.Options, name))
}

func (prefs *Window) applyPreset(name string) {
	preset, ok := model.LookupPreset(name)
	if !ok {
		return
	}
	prefs.fillDurations(preset.Apply(prefs.settings.Pomodoro))
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings, err := parseForm(prefs.settings, formValues{
		Work:        prefs.work.Text,
		ShortBreak:  prefs.shortBreak.Text,
		LongBreak:   prefs.longBreak.Text,
		Sessions:    prefs.sessions.Text,
		Countdown:   prefs.countdown.Text,
		IdleMinutes: prefs.idleMinutes.Text,
	})
	if err != nil {
		return prefs.settings, err
	}

	settings.Pomodoro.AutoLongBreak = prefs.autoLongBreak.Checked
	settings.Pomodoro.PauseMusicOnBreak = prefs.pauseMusic.Checked
	settings.Notifications = prefs.notifications.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked
	settings.BreakOverlay = prefs.breakOverlay.Checked
	settings.OverlayOpacity = prefs.opacity.Value
	for _, sound := range engine.FocusSounds {
		if sound.Label() == prefs.focusSound.Selected {
			settings.FocusSound = sound
		}
	}
	return settings, nil
}

// parseForm validates every field and reports all problems together.
func parseForm(settings Settings, values formValues) (Settings, error) {
	var errs []error
	minutes := func(field, value string, target *uint32) {
		parsed, err := parseMinutes(field, value)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = parsed
	}

	minutes("Work", values.Work, &settings.Pomodoro.WorkMinutes)
	minutes("Short break", values.ShortBreak, &settings.Pomodoro.ShortBreakMinutes)
	minutes("Long break", values.LongBreak, &settings.Pomodoro.LongBreakMinutes)
	minutes("Countdown", values.Countdown, &settings.CountdownMinutes)
	minutes("Idle pause", values.IdleMinutes, &settings.PauseWhenIdleMinutes)
	if count, err := parseCount("Sessions per cycle", values.Sessions); err != nil {
		errs = append(errs, err)
	} else {
		settings.Pomodoro.SessionsBeforeLongBreak = count
	}

	return settings, errors.Join(errs...)
}

func indexOf(options []string, value string) int {
	for index, option := range options {
		if option == value {
			return index
		}
	}
	return -1
}
