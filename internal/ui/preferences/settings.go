package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Pomodoro         model.PomodoroSettings
	CountdownMinutes uint32
	FocusSound       engine.FocusSound
	Notifications    bool

	LaunchAtLogin        bool
	PauseWhenIdleMinutes uint32

	BreakOverlay   bool
	OverlayOpacity float64
}

// DefaultSettings returns default settings for pomodesk.
func DefaultSettings() Settings {
	return Settings{
		Pomodoro:         model.DefaultPomodoroSettings(),
		CountdownMinutes: model.DefaultCountdownMinutes,
		FocusSound:       engine.FocusSoundOff,
		Notifications:    true,
		BreakOverlay:     true,
		OverlayOpacity:   0.85,
	}
}

// EngineOptions converts settings to engine options.
func (settings Settings) EngineOptions() engine.Options {
	options := engine.DefaultOptions()
	options.Settings = settings.Pomodoro
	options.CountdownMinutes = settings.CountdownMinutes
	options.FocusSound = settings.FocusSound
	return options
}

// FromSnapshot copies the engine-owned fields of a snapshot into settings.
func (settings Settings) FromSnapshot(snapshot engine.Snapshot) Settings {
	settings.Pomodoro = snapshot.Pomodoro.Settings
	settings.CountdownMinutes = snapshot.Countdown.DurationMinutes
	settings.FocusSound = snapshot.FocusSound
	return settings
}

// OverlayAlpha converts OverlayOpacity to an alpha channel value.
func (settings Settings) OverlayAlpha() uint8 {
	opacity := settings.OverlayOpacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}

// parseMinutes accepts any non-negative whole number of minutes.
func parseMinutes(field, value string) (uint32, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: enter a whole number of minutes", field)
	}
	return uint32(parsed), nil
}

// parseCount accepts a session count of at least one.
func parseCount(field, value string) (uint32, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("%s: enter a number greater than zero", field)
	}
	return uint32(parsed), nil
}
