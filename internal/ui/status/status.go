// Package status derives the text shown by the tray, the main window and the
// terminal UI from an engine snapshot.
package status

import (
	"fmt"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
)

// MenuMode selects which tray menu is shown.
type MenuMode uint8

const (
	MenuIdle MenuMode = iota
	MenuPomodoroRunning
	MenuBreakRunning
	MenuCountdownRunning
)

// ModeOf returns the menu mode for snapshot. A running Pomodoro wins over a
// running countdown.
func ModeOf(snapshot engine.Snapshot) MenuMode {
	switch {
	case snapshot.Pomodoro.Running && snapshot.Pomodoro.Mode.IsBreak():
		return MenuBreakRunning
	case snapshot.Pomodoro.Running:
		return MenuPomodoroRunning
	case snapshot.Countdown.Running:
		return MenuCountdownRunning
	default:
		return MenuIdle
	}
}

// FormatClock renders seconds as mm:ss. Minutes are not wrapped into hours.
func FormatClock(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Title is the tray title.
func Title(snapshot engine.Snapshot) string {
	switch ModeOf(snapshot) {
	case MenuPomodoroRunning:
		return "🍅 " + FormatClock(snapshot.Pomodoro.RemainingSeconds)
	case MenuBreakRunning:
		return "☕ " + FormatClock(snapshot.Pomodoro.RemainingSeconds)
	case MenuCountdownRunning:
		return "⏱ " + FormatClock(snapshot.Countdown.RemainingSeconds)
	default:
		return "🍅 Ready"
	}
}

// Progress returns the elapsed fraction of a session in [0, 1].
func Progress(remaining, total uint32) float64 {
	if total == 0 || remaining >= total {
		return 0
	}
	return float64(total-remaining) / float64(total)
}

// PomodoroLine describes the Pomodoro state in one line.
func PomodoroLine(pomodoro engine.PomodoroState) string {
	switch {
	case pomodoro.AwaitingNextSession:
		return fmt.Sprintf("%s starts in %ds", pomodoro.Mode.Label(), pomodoro.AutoStartRemaining)
	case pomodoro.Running:
		return fmt.Sprintf("%s · %s", pomodoro.Mode.Label(), FormatClock(pomodoro.RemainingSeconds))
	default:
		return fmt.Sprintf("%s · %s (paused)", pomodoro.Mode.Label(), FormatClock(pomodoro.RemainingSeconds))
	}
}

// CycleLine shows progress through the long break cycle.
func CycleLine(pomodoro engine.PomodoroState) string {
	if !pomodoro.Settings.AutoLongBreak {
		return fmt.Sprintf("%d work sessions completed", pomodoro.TotalWorkSessions)
	}
	return fmt.Sprintf("Cycle %d/%d · %d work sessions completed",
		pomodoro.CycleWorkSessions, pomodoro.Settings.SessionsBeforeLongBreak, pomodoro.TotalWorkSessions)
}

// CountdownProgress returns the elapsed fraction of the countdown.
func CountdownProgress(countdown engine.CountdownState) float64 {
	return Progress(countdown.RemainingSeconds, model.MinutesToSeconds(countdown.DurationMinutes))
}

// CountdownLine describes the countdown state in one line.
func CountdownLine(countdown engine.CountdownState) string {
	switch {
	case countdown.Running:
		return "Countdown · " + FormatClock(countdown.RemainingSeconds)
	case countdown.RemainingSeconds == 0:
		return "Countdown finished"
	default:
		return fmt.Sprintf("Countdown · %s of %d min", FormatClock(countdown.RemainingSeconds), countdown.DurationMinutes)
	}
}
