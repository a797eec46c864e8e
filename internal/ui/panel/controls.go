package panel

import (
	"fmt"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/storage"
)

// controls is the enabled state of the panel buttons.
type controls struct {
	StartPomodoro  bool
	PausePomodoro  bool
	StartBreak     bool
	SkipBreak      bool
	StartCountdown bool
	PauseCountdown bool
	PomodoroStart  string
}

func controlsFor(snapshot engine.Snapshot) controls {
	pomodoro := snapshot.Pomodoro
	active := pomodoro.Running || pomodoro.AwaitingNextSession

	startLabel := "Start"
	if !active && pomodoro.RemainingSeconds > 0 && pomodoro.RemainingSeconds < pomodoro.TotalSeconds {
		startLabel = "Resume"
	}
	if pomodoro.Mode.IsBreak() && !active {
		startLabel = "Start Work"
	}

	return controls{
		StartPomodoro:  !pomodoro.Running || pomodoro.Mode.IsBreak(),
		PausePomodoro:  active,
		StartBreak:     !pomodoro.Mode.IsBreak() || !pomodoro.Running,
		SkipBreak:      pomodoro.Mode.IsBreak() && active,
		StartCountdown: !snapshot.Countdown.Running,
		PauseCountdown: snapshot.Countdown.Running,
		PomodoroStart:  startLabel,
	}
}

func statsLine(stats storage.DailyStats) string {
	return fmt.Sprintf("Today: %d work sessions · %d min focused · %d breaks",
		stats.WorkSessions, stats.FocusSeconds/60, stats.ShortBreaks+stats.LongBreaks)
}
