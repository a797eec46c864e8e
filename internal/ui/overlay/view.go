package overlay

import (
	"fmt"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/ui/status"
)

// view is the text content of the overlay for one snapshot.
type view struct {
	Title    string
	Subtitle string
	Timer    string
	Progress float64
	CanSkip  bool
}

// viewFor returns the overlay content and whether the overlay should be shown.
// The overlay covers running breaks and the auto-start delay leading into one.
func viewFor(snapshot engine.Snapshot) (view, bool) {
	pomodoro := snapshot.Pomodoro
	if !pomodoro.Mode.IsBreak() {
		return view{}, false
	}

	switch {
	case pomodoro.AwaitingNextSession:
		return view{
			Title:    pomodoro.Mode.Label(),
			Subtitle: "Work session complete",
			Timer:    fmt.Sprintf("starts in %ds", pomodoro.AutoStartRemaining),
			CanSkip:  true,
		}, true
	case pomodoro.Running:
		return view{
			Title:    pomodoro.Mode.Label(),
			Subtitle: subtitleFor(pomodoro.Mode),
			Timer:    status.FormatClock(pomodoro.RemainingSeconds),
			Progress: status.Progress(pomodoro.RemainingSeconds, pomodoro.TotalSeconds),
			CanSkip:  true,
		}, true
	default:
		return view{}, false
	}
}

func subtitleFor(mode engine.Mode) string {
	if mode == engine.ModeLongBreak {
		return "Step away and stretch"
	}
	return "Look away from the screen"
}
