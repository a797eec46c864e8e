package status

import "pomodesk/internal/core/engine"

// Action identifies a tray menu command.
type Action string

const (
	ActionNone           Action = ""
	ActionStartPomodoro  Action = "start_pomodoro"
	ActionPausePomodoro  Action = "pause_pomodoro"
	ActionResetPomodoro  Action = "reset_pomodoro"
	ActionStartBreak     Action = "start_break"
	ActionSkipBreak      Action = "skip_break"
	ActionStartCountdown Action = "start_countdown"
	ActionPauseCountdown Action = "pause_countdown"
	ActionResetCountdown Action = "reset_countdown"
	ActionFocusSound     Action = "focus_sound"
	ActionOpenApp        Action = "open_app"
	ActionPreferences    Action = "preferences"
	ActionQuit           Action = "quit"
)

// MenuItem is one entry of the tray menu.
type MenuItem struct {
	Label     string
	Action    Action
	Sound     engine.FocusSound
	Disabled  bool
	Checked   bool
	Separator bool
	Children  []MenuItem
}

// Signature captures everything the menu structure depends on. The menu only
// needs rebuilding when it changes.
type Signature struct {
	Mode             MenuMode
	CountdownRunning bool
	FocusSound       engine.FocusSound
}

// SignatureOf returns the menu signature of snapshot.
func SignatureOf(snapshot engine.Snapshot) Signature {
	return Signature{
		Mode:             ModeOf(snapshot),
		CountdownRunning: snapshot.Countdown.Running,
		FocusSound:       snapshot.FocusSound,
	}
}

func header(label string) MenuItem {
	return MenuItem{Label: label, Disabled: true}
}

func item(label string, action Action) MenuItem {
	return MenuItem{Label: label, Action: action}
}

var separator = MenuItem{Separator: true}

// Menu builds the tray menu for snapshot.
func Menu(snapshot engine.Snapshot) []MenuItem {
	var items []MenuItem
	switch ModeOf(snapshot) {
	case MenuPomodoroRunning:
		items = append(items,
			header("Pomodoro · Work"),
			item("⏸ Pause", ActionPausePomodoro),
			item("↺ Reset", ActionResetPomodoro),
			separator,
			item("Start Break", ActionStartBreak),
			separator,
			focusMenu(snapshot.FocusSound),
		)
		items = append(items, countdownItems(snapshot.Countdown)...)
	case MenuBreakRunning:
		items = append(items,
			header("Break Time"),
			item("⏸ Pause", ActionPausePomodoro),
			item("↺ Reset", ActionResetPomodoro),
			separator,
			item("Skip Break", ActionSkipBreak),
			separator,
			focusMenu(snapshot.FocusSound),
		)
		items = append(items, countdownItems(snapshot.Countdown)...)
	case MenuCountdownRunning:
		items = append(items,
			header("Countdown Timer"),
			item("⏸ Pause", ActionPauseCountdown),
			item("↺ Reset", ActionResetCountdown),
			separator,
			focusMenu(snapshot.FocusSound),
		)
	default:
		items = append(items,
			header("Pomodoro Timer"),
			item("Start Pomodoro", ActionStartPomodoro),
			item("Start Countdown", ActionStartCountdown),
			separator,
			focusMenu(snapshot.FocusSound),
		)
	}

	return append(items,
		separator,
		item("Open App", ActionOpenApp),
		item("Preferences…", ActionPreferences),
		item("Quit", ActionQuit),
	)
}

func countdownItems(countdown engine.CountdownState) []MenuItem {
	if countdown.Running {
		return []MenuItem{
			{Label: "Countdown", Children: []MenuItem{
				item("⏸ Pause", ActionPauseCountdown),
				item("↺ Reset", ActionResetCountdown),
			}},
		}
	}
	return []MenuItem{item("Start Countdown", ActionStartCountdown)}
}

func focusMenu(selected engine.FocusSound) MenuItem {
	children := make([]MenuItem, 0, len(engine.FocusSounds))
	for _, sound := range engine.FocusSounds {
		children = append(children, MenuItem{
			Label:   sound.Label(),
			Action:  ActionFocusSound,
			Sound:   sound,
			Checked: sound == selected,
		})
	}
	return MenuItem{Label: "Focus Sound", Children: children}
}
