package engine

import (
	"fmt"
	"time"

	"pomodesk/internal/core/model"
)

// Mode is the current Pomodoro phase.
type Mode uint8

const (
	ModeWork Mode = iota
	ModeShortBreak
	ModeLongBreak
)

func (mode Mode) String() string {
	switch mode {
	case ModeWork:
		return "work"
	case ModeShortBreak:
		return "short_break"
	case ModeLongBreak:
		return "long_break"
	default:
		return fmt.Sprintf("mode(%d)", uint8(mode))
	}
}

// Label returns a human readable name for the mode.
func (mode Mode) Label() string {
	switch mode {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Work"
	}
}

// IsBreak reports whether the mode is one of the break phases.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// MarshalText implements encoding.TextMarshaler.
func (mode Mode) MarshalText() ([]byte, error) {
	return []byte(mode.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "work":
		*mode = ModeWork
	case "short_break":
		*mode = ModeShortBreak
	case "long_break":
		*mode = ModeLongBreak
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

// FocusSound is a background sound hint for presentation layers.
// It has no effect on timer arithmetic.
type FocusSound uint8

const (
	FocusSoundOff FocusSound = iota
	FocusSoundWhite
	FocusSoundRain
	FocusSoundBrown
)

// FocusSounds lists every focus sound in menu order.
var FocusSounds = []FocusSound{FocusSoundOff, FocusSoundWhite, FocusSoundRain, FocusSoundBrown}

func (sound FocusSound) String() string {
	switch sound {
	case FocusSoundOff:
		return "off"
	case FocusSoundWhite:
		return "white"
	case FocusSoundRain:
		return "rain"
	case FocusSoundBrown:
		return "brown"
	default:
		return fmt.Sprintf("sound(%d)", uint8(sound))
	}
}

// Label returns the menu label for the sound.
func (sound FocusSound) Label() string {
	switch sound {
	case FocusSoundWhite:
		return "White noise"
	case FocusSoundRain:
		return "Rain"
	case FocusSoundBrown:
		return "Brown noise"
	default:
		return "Off"
	}
}

// ParseFocusSound parses the text form of a focus sound.
func ParseFocusSound(value string) (FocusSound, error) {
	var sound FocusSound
	err := sound.UnmarshalText([]byte(value))
	return sound, err
}

// MarshalText implements encoding.TextMarshaler.
func (sound FocusSound) MarshalText() ([]byte, error) {
	return []byte(sound.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sound *FocusSound) UnmarshalText(text []byte) error {
	switch string(text) {
	case "off":
		*sound = FocusSoundOff
	case "white":
		*sound = FocusSoundWhite
	case "rain":
		*sound = FocusSoundRain
	case "brown":
		*sound = FocusSoundBrown
	default:
		return fmt.Errorf("unknown focus sound %q", text)
	}
	return nil
}

// SessionKind is the label carried by completion events.
// Short and long breaks share the same kind.
type SessionKind string

const (
	KindWork  SessionKind = "work"
	KindBreak SessionKind = "break"
)

// KindOf maps a mode to its completion kind.
func KindOf(mode Mode) SessionKind {
	if mode.IsBreak() {
		return KindBreak
	}
	return KindWork
}

// PomodoroState is the Pomodoro half of a snapshot.
type PomodoroState struct {
	Mode                   Mode                   `json:"mode"`
	Running                bool                   `json:"running"`
	RemainingSeconds       uint32                 `json:"remainingSeconds"`
	TotalSeconds           uint32                 `json:"totalSeconds"`
	ElapsedSeconds         uint32                 `json:"elapsedSeconds"`
	AwaitingNextSession    bool                   `json:"awaitingNextSession"`
	AutoStartRemaining     uint32                 `json:"autoStartRemaining"`
	CycleWorkSessions      uint32                 `json:"cycleWorkSessions"`
	TotalWorkSessions      uint32                 `json:"totalWorkSessions"`
	TotalSessionsCompleted uint32                 `json:"totalSessionsCompleted"`
	Settings               model.PomodoroSettings `json:"settings"`
}

// CountdownState is the one-shot countdown half of a snapshot.
type CountdownState struct {
	DurationMinutes  uint32 `json:"durationMinutes"`
	RemainingSeconds uint32 `json:"remainingSeconds"`
	Running          bool   `json:"running"`
}

// Snapshot is a consistent copy of the whole timer state taken at one instant.
// Version grows by one with every tick and command.
type Snapshot struct {
	Pomodoro   PomodoroState  `json:"pomodoro"`
	Countdown  CountdownState `json:"countdown"`
	FocusSound FocusSound     `json:"focusSound"`
	Version    uint64         `json:"version"`
}

// Completion describes a Pomodoro session that just ran to zero.
type Completion struct {
	Mode    Mode        `json:"mode"`
	Kind    SessionKind `json:"kind"`
	Seconds uint32      `json:"seconds"`
	At      time.Time   `json:"at"`
}

// Sink receives every snapshot the engine publishes.
type Sink interface {
	Render(Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Snapshot) error

// Render calls fn(snapshot).
func (fn SinkFunc) Render(snapshot Snapshot) error {
	return fn(snapshot)
}

// CompletionHandler is notified when a Pomodoro session completes.
type CompletionHandler interface {
	SessionCompleted(Completion) error
}

// CompletionFunc adapts a function to CompletionHandler.
type CompletionFunc func(Completion) error

// SessionCompleted calls fn(completion).
func (fn CompletionFunc) SessionCompleted(completion Completion) error {
	return fn(completion)
}

// Commander is the command surface presentation layers drive.
type Commander interface {
	Snapshot() Snapshot
	UpdateSettings(model.PomodoroSettings)
	ApplyPreset(name string) error
	StartPomodoro()
	StartBreak()
	SkipBreak()
	PausePomodoro()
	ResetPomodoro()
	StartCountdown()
	PauseCountdown()
	ResetCountdown()
	SetCountdownDuration(minutes uint32)
	SetFocusSound(FocusSound)
}
