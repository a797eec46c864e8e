package model

import "math"

// PomodoroSettings holds the durations and cycle policy of the Pomodoro timer.
// Durations are whole minutes. The value is replaced as a unit, never patched.
type PomodoroSettings struct {
	WorkMinutes             uint32 `json:"workMinutes"`
	ShortBreakMinutes       uint32 `json:"shortBreakMinutes"`
	LongBreakMinutes        uint32 `json:"longBreakMinutes"`
	SessionsBeforeLongBreak uint32 `json:"sessionsBeforeLongBreak"`
	AutoLongBreak           bool   `json:"autoLongBreak"`
	PauseMusicOnBreak       bool   `json:"pauseMusicOnBreak"`
}

// DefaultCountdownMinutes is the countdown length used at startup.
const DefaultCountdownMinutes uint32 = 25

// DefaultPomodoroSettings returns the classic 25/5/15 cycle with a long break
// after every fourth work session.
func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		WorkMinutes:             25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
		AutoLongBreak:           true,
		PauseMusicOnBreak:       false,
	}
}

// MinutesToSeconds converts minutes to seconds, saturating at math.MaxUint32.
func MinutesToSeconds(minutes uint32) uint32 {
	if minutes > math.MaxUint32/60 {
		return math.MaxUint32
	}
	return minutes * 60
}
