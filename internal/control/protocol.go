// Package control exposes the engine over a line-delimited JSON protocol on
// the single-instance socket.
package control

import (
	"errors"
	"fmt"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
	"pomodesk/internal/storage"
)

const (
	ActionGetState        = "timer_get_state"
	ActionUpdateSettings  = "pomodoro_update_settings"
	ActionStartPomodoro   = "pomodoro_start"
	ActionPausePomodoro   = "pomodoro_pause"
	ActionResetPomodoro   = "pomodoro_reset"
	ActionStartBreak      = "pomodoro_start_break"
	ActionSkipBreak       = "pomodoro_skip_break"
	ActionStartCountdown  = "countdown_start"
	ActionPauseCountdown  = "countdown_pause"
	ActionResetCountdown  = "countdown_reset"
	ActionSetCountdown    = "countdown_set_duration"
	ActionSetFocusSound   = "focus_sound_set"
	ActionSetPreset       = "preset_set"
	ActionGetStats        = "stats_get"
	errInvalidJSONMessage = "invalid JSON payload"
)

// Request is one line sent by a client.
type Request struct {
	Action   string           `json:"action"`
	Minutes  *uint32          `json:"minutes,omitempty"`
	Sound    string           `json:"sound,omitempty"`
	Preset   string           `json:"preset,omitempty"`
	Day      string           `json:"day,omitempty"`
	Settings *SettingsPayload `json:"settings,omitempty"`
}

// Response is the single line written back for each request.
type Response struct {
	OK    bool                `json:"ok"`
	State *engine.Snapshot    `json:"state,omitempty"`
	Stats *storage.DailyStats `json:"stats,omitempty"`
	Error string              `json:"error,omitempty"`
}

// SettingsPayload carries a full settings replacement. Partial updates are
// rejected.
type SettingsPayload struct {
	WorkMinutes             *uint32 `json:"workMinutes"`
	ShortBreakMinutes       *uint32 `json:"shortBreakMinutes"`
	LongBreakMinutes        *uint32 `json:"longBreakMinutes"`
	SessionsBeforeLongBreak *uint32 `json:"sessionsBeforeLongBreak"`
	AutoLongBreak           *bool   `json:"autoLongBreak"`
	PauseMusicOnBreak       *bool   `json:"pauseMusicOnBreak"`
}

var errIncompleteSettings = errors.New("settings must include every field")

// NewSettingsPayload wraps settings for a request.
func NewSettingsPayload(settings model.PomodoroSettings) *SettingsPayload {
	return &SettingsPayload{
		WorkMinutes:             &settings.WorkMinutes,
		ShortBreakMinutes:       &settings.ShortBreakMinutes,
		LongBreakMinutes:        &settings.LongBreakMinutes,
		SessionsBeforeLongBreak: &settings.SessionsBeforeLongBreak,
		AutoLongBreak:           &settings.AutoLongBreak,
		PauseMusicOnBreak:       &settings.PauseMusicOnBreak,
	}
}

// Settings validates that every field is present.
func (payload *SettingsPayload) Settings() (model.PomodoroSettings, error) {
	if payload == nil ||
		payload.WorkMinutes == nil || payload.ShortBreakMinutes == nil ||
		payload.LongBreakMinutes == nil || payload.SessionsBeforeLongBreak == nil ||
		payload.AutoLongBreak == nil || payload.PauseMusicOnBreak == nil {
		return model.PomodoroSettings{}, errIncompleteSettings
	}
	return model.PomodoroSettings{
		WorkMinutes:             *payload.WorkMinutes,
		ShortBreakMinutes:       *payload.ShortBreakMinutes,
		LongBreakMinutes:        *payload.LongBreakMinutes,
		SessionsBeforeLongBreak: *payload.SessionsBeforeLongBreak,
		AutoLongBreak:           *payload.AutoLongBreak,
		PauseMusicOnBreak:       *payload.PauseMusicOnBreak,
	}, nil
}

func failure(err error) Response {
	return Response{OK: false, Error: err.Error()}
}

func unknownAction(action string) Response {
	return Response{OK: false, Error: fmt.Sprintf("unknown action: %s", action)}
}
