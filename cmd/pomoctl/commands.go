package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pomodesk/internal/control"
	"pomodesk/internal/ui/status"
)

var errUsage = errors.New("missing or invalid command, run pomoctl -h for help")

// doer is the part of control.Client that buildRequest needs.
type doer interface {
	Do(ctx context.Context, request control.Request) (control.Response, error)
}

var simpleCommands = map[string]string{
	"status": control.ActionGetState,
	"start":  control.ActionStartPomodoro,
	"pause":  control.ActionPausePomodoro,
	"reset":  control.ActionResetPomodoro,
	"break":  control.ActionStartBreak,
	"skip":   control.ActionSkipBreak,
}

var countdownCommands = map[string]string{
	"start": control.ActionStartCountdown,
	"pause": control.ActionPauseCountdown,
	"reset": control.ActionResetCountdown,
}

func buildRequest(ctx context.Context, client doer, args []string) (control.Request, error) {
	if len(args) == 0 {
		return control.Request{Action: control.ActionGetState}, nil
	}

	command, rest := args[0], args[1:]
	if action, ok := simpleCommands[command]; ok && len(rest) == 0 {
		return control.Request{Action: action}, nil
	}

	switch command {
	case "countdown":
		return countdownRequest(rest)
	case "sound":
		if len(rest) != 1 {
			return control.Request{}, errUsage
		}
		return control.Request{Action: control.ActionSetFocusSound, Sound: rest[0]}, nil
	case "preset":
		if len(rest) == 0 {
			return control.Request{}, errUsage
		}
		return control.Request{Action: control.ActionSetPreset, Preset: strings.Join(rest, " ")}, nil
	case "stats":
		if len(rest) > 1 {
			return control.Request{}, errUsage
		}
		request := control.Request{Action: control.ActionGetStats}
		if len(rest) == 1 {
			request.Day = rest[0]
		}
		return request, nil
	case "settings":
		return settingsRequest(ctx, client, rest)
	}
	return control.Request{}, fmt.Errorf("unknown command %q: %w", command, errUsage)
}

func countdownRequest(args []string) (control.Request, error) {
	if len(args) == 1 {
		if action, ok := countdownCommands[args[0]]; ok {
			return control.Request{Action: action}, nil
		}
	}
	if len(args) == 2 && args[0] == "set" {
		minutes, err := parseUint(args[1])
		if err != nil {
			return control.Request{}, fmt.Errorf("countdown minutes: %w", err)
		}
		return control.Request{Action: control.ActionSetCountdown, Minutes: &minutes}, nil
	}
	return control.Request{}, errUsage
}

// settingsRequest starts from the running settings so that key=value pairs
// only change what they name.
func settingsRequest(ctx context.Context, client doer, args []string) (control.Request, error) {
	if len(args) == 0 {
		return control.Request{}, errUsage
	}
	current, err := client.Do(ctx, control.Request{Action: control.ActionGetState})
	if err != nil {
		return control.Request{}, err
	}
	if !current.OK || current.State == nil {
		return control.Request{}, fmt.Errorf("read current settings: %s", current.Error)
	}
	settings := current.State.Pomodoro.Settings

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return control.Request{}, fmt.Errorf("setting %q: expected key=value", arg)
		}
		var err error
		switch key {
		case "work":
			settings.WorkMinutes, err = parseUint(value)
		case "short":
			settings.ShortBreakMinutes, err = parseUint(value)
		case "long":
			settings.LongBreakMinutes, err = parseUint(value)
		case "sessions":
			settings.SessionsBeforeLongBreak, err = parseUint(value)
		case "auto-long":
			settings.AutoLongBreak, err = strconv.ParseBool(value)
		case "pause-music":
			settings.PauseMusicOnBreak, err = strconv.ParseBool(value)
		default:
			return control.Request{}, fmt.Errorf("unknown setting %q", key)
		}
		if err != nil {
			return control.Request{}, fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return control.Request{Action: control.ActionUpdateSettings, Settings: control.NewSettingsPayload(settings)}, nil
}

func parseUint(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", value)
	}
	return uint32(parsed), nil
}

func render(response control.Response) string {
	var b strings.Builder
	if response.State != nil {
		state := response.State
		fmt.Fprintf(&b, "%s\n", status.Title(*state))
		fmt.Fprintf(&b, "pomodoro:  %s\n", status.PomodoroLine(state.Pomodoro))
		fmt.Fprintf(&b, "           %s\n", status.CycleLine(state.Pomodoro))
		fmt.Fprintf(&b, "countdown: %s\n", status.CountdownLine(state.Countdown))
		fmt.Fprintf(&b, "sound:     %s\n", state.FocusSound.Label())
	}
	if response.Stats != nil {
		stats := response.Stats
		fmt.Fprintf(&b, "%s: %d work sessions, %d short breaks, %d long breaks\n",
			stats.Day, stats.WorkSessions, stats.ShortBreaks, stats.LongBreaks)
		fmt.Fprintf(&b, "focus %d min, breaks %d min\n", stats.FocusSeconds/60, stats.BreakSeconds/60)
	}
	return b.String()
}
