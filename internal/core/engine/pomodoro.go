package engine

import "pomodesk/internal/core/model"

// AutoStartDelaySeconds is how long the engine waits after a session completes
// before the next one starts on its own.
const AutoStartDelaySeconds uint32 = 5

func durationMinutes(mode Mode, settings model.PomodoroSettings) uint32 {
	switch mode {
	case ModeShortBreak:
		return settings.ShortBreakMinutes
	case ModeLongBreak:
		return settings.LongBreakMinutes
	default:
		return settings.WorkMinutes
	}
}

// TotalSecondsFor returns the full length of a session of the given mode.
func TotalSecondsFor(mode Mode, settings model.PomodoroSettings) uint32 {
	return model.MinutesToSeconds(durationMinutes(mode, settings))
}

func newPomodoroState(settings model.PomodoroSettings) PomodoroState {
	total := TotalSecondsFor(ModeWork, settings)
	return PomodoroState{
		Mode:             ModeWork,
		RemainingSeconds: total,
		TotalSeconds:     total,
		Settings:         settings,
	}
}

// advance applies one clock tick. When the running session reaches zero it
// returns the completed mode and the seconds the session actually ran.
func (state *PomodoroState) advance() (Mode, uint32, bool) {
	if state.Running {
		if state.RemainingSeconds > 0 {
			state.RemainingSeconds--
			state.ElapsedSeconds++
		}
		if state.RemainingSeconds > 0 {
			return 0, 0, false
		}

		completed, ran := state.Mode, state.ElapsedSeconds
		state.Running = false
		state.AwaitingNextSession = true
		state.AutoStartRemaining = AutoStartDelaySeconds
		state.TotalSessionsCompleted++
		state.Mode = state.transition(completed)
		state.reload()
		return completed, ran, true
	}

	if state.AwaitingNextSession {
		if state.AutoStartRemaining > 0 {
			state.AutoStartRemaining--
		}
		if state.AutoStartRemaining == 0 {
			state.AwaitingNextSession = false
			state.Running = true
		}
	}
	return 0, 0, false
}

// transition updates the cycle counters for a completed session and returns
// the mode that follows it. The long break threshold is compared against the
// incremented cycle count.
func (state *PomodoroState) transition(completed Mode) Mode {
	switch completed {
	case ModeWork:
		state.TotalWorkSessions++
		state.CycleWorkSessions++
		if state.Settings.AutoLongBreak && state.CycleWorkSessions >= state.Settings.SessionsBeforeLongBreak {
			return ModeLongBreak
		}
		return ModeShortBreak
	case ModeLongBreak:
		state.CycleWorkSessions = 0
		return ModeWork
	default:
		return ModeWork
	}
}

// reload sets the current mode's full length and starts a new session count.
func (state *PomodoroState) reload() {
	state.TotalSeconds = TotalSecondsFor(state.Mode, state.Settings)
	state.RemainingSeconds = state.TotalSeconds
	state.ElapsedSeconds = 0
}

func (state *PomodoroState) clearPending() {
	state.AwaitingNextSession = false
	state.AutoStartRemaining = 0
}

func (state *PomodoroState) idle() bool {
	return !state.Running && !state.AwaitingNextSession
}

func (state *PomodoroState) applySettings(settings model.PomodoroSettings) {
	state.Settings = settings
	if state.idle() {
		state.reload()
		return
	}
	state.TotalSeconds = TotalSecondsFor(state.Mode, settings)
	if state.RemainingSeconds > state.TotalSeconds {
		state.RemainingSeconds = state.TotalSeconds
	}
}

// startWork resumes a paused work session. Any other mode hands its remaining
// time to a new work session.
func (state *PomodoroState) startWork() {
	if state.Mode != ModeWork {
		state.ElapsedSeconds = 0
	}
	state.Mode = ModeWork
	state.TotalSeconds = TotalSecondsFor(ModeWork, state.Settings)
	// Remaining never exceeds the session total, even when a longer break is
	// carried over into work.
	if state.RemainingSeconds == 0 || state.RemainingSeconds > state.TotalSeconds {
		state.reload()
	}
	state.clearPending()
	state.Running = true
}

// restartIn begins a fresh session of mode at its full length.
func (state *PomodoroState) restartIn(mode Mode) {
	state.Mode = mode
	state.reload()
	state.clearPending()
	state.Running = true
}

func (state *PomodoroState) pause() {
	state.Running = false
	state.clearPending()
}

func (state *PomodoroState) reset() {
	state.Running = false
	state.clearPending()
	state.reload()
}
