package engine

import "pomodesk/internal/core/model"

func newCountdownState(minutes uint32) CountdownState {
	return CountdownState{
		DurationMinutes:  minutes,
		RemainingSeconds: model.MinutesToSeconds(minutes),
	}
}

func (state *CountdownState) advance() {
	if !state.Running {
		return
	}
	if state.RemainingSeconds > 0 {
		state.RemainingSeconds--
	}
	if state.RemainingSeconds == 0 {
		state.Running = false
	}
}

// start resumes a paused countdown where it left off and restarts a finished
// one from its full duration.
func (state *CountdownState) start() {
	if state.RemainingSeconds == 0 {
		state.RemainingSeconds = model.MinutesToSeconds(state.DurationMinutes)
	}
	state.Running = true
}

func (state *CountdownState) pause() {
	state.Running = false
}

func (state *CountdownState) reset() {
	state.Running = false
	state.RemainingSeconds = model.MinutesToSeconds(state.DurationMinutes)
}

func (state *CountdownState) setDuration(minutes uint32) {
	state.DurationMinutes = minutes
	state.RemainingSeconds = model.MinutesToSeconds(minutes)
	state.Running = false
}
