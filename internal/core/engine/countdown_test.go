package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_RunsToZeroAndStops(t *testing.T) {
	state := newCountdownState(1)
	state.start()

	for i := 0; i < 59; i++ {
		state.advance()
	}
	assert.True(t, state.Running)
	assert.Equal(t, uint32(1), state.RemainingSeconds)

	state.advance()
	assert.False(t, state.Running)
	assert.Equal(t, uint32(0), state.RemainingSeconds)

	state.advance()
	assert.Equal(t, uint32(0), state.RemainingSeconds)
}

func TestCountdown_StartResumesOrRestarts(t *testing.T) {
	state := newCountdownState(2)
	state.start()
	state.advance()
	state.pause()

	state.start()
	assert.Equal(t, uint32(119), state.RemainingSeconds)

	state.RemainingSeconds = 1
	state.advance()
	assert.False(t, state.Running)

	state.start()
	assert.True(t, state.Running)
	assert.Equal(t, uint32(120), state.RemainingSeconds)
}

func TestCountdown_ZeroDurationStopsOnFirstTick(t *testing.T) {
	state := newCountdownState(0)
	state.start()
	assert.True(t, state.Running)

	state.advance()

	assert.False(t, state.Running)
	assert.Equal(t, uint32(0), state.RemainingSeconds)
}

func TestCountdown_ResetIsIdempotent(t *testing.T) {
	state := newCountdownState(10)
	state.start()
	state.advance()
	state.advance()

	state.reset()
	once := state
	state.reset()

	assert.Equal(t, once, state)
	assert.False(t, state.Running)
	assert.Equal(t, uint32(600), state.RemainingSeconds)
}

func TestCountdown_SetDurationStops(t *testing.T) {
	state := newCountdownState(10)
	state.start()
	state.advance()

	state.setDuration(45)

	assert.Equal(t, uint32(45), state.DurationMinutes)
	assert.Equal(t, uint32(2700), state.RemainingSeconds)
	assert.False(t, state.Running)
}
