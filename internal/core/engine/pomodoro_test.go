package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodesk/internal/core/model"
)

func runningWork(settings model.PomodoroSettings) PomodoroState {
	state := newPomodoroState(settings)
	state.startWork()
	return state
}

// finish ticks until the running session completes and returns the completed mode.
func finish(t *testing.T, state *PomodoroState) Mode {
	t.Helper()
	require.True(t, state.Running, "session must be running")
	for i := uint32(0); i <= state.TotalSeconds+1; i++ {
		if mode, _, ok := state.advance(); ok {
			return mode
		}
	}
	t.Fatalf("session did not complete")
	return 0
}

func autoStart(state *PomodoroState) {
	for i := uint32(0); i < AutoStartDelaySeconds; i++ {
		state.advance()
	}
}

func TestAdvance_DecrementsWhileRunning(t *testing.T) {
	state := runningWork(model.DefaultPomodoroSettings())

	for n := 1; n <= 100; n++ {
		_, _, completed := state.advance()
		require.False(t, completed)
		assert.Equal(t, uint32(1500-n), state.RemainingSeconds)
	}
}

func TestAdvance_IdleDoesNothing(t *testing.T) {
	state := newPomodoroState(model.DefaultPomodoroSettings())
	before := state

	state.advance()

	assert.Equal(t, before, state)
}

func TestAdvance_Completion(t *testing.T) {
	state := runningWork(model.DefaultPomodoroSettings())
	state.RemainingSeconds = 1

	mode, ran, completed := state.advance()

	require.True(t, completed)
	assert.Equal(t, ModeWork, mode)
	assert.Equal(t, uint32(1), ran)
	assert.Equal(t, uint32(0), state.ElapsedSeconds)
	assert.False(t, state.Running)
	assert.True(t, state.AwaitingNextSession)
	assert.Equal(t, AutoStartDelaySeconds, state.AutoStartRemaining)
	assert.Equal(t, uint32(1), state.TotalSessionsCompleted)
	assert.Equal(t, ModeShortBreak, state.Mode)
	assert.Equal(t, uint32(300), state.TotalSeconds)
	assert.Equal(t, uint32(300), state.RemainingSeconds)
}

func TestAdvance_ZeroLengthSessionExpiresImmediately(t *testing.T) {
	settings := model.DefaultPomodoroSettings()
	settings.WorkMinutes = 0
	state := runningWork(settings)
	require.Equal(t, uint32(0), state.RemainingSeconds)

	mode, ran, completed := state.advance()

	assert.True(t, completed)
	assert.Equal(t, ModeWork, mode)
	assert.Equal(t, uint32(0), ran)
	assert.Equal(t, ModeShortBreak, state.Mode)
}

func TestAdvance_ElapsedFollowsTheSession(t *testing.T) {
	settings := model.DefaultPomodoroSettings()

	t.Run("pause keeps the count", func(t *testing.T) {
		state := runningWork(settings)
		for i := 0; i < 100; i++ {
			state.advance()
		}
		state.pause()
		state.advance()
		state.startWork()

		assert.Equal(t, uint32(100), state.ElapsedSeconds)
		assert.Equal(t, uint32(1400), state.RemainingSeconds)
	})

	t.Run("break carried into work starts over", func(t *testing.T) {
		state := newPomodoroState(settings)
		state.restartIn(ModeShortBreak)
		for i := 0; i < 10; i++ {
			state.advance()
		}
		state.pause()
		state.startWork()

		assert.Equal(t, uint32(0), state.ElapsedSeconds)
		assert.Equal(t, uint32(290), state.RemainingSeconds)
	})

	t.Run("reset clears the count", func(t *testing.T) {
		state := runningWork(settings)
		state.advance()
		state.reset()

		assert.Equal(t, uint32(0), state.ElapsedSeconds)
	})

	t.Run("idle settings change clears the count", func(t *testing.T) {
		state := runningWork(settings)
		state.advance()
		state.pause()
		state.applySettings(settings)

		assert.Equal(t, uint32(0), state.ElapsedSeconds)
		assert.Equal(t, uint32(1500), state.RemainingSeconds)
	})

	t.Run("active settings change keeps the count", func(t *testing.T) {
		state := runningWork(settings)
		state.advance()
		shorter := settings
		shorter.WorkMinutes = 10
		state.applySettings(shorter)

		assert.Equal(t, uint32(1), state.ElapsedSeconds)
		assert.Equal(t, uint32(600), state.RemainingSeconds)
	})
}

func TestTransition(t *testing.T) {
	testCases := []struct {
		name          string
		mode          Mode
		cycle         uint32
		autoLongBreak bool
		wantMode      Mode
		wantCycle     uint32
		wantWork      uint32
	}{
		{name: "work to short break", mode: ModeWork, cycle: 0, autoLongBreak: true, wantMode: ModeShortBreak, wantCycle: 1, wantWork: 1},
		{name: "work reaching threshold", mode: ModeWork, cycle: 3, autoLongBreak: true, wantMode: ModeLongBreak, wantCycle: 4, wantWork: 1},
		{name: "work past threshold", mode: ModeWork, cycle: 7, autoLongBreak: true, wantMode: ModeLongBreak, wantCycle: 8, wantWork: 1},
		{name: "auto long break off", mode: ModeWork, cycle: 3, autoLongBreak: false, wantMode: ModeShortBreak, wantCycle: 4, wantWork: 1},
		{name: "short break to work", mode: ModeShortBreak, cycle: 2, autoLongBreak: true, wantMode: ModeWork, wantCycle: 2, wantWork: 0},
		{name: "long break resets cycle", mode: ModeLongBreak, cycle: 4, autoLongBreak: true, wantMode: ModeWork, wantCycle: 0, wantWork: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			settings := model.DefaultPomodoroSettings()
			settings.AutoLongBreak = tc.autoLongBreak
			state := newPomodoroState(settings)
			state.CycleWorkSessions = tc.cycle

			next := state.transition(tc.mode)

			assert.Equal(t, tc.wantMode, next)
			assert.Equal(t, tc.wantCycle, state.CycleWorkSessions)
			assert.Equal(t, tc.wantWork, state.TotalWorkSessions)
		})
	}
}

func TestAdvance_AutoStartAfterDelay(t *testing.T) {
	state := runningWork(model.DefaultPomodoroSettings())
	finish(t, &state)

	for i := uint32(1); i < AutoStartDelaySeconds; i++ {
		state.advance()
		assert.True(t, state.AwaitingNextSession)
		assert.False(t, state.Running)
		assert.Equal(t, AutoStartDelaySeconds-i, state.AutoStartRemaining)
	}

	state.advance()

	assert.False(t, state.AwaitingNextSession)
	assert.True(t, state.Running)
	assert.Equal(t, uint32(0), state.AutoStartRemaining)
	assert.Equal(t, state.TotalSeconds, state.RemainingSeconds)
	assert.Equal(t, ModeShortBreak, state.Mode)
}

func TestAdvance_LongBreakCycle(t *testing.T) {
	settings := model.DefaultPomodoroSettings()
	settings.WorkMinutes = 1
	settings.ShortBreakMinutes = 1
	settings.LongBreakMinutes = 2
	state := runningWork(settings)

	for session := 1; session <= 3; session++ {
		assert.Equal(t, ModeWork, finish(t, &state))
		assert.Equal(t, ModeShortBreak, state.Mode, "after work session %d", session)
		autoStart(&state)
		assert.Equal(t, ModeShortBreak, finish(t, &state))
		autoStart(&state)
	}

	assert.Equal(t, ModeWork, finish(t, &state))
	assert.Equal(t, ModeLongBreak, state.Mode)
	assert.Equal(t, uint32(4), state.CycleWorkSessions)
	assert.Equal(t, uint32(120), state.TotalSeconds)

	autoStart(&state)
	assert.Equal(t, ModeLongBreak, finish(t, &state))
	assert.Equal(t, ModeWork, state.Mode)
	assert.Equal(t, uint32(0), state.CycleWorkSessions)
	assert.Equal(t, uint32(4), state.TotalWorkSessions)
	assert.Equal(t, uint32(8), state.TotalSessionsCompleted)
}

func TestApplySettings(t *testing.T) {
	shorter := model.DefaultPomodoroSettings()
	shorter.WorkMinutes = 10
	longer := model.DefaultPomodoroSettings()
	longer.WorkMinutes = 30

	t.Run("idle reloads to the new total", func(t *testing.T) {
		state := newPomodoroState(model.DefaultPomodoroSettings())
		state.RemainingSeconds = 100

		state.applySettings(longer)

		assert.Equal(t, uint32(1800), state.TotalSeconds)
		assert.Equal(t, uint32(1800), state.RemainingSeconds)
	})

	t.Run("running shrink clamps down", func(t *testing.T) {
		state := runningWork(model.DefaultPomodoroSettings())
		require.Equal(t, uint32(1500), state.RemainingSeconds)

		state.applySettings(shorter)

		assert.Equal(t, uint32(600), state.TotalSeconds)
		assert.Equal(t, uint32(600), state.RemainingSeconds)
		assert.True(t, state.Running)
	})

	t.Run("running grow keeps remaining", func(t *testing.T) {
		state := runningWork(model.DefaultPomodoroSettings())

		state.applySettings(longer)

		assert.Equal(t, uint32(1800), state.TotalSeconds)
		assert.Equal(t, uint32(1500), state.RemainingSeconds)
	})

	t.Run("awaiting clamps the next session", func(t *testing.T) {
		state := runningWork(model.DefaultPomodoroSettings())
		finish(t, &state)
		require.Equal(t, ModeShortBreak, state.Mode)
		settings := model.DefaultPomodoroSettings()
		settings.ShortBreakMinutes = 2

		state.applySettings(settings)

		assert.True(t, state.AwaitingNextSession)
		assert.Equal(t, uint32(120), state.TotalSeconds)
		assert.Equal(t, uint32(120), state.RemainingSeconds)
	})
}

func TestStartWork(t *testing.T) {
	t.Run("resumes a paused session", func(t *testing.T) {
		state := runningWork(model.DefaultPomodoroSettings())
		state.advance()
		state.pause()

		state.startWork()

		assert.True(t, state.Running)
		assert.Equal(t, uint32(1499), state.RemainingSeconds)
	})

	t.Run("reloads when nothing remains", func(t *testing.T) {
		state := newPomodoroState(model.DefaultPomodoroSettings())
		state.RemainingSeconds = 0

		state.startWork()

		assert.Equal(t, uint32(1500), state.RemainingSeconds)
	})

	t.Run("forces work mode and cancels auto start", func(t *testing.T) {
		state := runningWork(model.DefaultPomodoroSettings())
		finish(t, &state)
		require.True(t, state.AwaitingNextSession)

		state.startWork()

		assert.Equal(t, ModeWork, state.Mode)
		assert.Equal(t, uint32(1500), state.TotalSeconds)
		assert.Equal(t, uint32(300), state.RemainingSeconds)
		assert.False(t, state.AwaitingNextSession)
		assert.Equal(t, uint32(0), state.AutoStartRemaining)
		assert.True(t, state.Running)
	})

	t.Run("never exceeds the work total", func(t *testing.T) {
		state := newPomodoroState(model.DefaultPomodoroSettings())
		state.restartIn(ModeLongBreak)
		state.applySettings(model.PomodoroSettings{WorkMinutes: 10, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4})

		state.startWork()

		assert.Equal(t, uint32(600), state.TotalSeconds)
		assert.Equal(t, uint32(600), state.RemainingSeconds)
	})
}

func TestRestartIn(t *testing.T) {
	state := runningWork(model.DefaultPomodoroSettings())
	state.advance()

	state.restartIn(ModeShortBreak)
	assert.Equal(t, ModeShortBreak, state.Mode)
	assert.Equal(t, uint32(300), state.RemainingSeconds)
	assert.True(t, state.Running)

	state.restartIn(ModeWork)
	assert.Equal(t, ModeWork, state.Mode)
	assert.Equal(t, uint32(1500), state.RemainingSeconds)
}

func TestPause_CancelsAutoStart(t *testing.T) {
	state := runningWork(model.DefaultPomodoroSettings())
	finish(t, &state)
	state.advance()

	state.pause()

	assert.False(t, state.Running)
	assert.False(t, state.AwaitingNextSession)
	assert.Equal(t, uint32(0), state.AutoStartRemaining)

	autoStart(&state)
	assert.False(t, state.Running, "a paused timer must not start on its own")
}

func TestReset_KeepsMode(t *testing.T) {
	state := runningWork(model.DefaultPomodoroSettings())
	finish(t, &state)
	autoStart(&state)
	state.advance()

	state.reset()

	assert.Equal(t, ModeShortBreak, state.Mode)
	assert.False(t, state.Running)
	assert.False(t, state.AwaitingNextSession)
	assert.Equal(t, uint32(300), state.RemainingSeconds)
	assert.Equal(t, uint32(300), state.TotalSeconds)
}
