package engine

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodesk/internal/core/model"
)

var fixedNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, mutate func(*Options)) *Engine {
	t.Helper()
	options := DefaultOptions()
	options.Logger = log.New(io.Discard)
	options.Now = func() time.Time { return fixedNow }
	if mutate != nil {
		mutate(&options)
	}
	return New(options)
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (sink *recordingSink) Render(snapshot Snapshot) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.snapshots = append(sink.snapshots, snapshot)
	return nil
}

func (sink *recordingSink) all() []Snapshot {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]Snapshot(nil), sink.snapshots...)
}

func tickN(engine *Engine, n int) {
	for i := 0; i < n; i++ {
		engine.Tick()
	}
}

func TestNew_InitialState(t *testing.T) {
	engine := newTestEngine(t, nil)

	snapshot := engine.Snapshot()

	assert.Equal(t, ModeWork, snapshot.Pomodoro.Mode)
	assert.False(t, snapshot.Pomodoro.Running)
	assert.Equal(t, uint32(1500), snapshot.Pomodoro.RemainingSeconds)
	assert.Equal(t, uint32(1500), snapshot.Pomodoro.TotalSeconds)
	assert.Equal(t, model.DefaultPomodoroSettings(), snapshot.Pomodoro.Settings)
	assert.Equal(t, uint32(25), snapshot.Countdown.DurationMinutes)
	assert.Equal(t, uint32(1500), snapshot.Countdown.RemainingSeconds)
	assert.Equal(t, FocusSoundOff, snapshot.FocusSound)
	assert.Equal(t, uint64(0), snapshot.Version)
}

func TestEngine_PublishesEveryChange(t *testing.T) {
	engine := newTestEngine(t, nil)
	sink := &recordingSink{}
	engine.AddSink(sink)

	engine.StartPomodoro()
	engine.Tick()
	engine.PausePomodoro()

	snapshots := sink.all()
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0].Pomodoro.Running)
	assert.Equal(t, uint32(1499), snapshots[1].Pomodoro.RemainingSeconds)
	assert.False(t, snapshots[2].Pomodoro.Running)
	for i, snapshot := range snapshots {
		assert.Equal(t, uint64(i+1), snapshot.Version)
	}
}

func TestEngine_EmitDoesNotChangeState(t *testing.T) {
	engine := newTestEngine(t, nil)
	sink := &recordingSink{}
	engine.AddSink(sink)

	engine.Emit()

	snapshots := sink.all()
	require.Len(t, snapshots, 1)
	assert.Equal(t, uint64(0), snapshots[0].Version)
	assert.Equal(t, engine.Snapshot(), snapshots[0])
}

func TestEngine_TickDrivesBothTimers(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.StartPomodoro()
	engine.StartCountdown()

	tickN(engine, 10)

	snapshot := engine.Snapshot()
	assert.Equal(t, uint32(1490), snapshot.Pomodoro.RemainingSeconds)
	assert.Equal(t, uint32(1490), snapshot.Countdown.RemainingSeconds)
}

func TestEngine_CompletionDispatch(t *testing.T) {
	engine := newTestEngine(t, func(options *Options) {
		options.Settings.WorkMinutes = 1
		options.Settings.ShortBreakMinutes = 1
	})
	var completions []Completion
	engine.AddCompletionHandler(CompletionFunc(func(completion Completion) error {
		completions = append(completions, completion)
		return nil
	}))

	engine.StartPomodoro()
	tickN(engine, 60)
	require.Len(t, completions, 1)
	assert.Equal(t, Completion{Mode: ModeWork, Kind: KindWork, Seconds: 60, At: fixedNow}, completions[0])

	tickN(engine, int(AutoStartDelaySeconds)+60)
	require.Len(t, completions, 2)
	assert.Equal(t, ModeShortBreak, completions[1].Mode)
	assert.Equal(t, KindBreak, completions[1].Kind)

	snapshot := engine.Snapshot()
	assert.Equal(t, ModeWork, snapshot.Pomodoro.Mode)
	assert.True(t, snapshot.Pomodoro.AwaitingNextSession)
	assert.Equal(t, uint32(2), snapshot.Pomodoro.TotalSessionsCompleted)
}

func TestEngine_CompletionReportsRunningTime(t *testing.T) {
	engine := newTestEngine(t, nil)
	var completions []Completion
	engine.AddCompletionHandler(CompletionFunc(func(completion Completion) error {
		completions = append(completions, completion)
		return nil
	}))

	engine.StartBreak()
	engine.PausePomodoro()
	engine.StartPomodoro()
	require.Equal(t, uint32(300), engine.Snapshot().Pomodoro.RemainingSeconds)

	tickN(engine, 300)

	require.Len(t, completions, 1)
	assert.Equal(t, ModeWork, completions[0].Mode)
	assert.Equal(t, uint32(300), completions[0].Seconds)
}

func TestEngine_CompletionSeenBySinkAfterHandler(t *testing.T) {
	engine := newTestEngine(t, func(options *Options) {
		options.Settings.WorkMinutes = 1
	})
	var order []string
	engine.AddCompletionHandler(CompletionFunc(func(Completion) error {
		order = append(order, "handler")
		return nil
	}))
	engine.AddSink(SinkFunc(func(snapshot Snapshot) error {
		if snapshot.Pomodoro.AwaitingNextSession && snapshot.Pomodoro.AutoStartRemaining == AutoStartDelaySeconds {
			order = append(order, "sink")
		}
		return nil
	}))

	engine.StartPomodoro()
	tickN(engine, 60)

	assert.Equal(t, []string{"handler", "sink"}, order)
}

func TestEngine_FailingObserversAreIsolated(t *testing.T) {
	engine := newTestEngine(t, func(options *Options) {
		options.Settings.WorkMinutes = 0
	})
	engine.AddSink(SinkFunc(func(Snapshot) error { return errors.New("window closed") }))
	engine.AddSink(SinkFunc(func(Snapshot) error { panic("broken tray") }))
	sink := &recordingSink{}
	engine.AddSink(sink)

	engine.AddCompletionHandler(CompletionFunc(func(Completion) error { panic("broken notifier") }))
	engine.AddCompletionHandler(CompletionFunc(func(Completion) error { return errors.New("no daemon") }))
	var delivered int
	engine.AddCompletionHandler(CompletionFunc(func(Completion) error {
		delivered++
		return nil
	}))

	require.NotPanics(t, func() {
		engine.StartPomodoro()
		engine.Tick()
	})

	assert.Len(t, sink.all(), 2)
	assert.Equal(t, 1, delivered)

	engine.PausePomodoro()
	assert.False(t, engine.Snapshot().Pomodoro.Running, "engine must keep accepting commands")
}

func TestEngine_SettingsShrinkClamp(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.StartPomodoro()
	require.Equal(t, uint32(1500), engine.Snapshot().Pomodoro.RemainingSeconds)

	settings := model.DefaultPomodoroSettings()
	settings.WorkMinutes = 10
	engine.UpdateSettings(settings)

	snapshot := engine.Snapshot()
	assert.Equal(t, uint32(600), snapshot.Pomodoro.TotalSeconds)
	assert.Equal(t, uint32(600), snapshot.Pomodoro.RemainingSeconds)
	assert.True(t, snapshot.Pomodoro.Running)
}

func TestEngine_SettingsGrowKeepsRemaining(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.StartPomodoro()

	settings := model.DefaultPomodoroSettings()
	settings.WorkMinutes = 30
	engine.UpdateSettings(settings)

	snapshot := engine.Snapshot()
	assert.Equal(t, uint32(1800), snapshot.Pomodoro.TotalSeconds)
	assert.Equal(t, uint32(1500), snapshot.Pomodoro.RemainingSeconds)
}

func TestEngine_ApplyPreset(t *testing.T) {
	engine := newTestEngine(t, func(options *Options) {
		options.Settings.AutoLongBreak = false
		options.Settings.PauseMusicOnBreak = true
	})

	require.NoError(t, engine.ApplyPreset("Deep 50/10"))

	settings := engine.Snapshot().Pomodoro.Settings
	preset, ok := model.LookupPreset("Deep 50/10")
	require.True(t, ok)
	assert.Equal(t, preset.WorkMinutes, settings.WorkMinutes)
	assert.Equal(t, preset.SessionsBeforeLongBreak, settings.SessionsBeforeLongBreak)
	assert.False(t, settings.AutoLongBreak)
	assert.True(t, settings.PauseMusicOnBreak)
	assert.Equal(t, model.MinutesToSeconds(preset.WorkMinutes), engine.Snapshot().Pomodoro.RemainingSeconds)
}

func TestEngine_ApplyUnknownPreset(t *testing.T) {
	engine := newTestEngine(t, nil)
	before := engine.Snapshot()

	err := engine.ApplyPreset("Marathon")

	require.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), `"Marathon"`)
	assert.Equal(t, before, engine.Snapshot())
}

func TestEngine_BreakCommands(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.StartPomodoro()
	tickN(engine, 30)

	engine.StartBreak()
	snapshot := engine.Snapshot()
	assert.Equal(t, ModeShortBreak, snapshot.Pomodoro.Mode)
	assert.Equal(t, uint32(300), snapshot.Pomodoro.RemainingSeconds)
	assert.True(t, snapshot.Pomodoro.Running)
	assert.Equal(t, uint32(0), snapshot.Pomodoro.TotalWorkSessions, "a manual break does not count as a completed session")

	engine.SkipBreak()
	snapshot = engine.Snapshot()
	assert.Equal(t, ModeWork, snapshot.Pomodoro.Mode)
	assert.Equal(t, uint32(1500), snapshot.Pomodoro.RemainingSeconds)
	assert.True(t, snapshot.Pomodoro.Running)
}

func TestEngine_PauseCancelsAutoStart(t *testing.T) {
	engine := newTestEngine(t, func(options *Options) {
		options.Settings.WorkMinutes = 0
	})
	engine.StartPomodoro()
	engine.Tick()
	require.True(t, engine.Snapshot().Pomodoro.AwaitingNextSession)

	engine.PausePomodoro()
	tickN(engine, 10)

	snapshot := engine.Snapshot()
	assert.False(t, snapshot.Pomodoro.Running)
	assert.False(t, snapshot.Pomodoro.AwaitingNextSession)
	assert.Equal(t, ModeShortBreak, snapshot.Pomodoro.Mode)
}

func TestEngine_ResetPomodoro(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.StartPomodoro()
	tickN(engine, 42)

	engine.ResetPomodoro()

	snapshot := engine.Snapshot()
	assert.False(t, snapshot.Pomodoro.Running)
	assert.Equal(t, uint32(1500), snapshot.Pomodoro.RemainingSeconds)
}

func TestEngine_CountdownCommands(t *testing.T) {
	engine := newTestEngine(t, nil)

	engine.SetCountdownDuration(1)
	engine.StartCountdown()
	tickN(engine, 20)
	engine.PauseCountdown()
	tickN(engine, 5)
	assert.Equal(t, uint32(40), engine.Snapshot().Countdown.RemainingSeconds)

	engine.StartCountdown()
	tickN(engine, 40)
	snapshot := engine.Snapshot()
	assert.False(t, snapshot.Countdown.Running)
	assert.Equal(t, uint32(0), snapshot.Countdown.RemainingSeconds)

	engine.ResetCountdown()
	first := engine.Snapshot().Countdown
	engine.ResetCountdown()
	assert.Equal(t, first, engine.Snapshot().Countdown)
	assert.Equal(t, uint32(60), first.RemainingSeconds)
}

func TestEngine_FocusSoundIsOnlyAHint(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.StartPomodoro()
	before := engine.Snapshot()

	engine.SetFocusSound(FocusSoundRain)

	after := engine.Snapshot()
	assert.Equal(t, FocusSoundRain, after.FocusSound)
	assert.Equal(t, before.Pomodoro, after.Pomodoro)
	assert.Equal(t, before.Countdown, after.Countdown)
}

func TestEngine_SubscribeDropsWhenFull(t *testing.T) {
	engine := newTestEngine(t, nil)
	updates := engine.Subscribe(1)

	engine.StartCountdown()
	engine.Tick()
	engine.Tick()

	first := <-updates
	assert.Equal(t, uint64(1), first.Version)
	select {
	case extra := <-updates:
		t.Fatalf("unexpected snapshot %d", extra.Version)
	default:
	}

	engine.Tick()
	assert.Equal(t, uint64(4), (<-updates).Version)
}

func TestEngine_ConcurrentCommandsAndTicks(t *testing.T) {
	const commands = 200
	const ticks = 300

	engine := newTestEngine(t, func(options *Options) {
		options.CountdownMinutes = 60
	})
	engine.StartCountdown()

	var seen sync.Map
	engine.AddSink(SinkFunc(func(snapshot Snapshot) error {
		if _, loaded := seen.LoadOrStore(snapshot.Version, struct{}{}); loaded {
			return errors.New("duplicate version")
		}
		return nil
	}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < ticks; i++ {
			engine.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < commands; i++ {
			engine.SetFocusSound(FocusSounds[i%len(FocusSounds)])
		}
	}()
	wg.Wait()

	snapshot := engine.Snapshot()
	assert.Equal(t, uint64(1+commands+ticks), snapshot.Version)
	assert.Equal(t, uint32(3600-ticks), snapshot.Countdown.RemainingSeconds)
	assert.Equal(t, FocusSounds[(commands-1)%len(FocusSounds)], snapshot.FocusSound)

	var versions int
	seen.Range(func(any, any) bool {
		versions++
		return true
	})
	assert.Equal(t, commands+ticks, versions)
}
