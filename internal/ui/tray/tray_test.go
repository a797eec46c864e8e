package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
	"pomodesk/internal/ui/status"
)

type fakeApp struct {
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (app *fakeApp) SetSystemTrayMenu(menu *fyne.Menu)    { app.menus = append(app.menus, menu) }
func (app *fakeApp) SetSystemTrayIcon(icon fyne.Resource) { app.icons = append(app.icons, icon) }

type fakeCommander struct {
	engine.Commander
	calls []string
	sound engine.FocusSound
}

func (c *fakeCommander) StartPomodoro()  { c.calls = append(c.calls, "start_pomodoro") }
func (c *fakeCommander) PausePomodoro()  { c.calls = append(c.calls, "pause_pomodoro") }
func (c *fakeCommander) ResetPomodoro()  { c.calls = append(c.calls, "reset_pomodoro") }
func (c *fakeCommander) StartBreak()     { c.calls = append(c.calls, "start_break") }
func (c *fakeCommander) SkipBreak()      { c.calls = append(c.calls, "skip_break") }
func (c *fakeCommander) StartCountdown() { c.calls = append(c.calls, "start_countdown") }
func (c *fakeCommander) PauseCountdown() { c.calls = append(c.calls, "pause_countdown") }
func (c *fakeCommander) ResetCountdown() { c.calls = append(c.calls, "reset_countdown") }
func (c *fakeCommander) SetFocusSound(sound engine.FocusSound) {
	c.calls = append(c.calls, "focus_sound")
	c.sound = sound
}

var (
	idleIcon  = fyne.NewStaticResource("idle.svg", nil)
	workIcon  = fyne.NewStaticResource("work.svg", nil)
	breakIcon = fyne.NewStaticResource("break.svg", nil)
)

func newTestManager(callbacks Callbacks) (*Manager, *fakeApp, *fakeCommander) {
	app := &fakeApp{}
	commander := &fakeCommander{}
	manager := New(app, commander, Icons{Idle: idleIcon, Work: workIcon, Break: breakIcon}, callbacks)
	manager.do = func(fn func()) { fn() }
	manager.refresh = func(*fyne.Menu) {}
	return manager, app, commander
}

func workSnapshot(remaining uint32) engine.Snapshot {
	return engine.Snapshot{Pomodoro: engine.PomodoroState{
		Mode:             engine.ModeWork,
		Running:          true,
		RemainingSeconds: remaining,
		TotalSeconds:     1500,
		Settings:         model.DefaultPomodoroSettings(),
	}}
}

func TestRender_RebuildsOnlyOnSignatureChange(t *testing.T) {
	manager, app, _ := newTestManager(Callbacks{})

	require.NoError(t, manager.Render(workSnapshot(1500)))
	require.NoError(t, manager.Render(workSnapshot(1499)))
	require.NoError(t, manager.Render(workSnapshot(1498)))

	assert.Len(t, app.menus, 1)
	assert.Equal(t, 1, manager.menuBuilds)
	assert.Equal(t, "🍅 24:58", manager.titleItem.Label)
	assert.Same(t, app.menus[0].Items[0], manager.titleItem)
	assert.Equal(t, []fyne.Resource{workIcon}, app.icons)

	paused := workSnapshot(1498)
	paused.Pomodoro.Running = false
	require.NoError(t, manager.Render(paused))

	assert.Len(t, app.menus, 2)
	assert.Equal(t, "🍅 Ready", manager.titleItem.Label)
	assert.Equal(t, []fyne.Resource{workIcon, idleIcon}, app.icons)
}

func TestRender_BreakUsesBreakIcon(t *testing.T) {
	manager, app, _ := newTestManager(Callbacks{})
	snapshot := workSnapshot(300)
	snapshot.Pomodoro.Mode = engine.ModeShortBreak

	require.NoError(t, manager.Render(snapshot))

	assert.Equal(t, []fyne.Resource{breakIcon}, app.icons)
	assert.Equal(t, "☕ 05:00", manager.titleItem.Label)
}

func TestRender_DropsStaleFrames(t *testing.T) {
	manager, app, _ := newTestManager(Callbacks{})

	paused := workSnapshot(1400)
	paused.Pomodoro.Running = false
	paused.Version = 9
	require.NoError(t, manager.Render(paused))

	tick := workSnapshot(1401)
	tick.Version = 8
	require.NoError(t, manager.Render(tick))

	assert.Len(t, app.menus, 1)
	assert.Equal(t, "🍅 Ready", manager.titleItem.Label)
	assert.Equal(t, uint64(9), manager.lastVersion)
}

func findItem(items []*fyne.MenuItem, label string) *fyne.MenuItem {
	for _, item := range items {
		if item.Label == label {
			return item
		}
		if item.ChildMenu != nil {
			if found := findItem(item.ChildMenu.Items, label); found != nil {
				return found
			}
		}
	}
	return nil
}

func TestMenuActions(t *testing.T) {
	quit := 0
	manager, app, commander := newTestManager(Callbacks{OnQuit: func() { quit++ }})
	require.NoError(t, manager.Render(workSnapshot(1200)))
	items := app.menus[0].Items

	findItem(items, "Start Break").Action()
	findItem(items, "Brown noise").Action()
	findItem(items, "Quit").Action()

	assert.Equal(t, []string{"start_break", "focus_sound"}, commander.calls)
	assert.Equal(t, engine.FocusSoundBrown, commander.sound)
	assert.Equal(t, 1, quit)
}

func TestDispatch(t *testing.T) {
	opened := false
	manager, _, commander := newTestManager(Callbacks{OnOpenApp: func() { opened = true }})

	for _, action := range []status.Action{
		status.ActionStartPomodoro,
		status.ActionPausePomodoro,
		status.ActionResetPomodoro,
		status.ActionSkipBreak,
		status.ActionStartCountdown,
		status.ActionPauseCountdown,
		status.ActionResetCountdown,
		status.ActionPreferences,
		status.ActionOpenApp,
	} {
		manager.Dispatch(status.MenuItem{Action: action})
	}

	assert.Equal(t, []string{
		"start_pomodoro", "pause_pomodoro", "reset_pomodoro", "skip_break",
		"start_countdown", "pause_countdown", "reset_countdown",
	}, commander.calls)
	assert.True(t, opened)
}
