package tray

import (
	"sync"

	"fyne.io/fyne/v2"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/ui/status"
)

// Callbacks defines handlers for the menu entries that are not timer commands.
type Callbacks struct {
	OnOpenApp     func()
	OnPreferences func()
	OnQuit        func()
}

// Icons holds the tray icon per menu mode. Nil entries leave the icon alone.
type Icons struct {
	Idle      fyne.Resource
	Work      fyne.Resource
	Break     fyne.Resource
	Countdown fyne.Resource
}

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Manager keeps the system tray in sync with the engine.
type Manager struct {
	app       App
	commander engine.Commander
	callbacks Callbacks
	icons     Icons
	do        func(func())
	refresh   func(*fyne.Menu)

	mu          sync.Mutex
	menu        *fyne.Menu
	titleItem   *fyne.MenuItem
	signature   status.Signature
	hasMenu     bool
	lastTitle   string
	lastVersion uint64
	menuBuilds  int
}

// New creates a tray manager. Render must be registered as an engine sink.
func New(app App, commander engine.Commander, icons Icons, callbacks Callbacks) *Manager {
	return &Manager{
		app:       app,
		commander: commander,
		callbacks: callbacks,
		icons:     icons,
		do:        fyne.Do,
		refresh:   (*fyne.Menu).Refresh,
	}
}

// Render updates the tray from snapshot. The menu is rebuilt only when its
// structure changes; otherwise only the title entry is relabelled.
func (manager *Manager) Render(snapshot engine.Snapshot) error {
	title := status.Title(snapshot)
	signature := status.SignatureOf(snapshot)

	manager.do(func() {
		manager.mu.Lock()
		defer manager.mu.Unlock()

		if snapshot.Version != 0 && snapshot.Version < manager.lastVersion {
			return
		}
		manager.lastVersion = snapshot.Version

		if !manager.hasMenu || signature != manager.signature {
			manager.rebuildLocked(snapshot, title)
			manager.signature = signature
			manager.hasMenu = true
			return
		}
		if title == manager.lastTitle {
			return
		}
		manager.lastTitle = title
		manager.titleItem.Label = title
		manager.refresh(manager.menu)
	})
	return nil
}

func (manager *Manager) rebuildLocked(snapshot engine.Snapshot, title string) {
	manager.titleItem = fyne.NewMenuItem(title, nil)
	manager.titleItem.Disabled = true

	items := append([]*fyne.MenuItem{manager.titleItem}, manager.convert(status.Menu(snapshot))...)
	manager.menu = fyne.NewMenu("Pomodesk", items...)
	manager.lastTitle = title
	manager.menuBuilds++

	manager.app.SetSystemTrayMenu(manager.menu)
	if icon := manager.iconFor(status.ModeOf(snapshot)); icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) convert(items []status.MenuItem) []*fyne.MenuItem {
	converted := make([]*fyne.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Separator {
			converted = append(converted, fyne.NewMenuItemSeparator())
			continue
		}
		menuItem := fyne.NewMenuItem(item.Label, nil)
		menuItem.Disabled = item.Disabled
		menuItem.Checked = item.Checked
		if len(item.Children) > 0 {
			menuItem.ChildMenu = fyne.NewMenu("", manager.convert(item.Children)...)
		} else if item.Action != status.ActionNone {
			selected := item
			menuItem.Action = func() { manager.Dispatch(selected) }
		}
		converted = append(converted, menuItem)
	}
	return converted
}

func (manager *Manager) iconFor(mode status.MenuMode) fyne.Resource {
	switch mode {
	case status.MenuPomodoroRunning:
		return manager.icons.Work
	case status.MenuBreakRunning:
		return manager.icons.Break
	case status.MenuCountdownRunning:
		return manager.icons.Countdown
	default:
		return manager.icons.Idle
	}
}

// Dispatch runs the command behind a menu item.
func (manager *Manager) Dispatch(item status.MenuItem) {
	switch item.Action {
	case status.ActionStartPomodoro:
		manager.commander.StartPomodoro()
	case status.ActionPausePomodoro:
		manager.commander.PausePomodoro()
	case status.ActionResetPomodoro:
		manager.commander.ResetPomodoro()
	case status.ActionStartBreak:
		manager.commander.StartBreak()
	case status.ActionSkipBreak:
		manager.commander.SkipBreak()
	case status.ActionStartCountdown:
		manager.commander.StartCountdown()
	case status.ActionPauseCountdown:
		manager.commander.PauseCountdown()
	case status.ActionResetCountdown:
		manager.commander.ResetCountdown()
	case status.ActionFocusSound:
		manager.commander.SetFocusSound(item.Sound)
	case status.ActionOpenApp:
		call(manager.callbacks.OnOpenApp)
	case status.ActionPreferences:
		call(manager.callbacks.OnPreferences)
	case status.ActionQuit:
		call(manager.callbacks.OnQuit)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
