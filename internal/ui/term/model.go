// Package term is the terminal front end, driven by engine snapshots.
package term

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
)

const countdownStep = 5

type snapshotMsg engine.Snapshot

type updatesClosedMsg struct{}

// Model is the bubbletea model.
type Model struct {
	commander engine.Commander
	updates   <-chan engine.Snapshot
	onChange  func(engine.Snapshot)

	keys     KeyMap
	help     help.Model
	pomodoro progress.Model
	timer    progress.Model

	snapshot engine.Snapshot
	status   string
	width    int
}

// NewModel creates the terminal model. onChange is called after commands
// that change persisted settings.
func NewModel(commander engine.Commander, updates <-chan engine.Snapshot, onChange func(engine.Snapshot)) Model {
	return Model{
		commander: commander,
		updates:   updates,
		onChange:  onChange,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		pomodoro:  progress.New(progress.WithGradient("#E8503A", "#F2A65A"), progress.WithoutPercentage()),
		timer:     progress.New(progress.WithGradient("#4A7BD0", "#7FB3FF"), progress.WithoutPercentage()),
		snapshot:  commander.Snapshot(),
	}
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, commander engine.Commander, updates <-chan engine.Snapshot, onChange func(engine.Snapshot)) error {
	program := tea.NewProgram(NewModel(commander, updates, onChange), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForSnapshot(updates <-chan engine.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg(snapshot)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return waitForSnapshot(m.updates)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.Version >= m.snapshot.Version {
			m.snapshot = engine.Snapshot(msg)
		}
		return m, waitForSnapshot(m.updates)
	case updatesClosedMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		barWidth := max(msg.Width-8, 10)
		m.pomodoro.Width = barWidth
		m.timer.Width = barWidth
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pomodoro := m.snapshot.Pomodoro
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if pomodoro.Running || pomodoro.AwaitingNextSession {
			m.commander.PausePomodoro()
			m.status = "pomodoro paused"
		} else {
			m.commander.StartPomodoro()
			m.status = "pomodoro running"
		}
	case key.Matches(msg, m.keys.Reset):
		m.commander.ResetPomodoro()
		m.status = "pomodoro reset"
	case key.Matches(msg, m.keys.StartBreak):
		m.commander.StartBreak()
		m.status = "break started"
	case key.Matches(msg, m.keys.SkipBreak):
		if !pomodoro.Mode.IsBreak() {
			m.status = "no break to skip"
			return m, nil
		}
		m.commander.SkipBreak()
		m.status = "break skipped"
	case key.Matches(msg, m.keys.Countdown):
		if m.snapshot.Countdown.Running {
			m.commander.PauseCountdown()
			m.status = "countdown paused"
		} else {
			m.commander.StartCountdown()
			m.status = "countdown running"
		}
	case key.Matches(msg, m.keys.ResetCountdown):
		m.commander.ResetCountdown()
		m.status = "countdown reset"
	case key.Matches(msg, m.keys.Longer):
		minutes := m.snapshot.Countdown.DurationMinutes + countdownStep
		m.commander.SetCountdownDuration(minutes)
		m.status = fmt.Sprintf("countdown set to %d min", minutes)
		m.changed()
	case key.Matches(msg, m.keys.Shorter):
		minutes := m.snapshot.Countdown.DurationMinutes
		minutes -= min(minutes, countdownStep)
		m.commander.SetCountdownDuration(minutes)
		m.status = fmt.Sprintf("countdown set to %d min", minutes)
		m.changed()
	case key.Matches(msg, m.keys.Sound):
		next := nextSound(m.snapshot.FocusSound)
		m.commander.SetFocusSound(next)
		m.status = "focus sound: " + next.Label()
		m.changed()
	case key.Matches(msg, m.keys.Preset):
		name := nextPreset(model.MatchPreset(pomodoro.Settings))
		if err := m.commander.ApplyPreset(name); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "preset: " + name
		m.changed()
	default:
		return m, nil
	}

	m.snapshot = m.commander.Snapshot()
	return m, nil
}

func (m Model) changed() {
	if m.onChange != nil {
		m.onChange(m.commander.Snapshot())
	}
}

func nextSound(current engine.FocusSound) engine.FocusSound {
	for i, sound := range engine.FocusSounds {
		if sound == current {
			return engine.FocusSounds[(i+1)%len(engine.FocusSounds)]
		}
	}
	return engine.FocusSoundOff
}

func nextPreset(current string) string {
	names := model.PresetNames()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
