package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pomodesk/internal/core/model"
	"pomodesk/internal/ui/status"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8503A"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	clockStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2A65A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	pomodoro := m.snapshot.Pomodoro
	countdown := m.snapshot.Countdown

	preset := model.MatchPreset(pomodoro.Settings)
	if preset == "" {
		preset = "Custom"
	}

	pomodoroBox := boxStyle.Render(strings.Join([]string{
		headingStyle.Render("Pomodoro") + mutedStyle.Render(" · "+preset),
		clockStyle.Render(status.FormatClock(pomodoro.RemainingSeconds)) + "  " + status.PomodoroLine(pomodoro),
		m.pomodoro.ViewAs(status.Progress(pomodoro.RemainingSeconds, pomodoro.TotalSeconds)),
		mutedStyle.Render(status.CycleLine(pomodoro)),
	}, "\n"))

	countdownBox := boxStyle.Render(strings.Join([]string{
		headingStyle.Render("Countdown"),
		clockStyle.Render(status.FormatClock(countdown.RemainingSeconds)) + "  " + status.CountdownLine(countdown),
		m.timer.ViewAs(status.CountdownProgress(countdown)),
	}, "\n"))

	lines := []string{
		titleStyle.Render(status.Title(m.snapshot)),
		pomodoroBox,
		countdownBox,
		"Focus sound: " + m.snapshot.FocusSound.Label(),
	}
	if m.status != "" {
		lines = append(lines, mutedStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
