package model

// Preset is a named set of Pomodoro durations.
type Preset struct {
	Name                    string
	WorkMinutes             uint32
	ShortBreakMinutes       uint32
	LongBreakMinutes        uint32
	SessionsBeforeLongBreak uint32
}

var presets = []Preset{
	{Name: "Classic 25/5", WorkMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4},
	{Name: "Quick 15/3", WorkMinutes: 15, ShortBreakMinutes: 3, LongBreakMinutes: 10, SessionsBeforeLongBreak: 4},
	{Name: "Deep 50/10", WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 20, SessionsBeforeLongBreak: 3},
	{Name: "Gentle 20/5", WorkMinutes: 20, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4},
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetNames returns the names of the built-in presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, preset := range presets {
		names = append(names, preset.Name)
	}
	return names
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, bool) {
	for _, preset := range presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}

// Apply overlays the preset durations on settings. Flags are kept.
func (preset Preset) Apply(settings PomodoroSettings) PomodoroSettings {
	settings.WorkMinutes = preset.WorkMinutes
	settings.ShortBreakMinutes = preset.ShortBreakMinutes
	settings.LongBreakMinutes = preset.LongBreakMinutes
	settings.SessionsBeforeLongBreak = preset.SessionsBeforeLongBreak
	return settings
}

// MatchPreset returns the name of the preset whose durations equal settings,
// or "" when none does.
func MatchPreset(settings PomodoroSettings) string {
	for _, preset := range presets {
		if preset.Apply(settings) == settings {
			return preset.Name
		}
	}
	return ""
}
