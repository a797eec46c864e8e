package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlPomodoro struct {
	WorkMinutes             *uint32 `yaml:"work_minutes"`
	ShortBreakMinutes       *uint32 `yaml:"short_break_minutes"`
	LongBreakMinutes        *uint32 `yaml:"long_break_minutes"`
	SessionsBeforeLongBreak *uint32 `yaml:"sessions_before_long_break"`
	AutoLongBreak           *bool   `yaml:"auto_long_break"`
	PauseMusicOnBreak       *bool   `yaml:"pause_music_on_break"`
}

type yamlSettings struct {
	Pomodoro         yamlPomodoro `yaml:"pomodoro"`
	CountdownMinutes *uint32      `yaml:"countdown_minutes"`
	FocusSound       string       `yaml:"focus_sound,omitempty"`
	Notifications    *bool        `yaml:"notifications"`
	LaunchAtLogin    *bool        `yaml:"launch_at_login"`
	PauseWhenIdle    *uint32      `yaml:"pause_when_idle_minutes"`
	BreakOverlay     *bool        `yaml:"break_overlay"`
	OverlayOpacity   *float64     `yaml:"overlay_opacity"`
}

// SettingsPath returns the settings file inside configDir.
func SettingsPath(configDir string) string {
	return filepath.Join(configDir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
// Keys missing from the file keep their defaults.
func LoadSettings(configDir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(SettingsPath(configDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if err := applyYamlSettings(&settings, fileData); err != nil {
		return preferences.DefaultSettings(), fmt.Errorf("parse settings yaml: %w", err)
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(configDir string, settings preferences.Settings) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	pomodoro := settings.Pomodoro
	fileData := yamlSettings{
		Pomodoro: yamlPomodoro{
			WorkMinutes:             &pomodoro.WorkMinutes,
			ShortBreakMinutes:       &pomodoro.ShortBreakMinutes,
			LongBreakMinutes:        &pomodoro.LongBreakMinutes,
			SessionsBeforeLongBreak: &pomodoro.SessionsBeforeLongBreak,
			AutoLongBreak:           &pomodoro.AutoLongBreak,
			PauseMusicOnBreak:       &pomodoro.PauseMusicOnBreak,
		},
		CountdownMinutes: &settings.CountdownMinutes,
		FocusSound:       settings.FocusSound.String(),
		Notifications:    &settings.Notifications,
		LaunchAtLogin:    &settings.LaunchAtLogin,
		PauseWhenIdle:    &settings.PauseWhenIdleMinutes,
		BreakOverlay:     &settings.BreakOverlay,
		OverlayOpacity:   &settings.OverlayOpacity,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	// The file is replaced atomically.
	tempPath := SettingsPath(configDir) + ".tmp"
	if err := os.WriteFile(tempPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, SettingsPath(configDir)); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) error {
	setUint(&settings.Pomodoro.WorkMinutes, fileData.Pomodoro.WorkMinutes)
	setUint(&settings.Pomodoro.ShortBreakMinutes, fileData.Pomodoro.ShortBreakMinutes)
	setUint(&settings.Pomodoro.LongBreakMinutes, fileData.Pomodoro.LongBreakMinutes)
	setUint(&settings.Pomodoro.SessionsBeforeLongBreak, fileData.Pomodoro.SessionsBeforeLongBreak)
	setUint(&settings.CountdownMinutes, fileData.CountdownMinutes)
	setBool(&settings.Pomodoro.AutoLongBreak, fileData.Pomodoro.AutoLongBreak)
	setBool(&settings.Pomodoro.PauseMusicOnBreak, fileData.Pomodoro.PauseMusicOnBreak)
	setBool(&settings.Notifications, fileData.Notifications)
	setBool(&settings.LaunchAtLogin, fileData.LaunchAtLogin)
	setUint(&settings.PauseWhenIdleMinutes, fileData.PauseWhenIdle)
	setBool(&settings.BreakOverlay, fileData.BreakOverlay)
	if fileData.OverlayOpacity != nil {
		settings.OverlayOpacity = *fileData.OverlayOpacity
	}

	if fileData.FocusSound != "" {
		sound, err := engine.ParseFocusSound(fileData.FocusSound)
		if err != nil {
			return err
		}
		settings.FocusSound = sound
	}
	return nil
}

func setUint(target *uint32, value *uint32) {
	if value != nil {
		*target = *value
	}
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}
