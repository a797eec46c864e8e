package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to start at login.
type Autostart struct {
	appName  string
	execPath string
}

// NewAutostart returns an Autostart for the running executable.
func NewAutostart(appName string) (*Autostart, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return newAutostart(appName, execPath)
}

func newAutostart(appName, execPath string) (*Autostart, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, fmt.Errorf("autostart: app name is empty")
	}
	if execPath == "" {
		return nil, fmt.Errorf("autostart: exec path is empty")
	}
	return &Autostart{appName: appName, execPath: execPath}, nil
}

// Apply enables or disables launch at login.
func (autostart *Autostart) Apply(enabled bool) error {
	if enabled {
		return autostart.enable()
	}
	return autostart.disable()
}

func (autostart *Autostart) slug() string {
	name := strings.ToLower(strings.TrimSpace(autostart.appName))
	return strings.ReplaceAll(name, " ", "-")
}
