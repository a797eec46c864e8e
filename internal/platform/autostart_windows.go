//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable() error {
	value := `"` + strings.Trim(autostart.execPath, `"`) + `"`
	output, err := exec.Command("reg", "add", runKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", value, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostart *Autostart) disable() error {
	if err := exec.Command("reg", "query", runKey, "/v", autostart.appName).Run(); err != nil {
		return nil
	}
	output, err := exec.Command("reg", "delete", runKey, "/v", autostart.appName, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
