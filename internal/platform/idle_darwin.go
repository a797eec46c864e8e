package platform

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

var hidIdleTime = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

type ioregProvider struct{}

func newIdleProvider() IdleProvider {
	return ioregProvider{}
}

func (ioregProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem").Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ioreg: %v", ErrIdleUnsupported, err)
	}
	match := hidIdleTime.FindSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("%w: HIDIdleTime missing", ErrIdleUnsupported)
	}
	nanos, err := strconv.ParseInt(string(match[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
	}
	return time.Duration(nanos), nil
}
