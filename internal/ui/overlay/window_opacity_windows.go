//go:build windows

package overlay

import (
	"syscall"

	"fyne.io/fyne/v2/driver"
)

const (
	gwlExStyle  = ^uintptr(19) // GWL_EXSTYLE (-20)
	wsExLayered = 0x00080000
	lwaAlpha    = 0x2
)

var (
	user32                         = syscall.NewLazyDLL("user32.dll")
	procGetWindowLongPtrW          = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// applyNativeOpacity makes the whole overlay window translucent, which the
// background rectangle alone cannot do on Windows.
func (overlay *Window) applyNativeOpacity(alpha uint8) {
	native, ok := overlay.window.(driver.NativeWindow)
	if !ok {
		return
	}
	native.RunNative(func(context any) {
		if hwnd := windowHandle(context); hwnd != 0 {
			setLayeredAlpha(hwnd, alpha)
		}
	})
}

func windowHandle(context any) uintptr {
	switch value := context.(type) {
	case driver.WindowsWindowContext:
		return value.HWND
	case *driver.WindowsWindowContext:
		return value.HWND
	default:
		return 0
	}
}

func setLayeredAlpha(hwnd uintptr, alpha uint8) {
	style, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlExStyle)
	if style&wsExLayered == 0 {
		procSetWindowLongPtrW.Call(hwnd, gwlExStyle, style|wsExLayered)
	}
	procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), lwaAlpha)
}
