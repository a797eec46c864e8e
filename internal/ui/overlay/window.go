package overlay

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomodesk/internal/core/engine"
)

// Config defines overlay visuals.
type Config struct {
	Enabled bool
	Opacity uint8
}

// Window is a small undecorated window shown during breaks.
type Window struct {
	app       fyne.App
	window    fyne.Window
	commander engine.Commander

	image         *canvas.Image
	timerLabel    *canvas.Text
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	progress      *widget.ProgressBar
	skipButton    *widget.Button
	background    *canvas.Rectangle

	do func(func())

	mu          sync.Mutex
	config      Config
	visible     bool
	lastVersion uint64
}

const (
	overlayWidthFraction  = float32(0.18)
	overlayHeightFraction = float32(0.18)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the break overlay. Render must be registered as an engine sink.
func New(app fyne.App, commander engine.Commander, config Config, icon fyne.Resource) *Window {
	window := app.NewWindow("Pomodesk Break")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 28, B: 36, A: config.Opacity})

	image := canvas.NewImageFromResource(icon)
	image.FillMode = canvas.ImageFillContain

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 28

	titleLabel := canvas.NewText("Break", color.White)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21

	subtitleLabel := canvas.NewText("", color.NRGBA{R: 220, G: 220, B: 220, A: 255})
	subtitleLabel.TextSize = 14

	overlay := &Window{
		app:           app,
		window:        window,
		commander:     commander,
		image:         image,
		timerLabel:    timerLabel,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		progress:      widget.NewProgressBar(),
		background:    background,
		config:        config,
		do:            fyne.Do,
	}
	overlay.progress.TextFormatter = func() string { return "" }
	overlay.skipButton = widget.NewButton("Skip break", commander.SkipBreak)

	leftContent := container.New(&leftPanelLayout{}, titleLabel, subtitleLabel, timerLabel, overlay.progress)
	rightContent := container.New(&rightPanelLayout{}, image, overlay.skipButton)
	content := container.NewGridWithColumns(2, leftContent, rightContent)
	window.SetContent(container.NewStack(background, content))
	window.SetCloseIntercept(window.Hide)

	return overlay
}

// Render shows, updates or hides the overlay for snapshot.
func (overlay *Window) Render(snapshot engine.Snapshot) error {
	content, show := viewFor(snapshot)
	overlay.do(func() {
		overlay.mu.Lock()
		defer overlay.mu.Unlock()

		if !overlay.freshLocked(snapshot.Version) {
			return
		}
		if !show || !overlay.config.Enabled {
			if overlay.visible {
				overlay.window.Hide()
				overlay.visible = false
			}
			return
		}

		overlay.apply(content)
		if !overlay.visible {
			overlay.resizeToScreenFraction()
			overlay.window.Show()
			overlay.applyNativeOpacity(overlay.config.Opacity)
			overlay.visible = true
		}
	})
	return nil
}

// freshLocked records version and reports whether it is not older than the
// last frame shown.
func (overlay *Window) freshLocked(version uint64) bool {
	if version != 0 && version < overlay.lastVersion {
		return false
	}
	overlay.lastVersion = version
	return true
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()

	overlay.config = config
	overlay.background.FillColor = color.NRGBA{R: 24, G: 28, B: 36, A: config.Opacity}
	canvas.Refresh(overlay.background)
	if overlay.visible {
		overlay.applyNativeOpacity(config.Opacity)
	}
}

func (overlay *Window) apply(content view) {
	overlay.titleLabel.Text = content.Title
	overlay.titleLabel.Refresh()
	overlay.subtitleLabel.Text = content.Subtitle
	overlay.subtitleLabel.Refresh()
	overlay.timerLabel.Text = content.Timer
	overlay.timerLabel.Refresh()
	overlay.progress.SetValue(content.Progress)
	if content.CanSkip {
		overlay.skipButton.Enable()
	} else {
		overlay.skipButton.Disable()
	}
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}
