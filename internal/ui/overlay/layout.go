package overlay

import "fyne.io/fyne/v2"

// rightPanelLayout places a square image above a right-aligned button.
type rightPanelLayout struct{}

func (layout *rightPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	image := objects[0]
	button := objects[1]

	buttonSize := button.MinSize()
	buttonHeight := min(buttonSize.Height, size.Height*0.25)
	imageAreaHeight := max(size.Height-buttonHeight, 0)

	margin := imageAreaHeight * 0.05
	side := max(min(imageAreaHeight*0.90, size.Width-margin), 0)
	x := max(size.Width-margin-side, 0)
	image.Move(fyne.NewPos(x, margin))
	image.Resize(fyne.NewSize(side, side))

	buttonWidth := min(buttonSize.Width*1.4, size.Width)
	buttonX := max(x+side-buttonWidth, 0)
	buttonY := max(imageAreaHeight+(buttonHeight-buttonSize.Height)/2, 0)
	button.Move(fyne.NewPos(buttonX, buttonY))
	button.Resize(fyne.NewSize(buttonWidth, buttonSize.Height))
}

func (layout *rightPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	imageMin := objects[0].MinSize()
	buttonMin := objects[1].MinSize()
	return fyne.NewSize(max(imageMin.Width, buttonMin.Width), imageMin.Height+buttonMin.Height)
}

// leftPanelLayout stacks title and subtitle at the top and the timer with its
// progress bar at the bottom.
type leftPanelLayout struct{}

const (
	titleGap = 6
	timerGap = 4
)

func (layout *leftPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	title, subtitle, timer, progress := objects[0], objects[1], objects[2], objects[3]

	pad := size.Height * 0.05
	availableWidth := max(size.Width-pad*2, 0)

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(pad, pad))
	title.Resize(fyne.NewSize(availableWidth, titleSize.Height))

	subtitleSize := subtitle.MinSize()
	subtitle.Move(fyne.NewPos(pad, pad+titleSize.Height+titleGap))
	subtitle.Resize(fyne.NewSize(availableWidth, subtitleSize.Height))

	progressSize := progress.MinSize()
	progressY := max(size.Height-pad-progressSize.Height, 0)
	progress.Move(fyne.NewPos(pad, progressY))
	progress.Resize(fyne.NewSize(availableWidth, progressSize.Height))

	timerSize := timer.MinSize()
	timer.Move(fyne.NewPos(pad, max(progressY-timerGap-timerSize.Height, 0)))
	timer.Resize(timerSize)
}

func (layout *leftPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	var width, height float32
	for _, object := range objects[:4] {
		objectSize := object.MinSize()
		width = max(width, objectSize.Width)
		height += objectSize.Height
	}
	return fyne.NewSize(width+20, height+titleGap+timerGap+30)
}
