package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vexide/vex-sdk-sim/internal/device"
	"github.com/vexide/vex-sdk-sim/internal/display"
)

// previewGame mirrors dev's display into a live ebiten window. It does no
// emulation of its own: the guest and protocol driver run on their own
// goroutines, and previewGame only ever reads back what they've already
// presented.
type previewGame struct {
	dev *device.State
}

func newPreviewGame(dev *device.State) *previewGame {
	ebiten.SetWindowSize(display.DisplayWidth*2, display.DisplayHeight*2)
	ebiten.SetWindowTitle("vex-sdk-sim")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return &previewGame{dev: dev}
}

// Layout returns the Brain's fixed resolution so ebiten scales the window
// rather than the display.
func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.DisplayWidth, display.DisplayHeight
}

// Draw paints the most recently presented frame into screen.
func (g *previewGame) Draw(screen *ebiten.Image) {
	frame := g.dev.Display.Snapshot()
	rect := frame.Bounds()
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			screen.Set(x, y, frame.At(x, y))
		}
	}
}

// Update does nothing: the guest and protocol driver drive the display on
// their own goroutines, not on ebiten's tick.
func (g *previewGame) Update() error {
	return nil
}
