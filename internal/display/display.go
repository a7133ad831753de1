// Package display supplies screen geometry to the recording pipeline.
package display

import (
	"errors"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/GQAdonis/Cap/internal/cursor"
)

// ErrNoDisplay is returned when the OS reports no active displays.
var ErrNoDisplay = errors.New("no active displays found")

// Primary returns the pixel bounds of the primary display.
func Primary() (cursor.Bounds, error) {
	return Bounds(0)
}

// Bounds returns the pixel bounds of the given display index.
func Bounds(index int) (cursor.Bounds, error) {
	if index < 0 || index >= screenshot.NumActiveDisplays() {
		return cursor.Bounds{}, ErrNoDisplay
	}
	return FromRect(screenshot.GetDisplayBounds(index)), nil
}

// FromRect converts an image.Rectangle into screen bounds.
func FromRect(r image.Rectangle) cursor.Bounds {
	return cursor.Bounds{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}
