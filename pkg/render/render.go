// Package render draws the demo scene onto a monochrome display.
package render

import (
	"image/color"

	"github.com/itohio/gojoy/pkg/scene"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
)

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{}
)

// Canvas is a buffered display. *ssd1306.Device and *Mono satisfy it.
type Canvas interface {
	drivers.Displayer
	ClearBuffer()
}

// Layout describes the screen and the square.
type Layout struct {
	Width      int16 `yaml:"width"`
	Height     int16 `yaml:"height"`
	SquareSize int16 `yaml:"square_size"`
}

// DefaultLayout is the 128x64 OLED with an 8 pixel square.
func DefaultLayout() Layout {
	return Layout{Width: 128, Height: 64, SquareSize: 8}
}

// Center returns the top-left corner that centers the square on screen.
func (l Layout) Center() (x, y int) {
	return int(l.Width/2 - l.SquareSize/2), int(l.Height/2 - l.SquareSize/2)
}

// Scene clears c, draws the border and the square from snap, and flushes the buffer.
func Scene(c Canvas, l Layout, snap scene.Snapshot) error {
	c.ClearBuffer()
	Border(c, l, snap.Border)
	if err := Square(c, l, snap.X, snap.Y, snap.Fill); err != nil {
		return err
	}
	return c.Display()
}

// Border draws thickness nested frames. The last row and column of the panel are left
// dark, so the frame spans [0, Width-2] x [0, Height-2].
func Border(d drivers.Displayer, l Layout, thickness int) {
	right := l.Width - 2
	bottom := l.Height - 2
	for i := int16(0); i < int16(thickness); i++ {
		tinydraw.Line(d, 0, i, right, i, White)
		tinydraw.Line(d, 0, bottom-i, right, bottom-i, White)
		tinydraw.Line(d, i, 0, i, bottom, White)
		tinydraw.Line(d, right-i, 0, right-i, bottom, White)
	}
}

// Square draws the square with its top-left corner at (x, y).
func Square(d drivers.Displayer, l Layout, x, y int, mode scene.FillMode) error {
	if mode == scene.Filled {
		return tinydraw.FilledRectangle(d, int16(x), int16(y), l.SquareSize, l.SquareSize, White)
	}
	return tinydraw.Rectangle(d, int16(x), int16(y), l.SquareSize, l.SquareSize, White)
}
