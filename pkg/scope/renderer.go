package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/gojoy/pkg/trace"
)

// Plot margins.
const (
	marginLeft   = float32(40)
	marginRight  = float32(20)
	marginTop    = float32(20)
	marginBottom = float32(40)
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 240)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.Refresh()
	}
}

// Refresh rebuilds the plot from the current data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	points := r.scope.displayPoints
	events := r.scope.events
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	p := plot{
		x:  marginLeft,
		y:  marginTop,
		w:  size.Width - marginLeft - marginRight,
		h:  size.Height - marginTop - marginBottom,
		t0: xMin,
		t1: xMax,
	}

	r.drawGrid(p)
	r.drawEvents(p, events)

	if len(points) > 1 {
		r.drawSeries(p, points, colorX, 1.5, func(pt trace.Point) float32 { return pt.X })
		r.drawSeries(p, points, colorY, 1.5, func(pt trace.Point) float32 { return pt.Y })
		r.drawSeries(p, points, colorRed, 1, func(pt trace.Point) float32 { return pt.Red })
		r.drawSeries(p, points, colorBlue, 1, func(pt trace.Point) float32 { return pt.Blue })
	}

	r.drawLegend(p)
	canvas.Refresh(r.scope)
}

// plot maps time and value onto the drawing area.
type plot struct {
	x, y, w, h float32
	t0, t1     time.Time
}

// timeX returns the horizontal position of t.
func (p plot) timeX(t time.Time) float32 {
	span := p.t1.Sub(p.t0).Seconds()
	if span <= 0 {
		return p.x
	}
	return p.x + float32(t.Sub(p.t0).Seconds()/span)*p.w
}

// valueY returns the vertical position of v in [-1, 1].
func (p plot) valueY(v float32) float32 {
	return p.y + p.h*(1-(v+1)/2)
}

// drawGrid draws the oscilloscope-style grid.
func (r *scopeRenderer) drawGrid(p plot) {
	gridColor := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	textColor := color.RGBA{R: 150, G: 150, B: 150, A: 255}

	numHLines := 4
	for i := range numHLines + 1 {
		v := 1 - 2*float32(i)/float32(numHLines)
		y := p.valueY(v)
		r.addLine(gridColor, 1, fyne.NewPos(p.x, y), fyne.NewPos(p.x+p.w, y))

		text := canvas.NewText(strconv.FormatFloat(float64(v), 'f', 1, 32), textColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	numVLines := 10
	span := p.t1.Sub(p.t0)
	for i := range numVLines + 1 {
		x := p.x + float32(i)*p.w/float32(numVLines)
		r.addLine(gridColor, 1, fyne.NewPos(x, p.y), fyne.NewPos(x, p.y+p.h))

		offset := span * time.Duration(i) / time.Duration(numVLines)
		text := canvas.NewText(formatTime(offset), textColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+5))
		r.objects = append(r.objects, text)
	}
}

func (r *scopeRenderer) drawSeries(p plot, points []trace.Point, c color.Color, width float32, value func(trace.Point) float32) {
	prev := fyne.NewPos(p.timeX(points[0].Time), p.valueY(value(points[0])))
	for _, pt := range points[1:] {
		next := fyne.NewPos(p.timeX(pt.Time), p.valueY(value(pt)))
		r.addLine(c, width, prev, next)
		prev = next
	}
}

// drawEvents marks scene changes with labelled vertical lines.
func (r *scopeRenderer) drawEvents(p plot, events []trace.Event) {
	for _, e := range events {
		x := p.timeX(e.Time)
		if x < p.x || x > p.x+p.w {
			continue
		}
		r.addLine(colorEvent, 1, fyne.NewPos(x, p.y), fyne.NewPos(x, p.y+p.h))

		text := canvas.NewText(eventLabel(e), colorEvent)
		text.TextSize = 10
		text.Move(fyne.NewPos(x+3, p.y))
		r.objects = append(r.objects, text)
	}
}

func (r *scopeRenderer) drawLegend(p plot) {
	entries := []struct {
		label string
		c     color.Color
	}{
		{"X", colorX},
		{"Y", colorY},
		{"red", colorRed},
		{"blue", colorBlue},
	}

	x := p.x + 10
	for _, e := range entries {
		text := canvas.NewText(e.label, e.c)
		text.TextSize = 11
		text.Move(fyne.NewPos(x, p.y+p.h-16))
		r.objects = append(r.objects, text)
		x += 40
	}
}

func (r *scopeRenderer) addLine(c color.Color, width float32, from, to fyne.Position) {
	line := canvas.NewLine(c)
	line.Position1 = from
	line.Position2 = to
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func eventLabel(e trace.Event) string {
	state := "off"
	switch {
	case e.Kind == trace.PWMToggled && e.On:
		state = "on"
	case e.Kind == trace.BorderToggled:
		state = "thin"
		if e.On {
			state = "thick"
		}
	case e.Kind == trace.FillToggled:
		state = "outlined"
		if e.On {
			state = "filled"
		}
	}
	return e.Kind.String() + " " + state
}

func formatTime(d time.Duration) string {
	decimals := 1
	if d < time.Second {
		decimals = 2
	}
	return strconv.FormatFloat(d.Seconds(), 'f', decimals, 64) + "s"
}
