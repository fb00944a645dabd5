package scope

import (
	"image/color"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/render"
	"github.com/itohio/gojoy/pkg/telemetry"
)

const (
	oledScale = 4
	ledSize   = float32(18)
)

var (
	ledOff   = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	ledGreen = color.RGBA{G: 220, A: 255}
)

// OLEDWidget mirrors the board's display and LEDs. The frame is redrawn locally from the
// status with the same routine the firmware uses.
type OLEDWidget struct {
	widget.BaseWidget

	layout render.Layout
	screen *render.Mono

	mu        sync.RWMutex
	status    telemetry.Status
	valid     bool
	indicator func() bool
}

// NewOLED creates a mirror for a display with the given layout.
func NewOLED(layout render.Layout) *OLEDWidget {
	w := &OLEDWidget{
		layout: layout,
		screen: render.NewMono(layout.Width, layout.Height),
	}
	w.ExtendBaseWidget(w)
	return w
}

// Update redraws the mirror from st. Call it on the Fyne goroutine (fyne.Do).
func (w *OLEDWidget) Update(st telemetry.Status) {
	if err := render.Scene(w.screen, w.layout, st.Snapshot()); err != nil {
		log.Printf("Failed to render status: %v", err)
	}

	w.mu.Lock()
	w.status = st
	w.valid = true
	w.mu.Unlock()

	w.Refresh()
}

// SetIndicator makes the green LED follow f instead of the border flag carried in the
// status. A nil f restores the default.
func (w *OLEDWidget) SetIndicator(f func() bool) {
	w.mu.Lock()
	w.indicator = f
	w.mu.Unlock()

	w.Refresh()
}

// Splash shows title the way the board does at boot.
func (w *OLEDWidget) Splash(title string) {
	if err := render.Splash(w.screen, w.layout, title); err != nil {
		log.Printf("Failed to render splash: %v", err)
	}

	w.mu.Lock()
	w.valid = false
	w.mu.Unlock()

	w.Refresh()
}

// Screen returns the mirrored frame buffer.
func (w *OLEDWidget) Screen() *render.Mono {
	return w.screen
}

// CreateRenderer creates the widget renderer.
func (w *OLEDWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(w.screen.Image())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels

	r := &oledRenderer{
		oled:  w,
		bg:    canvas.NewRectangle(color.Black),
		img:   img,
		red:   canvas.NewCircle(ledOff),
		blue:  canvas.NewCircle(ledOff),
		green: canvas.NewCircle(ledOff),
	}
	r.objects = []fyne.CanvasObject{r.bg, r.img, r.red, r.blue, r.green}
	return r
}

type oledRenderer struct {
	oled *OLEDWidget

	bg               *canvas.Rectangle
	img              *canvas.Image
	red, blue, green *canvas.Circle

	objects []fyne.CanvasObject
}

func (r *oledRenderer) MinSize() fyne.Size {
	w := float32(r.oled.layout.Width) * oledScale
	h := float32(r.oled.layout.Height)*oledScale + 2*ledSize
	return fyne.NewSize(w, h)
}

func (r *oledRenderer) Layout(size fyne.Size) {
	screenH := size.Height - 2*ledSize
	r.bg.Resize(fyne.NewSize(size.Width, screenH))
	r.img.Resize(fyne.NewSize(size.Width, screenH))

	y := screenH + ledSize/2
	for i, led := range []*canvas.Circle{r.red, r.blue, r.green} {
		led.Move(fyne.NewPos(float32(i)*2*ledSize+ledSize/2, y))
		led.Resize(fyne.NewSize(ledSize, ledSize))
	}
}

func (r *oledRenderer) Refresh() {
	r.oled.mu.RLock()
	st, valid, indicator := r.oled.status, r.oled.valid, r.oled.indicator
	r.oled.mu.RUnlock()

	r.img.Image = r.oled.screen.Image()
	r.img.Refresh()

	r.red.FillColor, r.blue.FillColor, r.green.FillColor = ledOff, ledOff, ledOff
	if valid {
		r.red.FillColor = dimmed(color.RGBA{R: 255, A: 255}, st.Red)
		r.blue.FillColor = dimmed(color.RGBA{B: 255, A: 255}, st.Blue)
		// the indicator toggles together with the border and starts off
		lit := st.BorderThick
		if indicator != nil {
			lit = indicator()
		}
		if lit {
			r.green.FillColor = ledGreen
		}
	}
	r.red.Refresh()
	r.blue.Refresh()
	r.green.Refresh()
}

func (r *oledRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *oledRenderer) Destroy() {}

// dimmed scales c by duty, never darker than an unlit LED.
func dimmed(c color.RGBA, duty uint16) color.RGBA {
	scale := func(v, floor uint8) uint8 {
		lit := uint32(v) * uint32(duty) / joystick.DutyMax
		if lit < uint32(floor) {
			return floor
		}
		return uint8(lit)
	}
	return color.RGBA{
		R: scale(c.R, ledOff.R),
		G: scale(c.G, ledOff.G),
		B: scale(c.B, ledOff.B),
		A: 255,
	}
}
