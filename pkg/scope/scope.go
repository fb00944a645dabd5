package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/telemetry"
	"github.com/itohio/gojoy/pkg/trace"
)

// Trace colors.
var (
	colorX     = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // orange
	colorY     = color.RGBA{R: 100, G: 200, B: 255, A: 255} // light blue
	colorRed   = color.RGBA{R: 230, G: 40, B: 40, A: 255}
	colorBlue  = color.RGBA{R: 40, G: 80, B: 255, A: 255}
	colorEvent = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// ScopeWidget is a custom Fyne widget that plots stick deflection and LED duty over time.
// The vertical axis is fixed: deflection spans [-1, 1], duty spans [0, 1].
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu            sync.RWMutex
	points        []trace.Point
	displayPoints []trace.Point
	events        []trace.Event
	xMin, xMax    time.Time

	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	s := &ScopeWidget{
		cfg:              cfg,
		displayPoints:    make([]trace.Point, 0, 1000),
		maxDisplayPoints: 1000, // Limit points for efficient rendering
	}
	s.ExtendBaseWidget(s)
	s.updateTimeRange()
	return s
}

// UpdateData replaces the plotted statuses.
// This should be called from the trace callback using fyne.Do().
func (s *ScopeWidget) UpdateData(statuses []telemetry.Status, events []trace.Event) {
	s.mu.Lock()
	s.points = trace.Points(s.points, statuses, s.cfg.Calibration)
	s.displayPoints = trace.Downsample(s.displayPoints, s.points, s.maxDisplayPoints)
	s.events = events
	s.updateTimeRange()
	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// updateTimeRange keeps at least one trace window on screen, anchored at the oldest point.
func (s *ScopeWidget) updateTimeRange() {
	window := time.Duration(s.cfg.Trace.WindowSeconds * float64(time.Second))
	if len(s.points) == 0 {
		s.xMin = time.Now()
		s.xMax = s.xMin.Add(window)
		return
	}

	s.xMin = s.points[0].Time
	s.xMax = s.points[len(s.points)-1].Time
	if s.xMax.Sub(s.xMin) < window {
		s.xMax = s.xMin.Add(window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
