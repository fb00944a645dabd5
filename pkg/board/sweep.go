package board

import (
	"github.com/chewxy/math32"
	"github.com/itohio/gojoy/pkg/joystick"
)

// SweepPosition returns raw stick samples tracing a 1:2 Lissajous figure around the
// calibrated center. phase is the fraction of one figure (wraps at 1); amplitude is the
// fraction of the available travel on each side.
func SweepPosition(cal joystick.Calibration, amplitude, phase float32) (x, y uint16) {
	angle := 2 * math32.Pi * (phase - math32.Floor(phase))
	x = deflect(cal.CenterX, amplitude*math32.Sin(angle))
	y = deflect(cal.CenterY, amplitude*math32.Sin(2*angle))
	return x, y
}

// deflect moves from center by v in [-1, 1] of the travel on that side.
func deflect(center int, v float32) uint16 {
	travel := float32(joystick.ADCMax - center)
	if v < 0 {
		travel = float32(center)
	}
	raw := math32.Round(float32(center) + v*travel)
	return uint16(math32.Max(0, math32.Min(raw, joystick.ADCMax)))
}
