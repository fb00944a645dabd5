package trace

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/telemetry"
)

// Point is one status scaled for plotting.
type Point struct {
	Time      time.Time
	X, Y      float32 // stick deflection in [-1, 1] of the travel on that side of center
	Red, Blue float32 // LED duty in [0, 1]
}

// Deflection scales a raw sample to [-1, 1] around center.
func Deflection(raw uint16, center int) float32 {
	offset := float32(int(raw) - center)
	travel := float32(joystick.ADCMax - center)
	if offset < 0 {
		travel = float32(center)
	}
	if travel <= 0 {
		return 0
	}
	return math32.Max(-1, math32.Min(offset/travel, 1))
}

// Points converts statuses into dst, reusing its capacity when possible.
func Points(dst []Point, statuses []telemetry.Status, cal joystick.Calibration) []Point {
	dst = dst[:0]
	for _, s := range statuses {
		dst = append(dst, Point{
			Time: s.Timestamp,
			X:    Deflection(s.RawX, cal.CenterX),
			Y:    Deflection(s.RawY, cal.CenterY),
			Red:  float32(s.Red) / joystick.DutyMax,
			Blue: float32(s.Blue) / joystick.DutyMax,
		})
	}
	return dst
}

// Downsample decimates src to at most maxPoints entries into dst.
// dst is reused if it has sufficient capacity, otherwise a new slice is allocated.
func Downsample[T any](dst, src []T, maxPoints int) []T {
	if len(src) <= maxPoints {
		if cap(dst) < len(src) {
			dst = make([]T, len(src))
		}
		dst = dst[:len(src)]
		copy(dst, src)
		return dst
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]T, 0, maxPoints)
	}

	step := float64(len(src)) / float64(maxPoints)
	for i := range maxPoints {
		dst = append(dst, src[int(float64(i)*step)])
	}
	return dst
}
