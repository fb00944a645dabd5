// Package joystick maps raw analog joystick samples to screen coordinates and LED duty values.
//
// All arithmetic is integer and truncates toward zero, so the results match what the
// firmware computes on the device bit for bit.
package joystick

import "fmt"

const (
	// ADCMax is the largest 12-bit ADC sample.
	ADCMax = 4095
	// DutyMax is the largest PWM duty value.
	DutyMax = 65535

	DefaultCenterX  = 1939 // raw X at rest position
	DefaultCenterY  = 2180 // raw Y at rest position
	DefaultDeadzone = 40
)

// Calibration holds the rest position of both axes and the deadzone around it.
type Calibration struct {
	CenterX  int `yaml:"center_x"`
	CenterY  int `yaml:"center_y"`
	Deadzone int `yaml:"deadzone"`
}

// DefaultCalibration returns the calibration measured on the reference board.
func DefaultCalibration() Calibration {
	return Calibration{
		CenterX:  DefaultCenterX,
		CenterY:  DefaultCenterY,
		Deadzone: DefaultDeadzone,
	}
}

// Validate rejects centers that leave no travel outside the deadzone on either side.
func (c Calibration) Validate() error {
	if c.Deadzone < 0 {
		return fmt.Errorf("deadzone must not be negative, got %d", c.Deadzone)
	}
	if err := validateCenter("x", c.CenterX, c.Deadzone); err != nil {
		return err
	}
	if err := validateCenter("y", c.CenterY, c.Deadzone); err != nil {
		return err
	}
	return nil
}

func validateCenter(axis string, center, deadzone int) error {
	if center <= deadzone {
		return fmt.Errorf("center_%s %d must be above deadzone %d", axis, center, deadzone)
	}
	if ADCMax-center <= deadzone {
		return fmt.Errorf("center_%s %d leaves no travel above deadzone %d (max %d)", axis, center, deadzone, ADCMax)
	}
	return nil
}

// MapToScreen maps a raw sample to a coordinate in [0, screenMax].
// Deflection below and above the center is scaled against its own travel, so an off-center
// rest position still reaches both screen edges.
func MapToScreen(raw, center, screenMax int) int {
	half := screenMax / 2
	offset := raw - center

	span := ADCMax - center
	if offset < 0 {
		span = center
	}
	if span <= 0 {
		return half
	}

	return clamp(offset*half/span+half, 0, screenMax)
}

// Brightness converts a raw sample into a PWM duty value.
// It returns 0 when disabled or inside the deadzone; otherwise duty grows linearly from the
// deadzone edge to full scale at the rail.
func Brightness(raw, center, deadzone int, enabled bool) uint16 {
	if !enabled {
		return 0
	}

	offset := raw - center
	if offset > -deadzone && offset < deadzone {
		return 0
	}

	maxOffset := center
	if offset > 0 {
		maxOffset = ADCMax - center
	}
	span := maxOffset - deadzone
	if span <= 0 {
		return 0
	}

	if offset < 0 {
		offset = -offset
	}
	return uint16(clamp((offset-deadzone)*DutyMax/span, 0, DutyMax))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
