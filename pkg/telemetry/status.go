// Package telemetry formats and parses the diagnostic line the firmware prints every tick.
//
// Format:
//
//	X: 1939 | Y: 2180 | PWM: on | SQ: 59,29 | BORDER: thin | FILL: outlined | LED: 0,0
package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itohio/gojoy/pkg/scene"
)

const numFields = 7

// Status is one tick of the demo as seen from the outside.
type Status struct {
	Timestamp time.Time // host receive time, not part of the line

	RawX, RawY       uint16 // 12-bit samples used for brightness
	PWMEnabled       bool
	SquareX, SquareY int
	BorderThick      bool
	Fill             scene.FillMode
	Red, Blue        uint16 // applied duty values
}

// Snapshot returns the scene part of the status.
func (s Status) Snapshot() scene.Snapshot {
	border := scene.ThinBorder
	if s.BorderThick {
		border = scene.ThickBorder
	}
	return scene.Snapshot{
		X:          s.SquareX,
		Y:          s.SquareY,
		PWMEnabled: s.PWMEnabled,
		Border:     border,
		Fill:       s.Fill,
	}
}

// String formats the status line without a trailing newline.
func (s Status) String() string {
	var b strings.Builder
	b.Grow(96)

	b.WriteString("X: ")
	b.WriteString(strconv.Itoa(int(s.RawX)))
	b.WriteString(" | Y: ")
	b.WriteString(strconv.Itoa(int(s.RawY)))
	b.WriteString(" | PWM: ")
	b.WriteString(onOff(s.PWMEnabled))
	b.WriteString(" | SQ: ")
	b.WriteString(strconv.Itoa(s.SquareX))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(s.SquareY))
	b.WriteString(" | BORDER: ")
	if s.BorderThick {
		b.WriteString("thick")
	} else {
		b.WriteString("thin")
	}
	b.WriteString(" | FILL: ")
	b.WriteString(s.Fill.String())
	b.WriteString(" | LED: ")
	b.WriteString(strconv.Itoa(int(s.Red)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.Blue)))

	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Parse parses a status line. Surrounding whitespace is ignored.
func Parse(line string) (Status, error) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) != numFields {
		return Status{}, fmt.Errorf("invalid line format: expected %d fields, got %d", numFields, len(parts))
	}

	var (
		s   Status
		err error
	)
	fields := make(map[string]string, numFields)
	for _, p := range parts {
		name, value, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			return Status{}, fmt.Errorf("invalid field %q: missing ':'", p)
		}
		fields[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if s.RawX, err = parseSample(fields, "X"); err != nil {
		return Status{}, err
	}
	if s.RawY, err = parseSample(fields, "Y"); err != nil {
		return Status{}, err
	}

	switch v := fields["PWM"]; v {
	case "on":
		s.PWMEnabled = true
	case "off":
	default:
		return Status{}, fmt.Errorf("invalid PWM state %q", v)
	}

	x, y, err := parsePair(fields, "SQ")
	if err != nil {
		return Status{}, err
	}
	s.SquareX, s.SquareY = int(x), int(y)

	switch v := fields["BORDER"]; v {
	case "thick":
		s.BorderThick = true
	case "thin":
	default:
		return Status{}, fmt.Errorf("invalid border %q", v)
	}

	switch v := fields["FILL"]; v {
	case "filled":
		s.Fill = scene.Filled
	case "outlined":
		s.Fill = scene.Outlined
	default:
		return Status{}, fmt.Errorf("invalid fill %q", v)
	}

	red, blue, err := parsePair(fields, "LED")
	if err != nil {
		return Status{}, err
	}
	if red > 65535 || blue > 65535 {
		return Status{}, fmt.Errorf("LED duty out of range: %d,%d (max 65535)", red, blue)
	}
	s.Red, s.Blue = uint16(red), uint16(blue)

	return s, nil
}

func parseSample(fields map[string]string, name string) (uint16, error) {
	v, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("missing field %s", name)
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n > 4095 {
		return 0, fmt.Errorf("%s out of range: %d (max 4095)", name, n)
	}
	return uint16(n), nil
}

func parsePair(fields map[string]string, name string) (uint64, uint64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, 0, fmt.Errorf("missing field %s", name)
	}
	a, b, ok := strings.Cut(v, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid %s %q: expected two comma-separated values", name, v)
	}
	first, err := strconv.ParseUint(strings.TrimSpace(a), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	second, err := strconv.ParseUint(strings.TrimSpace(b), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return first, second, nil
}
