// Package scene holds the state shared between the main loop and the button interrupts.
package scene

import "sync/atomic"

const (
	// ThinBorder and ThickBorder are the border widths in pixels.
	ThinBorder  = 1
	ThickBorder = 3
)

// FillMode selects how the square is drawn.
type FillMode uint8

const (
	Outlined FillMode = iota
	Filled
)

func (m FillMode) String() string {
	if m == Filled {
		return "filled"
	}
	return "outlined"
}

// State is the scene shared by the main loop and interrupt handlers.
//
// X and Y are written only by the main loop. The flags are written only from interrupt
// context and read by the main loop, so each one is a single atomic word.
type State struct {
	X, Y int

	pwmEnabled   atomic.Bool
	borderThick  atomic.Bool
	squareFilled atomic.Bool
}

// New returns the power-on state: PWM on, thin border, outlined square at (x, y).
func New(x, y int) *State {
	s := &State{X: x, Y: y}
	s.pwmEnabled.Store(true)
	return s
}

func (s *State) PWMEnabled() bool   { return s.pwmEnabled.Load() }
func (s *State) BorderThick() bool  { return s.borderThick.Load() }
func (s *State) SquareFilled() bool { return s.squareFilled.Load() }

// TogglePWM flips the PWM enable flag and returns the new value.
func (s *State) TogglePWM() bool {
	return toggle(&s.pwmEnabled)
}

// ToggleBorder flips the border thickness and returns true if it is now thick.
func (s *State) ToggleBorder() bool {
	return toggle(&s.borderThick)
}

// ToggleFill flips the square fill mode and returns true if it is now filled.
func (s *State) ToggleFill() bool {
	return toggle(&s.squareFilled)
}

// single writer per flag, so load+store is enough
func toggle(b *atomic.Bool) bool {
	v := !b.Load()
	b.Store(v)
	return v
}

// BorderOffset returns the current border width.
func (s *State) BorderOffset() int {
	if s.BorderThick() {
		return ThickBorder
	}
	return ThinBorder
}

// Fill returns the current square fill mode.
func (s *State) Fill() FillMode {
	if s.SquareFilled() {
		return Filled
	}
	return Outlined
}

// Snapshot is a consistent copy of the scene used for one frame.
type Snapshot struct {
	X, Y       int
	PWMEnabled bool
	Border     int
	Fill       FillMode
}

// Snapshot copies the scene. Each flag is loaded once.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		X:          s.X,
		Y:          s.Y,
		PWMEnabled: s.PWMEnabled(),
		Border:     s.BorderOffset(),
		Fill:       s.Fill(),
	}
}
