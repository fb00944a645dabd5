package scene

import (
	"sync/atomic"

	"github.com/itohio/gojoy/pkg/hal"
)

// DefaultDebounceMicros is the minimum spacing between accepted presses of one button.
const DefaultDebounceMicros = 200_000

// Button identifies a push-button.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonJoystick
	numButtons
)

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonJoystick:
		return "joystick"
	}
	return "unknown"
}

// Debouncer accepts an edge only if the previous accepted edge is at least window µs old.
// The timestamp starts at zero, so edges in the first window after boot are rejected.
type Debouncer struct {
	window uint32
	last   uint32
}

// Accept reports whether an edge at now passes the window, and records it if so.
// Unsigned subtraction keeps the comparison correct across counter wraparound.
func (d *Debouncer) Accept(now uint32) bool {
	if now-d.last < d.window {
		return false
	}
	d.last = now
	return true
}

// Dispatcher turns falling edges into scene changes. HandleEdge is safe to call from an
// interrupt: it does not allocate, block or touch any bus.
type Dispatcher struct {
	state     *State
	indicator hal.Pin

	debounce [numButtons]Debouncer
	// set while a button's handler runs; a nested edge of the same button is dropped
	busy [numButtons]atomic.Bool
}

// NewDispatcher creates a dispatcher for state. indicator is toggled together with the
// border and may be nil.
func NewDispatcher(state *State, indicator hal.Pin, windowMicros uint32) *Dispatcher {
	d := &Dispatcher{
		state:     state,
		indicator: indicator,
	}
	for i := range d.debounce {
		d.debounce[i].window = windowMicros
	}
	return d
}

// HandleEdge processes a falling edge of b observed at now (µs). It returns true if the
// edge was accepted and changed the scene.
func (d *Dispatcher) HandleEdge(b Button, now uint32) bool {
	if b >= numButtons {
		return false
	}
	if !d.busy[b].CompareAndSwap(false, true) {
		return false
	}

	accepted := d.debounce[b].Accept(now)
	if accepted {
		d.apply(b)
	}

	d.busy[b].Store(false)
	return accepted
}

func (d *Dispatcher) apply(b Button) {
	switch b {
	case ButtonA:
		d.state.TogglePWM()
	case ButtonB:
		d.state.ToggleFill()
	case ButtonJoystick:
		d.state.ToggleBorder()
		if d.indicator != nil {
			d.indicator.Set(!d.indicator.Get())
		}
	}
}
