// Package trace keeps a time window of board statuses for plotting and notices when a
// button changed the scene.
package trace

import (
	"sync"
	"time"

	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
)

// EventKind names the scene flag an event flipped.
type EventKind int

const (
	PWMToggled EventKind = iota
	BorderToggled
	FillToggled
)

func (k EventKind) String() string {
	switch k {
	case PWMToggled:
		return "pwm"
	case BorderToggled:
		return "border"
	case FillToggled:
		return "fill"
	}
	return "unknown"
}

// Event is a scene flag change observed between two consecutive statuses.
type Event struct {
	Index int // index of the first status showing the change
	Time  time.Time
	Kind  EventKind
	On    bool // new value: PWM enabled, thick border, filled square
}

// Trace buffers statuses in a FIFO ordered oldest to newest. Removal is by timestamp:
// statuses older than the window relative to the newest one are dropped.
type Trace struct {
	statuses []telemetry.Status
	events   []Event
	window   time.Duration

	mu sync.RWMutex

	callbacks []func(statuses []telemetry.Status, events []Event)
	cbMu      sync.RWMutex

	// set when the input channel closes, prevents further callbacks
	shutdown bool
}

// New creates an empty trace using cfg.Trace.
func New(cfg *config.Config) *Trace {
	return &Trace{
		window: time.Duration(cfg.Trace.WindowSeconds * float64(time.Second)),
	}
}

// ProcessStatuses consumes input until it closes.
func (t *Trace) ProcessStatuses(input <-chan telemetry.Status) {
	for s := range input {
		t.processStatus(s)
	}

	t.mu.Lock()
	t.shutdown = true
	t.mu.Unlock()
}

func (t *Trace) processStatus(s telemetry.Status) {
	t.mu.Lock()

	t.statuses = append(t.statuses, s)
	t.trim(s.Timestamp.Add(-t.window))

	if n := len(t.statuses); n >= 2 {
		t.detect(t.statuses[n-2], t.statuses[n-1], n-1)
	}

	notify := !t.shutdown
	t.mu.Unlock()

	if notify {
		t.notifyCallbacks()
	}
}

// trim drops statuses at or before cutoff and the events that pointed at them.
func (t *Trace) trim(cutoff time.Time) {
	cut := 0
	for cut < len(t.statuses) && !t.statuses[cut].Timestamp.After(cutoff) {
		cut++
	}
	if cut == 0 {
		return
	}
	t.statuses = t.statuses[cut:]

	kept := t.events[:0]
	for _, e := range t.events {
		e.Index -= cut
		if e.Index >= 0 {
			kept = append(kept, e)
		}
	}
	t.events = kept
}

func (t *Trace) detect(prev, curr telemetry.Status, idx int) {
	add := func(kind EventKind, on bool) {
		t.events = append(t.events, Event{Index: idx, Time: curr.Timestamp, Kind: kind, On: on})
	}
	if prev.PWMEnabled != curr.PWMEnabled {
		add(PWMToggled, curr.PWMEnabled)
	}
	if prev.BorderThick != curr.BorderThick {
		add(BorderToggled, curr.BorderThick)
	}
	if prev.Fill != curr.Fill {
		add(FillToggled, curr.Fill == scene.Filled)
	}
}

// Statuses returns a copy of the buffered statuses.
func (t *Trace) Statuses() []telemetry.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]telemetry.Status, len(t.statuses))
	copy(result, t.statuses)
	return result
}

// Events returns a copy of the events still inside the window.
func (t *Trace) Events() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Event, len(t.events))
	copy(result, t.events)
	return result
}

// Latest returns the newest status, if any.
func (t *Trace) Latest() (telemetry.Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.statuses) == 0 {
		return telemetry.Status{}, false
	}
	return t.statuses[len(t.statuses)-1], true
}

// Clear empties the buffers.
func (t *Trace) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statuses = nil
	t.events = nil
}

// OnUpdate registers a callback invoked with copies of the buffers after each status.
// The callback should return quickly.
func (t *Trace) OnUpdate(callback func(statuses []telemetry.Status, events []Event)) {
	t.cbMu.Lock()
	defer t.cbMu.Unlock()
	t.callbacks = append(t.callbacks, callback)
}

// ResetShutdown allows callbacks again. Call it before feeding a new input channel.
func (t *Trace) ResetShutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shutdown = false
}

func (t *Trace) notifyCallbacks() {
	statuses := t.Statuses()
	events := t.Events()

	t.cbMu.RLock()
	callbacks := make([]func([]telemetry.Status, []Event), len(t.callbacks))
	copy(callbacks, t.callbacks)
	t.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(statuses, events)
		}
	}
}
