// Package loop runs the demo: sample the stick, move the square, redraw, drive the LEDs.
package loop

import (
	"context"
	"log"
	"time"

	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/hal"
	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/render"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
)

// Loop owns one tick of the demo. All fields are touched only by the goroutine calling
// Tick or Run; the scene flags are shared with the interrupt handlers through scene.State.
type Loop struct {
	cal    joystick.Calibration
	layout render.Layout
	tick   time.Duration

	state  *scene.State
	adc    hal.ADC
	pwm    hal.PWM
	canvas render.Canvas

	callbacks []func(telemetry.Status)
}

// New creates a loop over the given peripherals. cfg must be valid.
func New(cfg *config.Config, state *scene.State, adc hal.ADC, pwm hal.PWM, canvas render.Canvas) *Loop {
	return &Loop{
		cal:    cfg.Calibration,
		layout: cfg.Display,
		tick:   cfg.Timing.Tick,
		state:  state,
		adc:    adc,
		pwm:    pwm,
		canvas: canvas,
	}
}

// OnStatus registers a callback invoked with the status of every tick.
func (l *Loop) OnStatus(f func(telemetry.Status)) {
	l.callbacks = append(l.callbacks, f)
}

// Tick runs one iteration and returns its status. The error comes from the display.
func (l *Loop) Tick() (telemetry.Status, error) {
	l.updatePosition()

	snap := l.state.Snapshot()
	err := render.Scene(l.canvas, l.layout, snap)

	// fresh samples: the stick may have moved while the frame was on the bus
	rawX := l.adc.Read(hal.ChannelX)
	rawY := l.adc.Read(hal.ChannelY)
	enabled := l.state.PWMEnabled()
	red := joystick.Brightness(int(rawX), l.cal.CenterX, l.cal.Deadzone, enabled)
	blue := joystick.Brightness(int(rawY), l.cal.CenterY, l.cal.Deadzone, enabled)
	l.pwm.Set(hal.LEDRed, red)
	l.pwm.Set(hal.LEDBlue, blue)

	st := telemetry.Status{
		RawX:        rawX,
		RawY:        rawY,
		PWMEnabled:  enabled,
		SquareX:     snap.X,
		SquareY:     snap.Y,
		BorderThick: snap.Border == scene.ThickBorder,
		Fill:        snap.Fill,
		Red:         red,
		Blue:        blue,
	}
	for _, f := range l.callbacks {
		f(st)
	}

	return st, err
}

// updatePosition maps the stick onto the drawable area. Screen Y grows downwards, so the
// vertical axis is reflected to make "up" on the stick move the square up.
func (l *Loop) updatePosition() {
	rawX := int(l.adc.Read(hal.ChannelX))
	rawY := int(l.adc.Read(hal.ChannelY))

	size := int(l.layout.SquareSize)
	width := int(l.layout.Width)
	height := int(l.layout.Height)

	border := l.state.BorderOffset()
	x := joystick.MapToScreen(rawX, l.cal.CenterX, width-size-border)
	y := height - size - joystick.MapToScreen(rawY, l.cal.CenterY, height-size-border)

	// the border may have been toggled since the mapping above
	border = l.state.BorderOffset()
	l.state.X = clamp(x, border, width-size-border)
	l.state.Y = clamp(y, border, height-size-border)
}

// Run ticks every configured period until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		if _, err := l.Tick(); err != nil {
			log.Printf("display update failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
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
