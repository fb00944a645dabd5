package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/hal"
	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/render"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	cfg    *config.Config
	state  *scene.State
	adc    *hal.FakeADC
	pwm    *hal.FakePWM
	screen *render.Mono
	loop   *Loop
}

func newFixture(x, y uint16) *fixture {
	cfg := config.Default()
	cx, cy := cfg.Display.Center()
	f := &fixture{
		cfg:    cfg,
		state:  scene.New(cx, cy),
		adc:    hal.NewFakeADC(x, y),
		pwm:    &hal.FakePWM{},
		screen: render.NewMono(cfg.Display.Width, cfg.Display.Height),
	}
	f.loop = New(cfg, f.state, f.adc, f.pwm, f.screen)
	return f
}

func TestTick_CenteredStick(t *testing.T) {
	f := newFixture(joystick.DefaultCenterX, joystick.DefaultCenterY)

	st, err := f.loop.Tick()
	require.NoError(t, err)

	// truncating division lands one pixel off the geometric center (60, 28)
	assert.Equal(t, 59, f.state.X)
	assert.Equal(t, 29, f.state.Y)
	assert.Zero(t, f.pwm.Level(hal.LEDRed))
	assert.Zero(t, f.pwm.Level(hal.LEDBlue))

	assert.Equal(t, "X: 1939 | Y: 2180 | PWM: on | SQ: 59,29 | BORDER: thin | FILL: outlined | LED: 0,0", st.String())

	assert.Equal(t, 1, f.screen.Flushes())
	assert.Equal(t, 28, f.screen.Lit(59, 29, 67, 37), "outlined square")
	assert.True(t, f.screen.Pixel(0, 0), "border")
}

func TestTick_Position(t *testing.T) {
	tests := []struct {
		name  string
		x, y  uint16
		thick bool
		wantX int
		wantY int
	}{
		{name: "right and up", x: 4095, y: 4095, wantX: 118, wantY: 2},
		{name: "left and down", x: 0, y: 0, wantX: 1, wantY: 55},
		{name: "thick border left and down", x: 0, y: 0, thick: true, wantX: 3, wantY: 53},
		{name: "thick border right and up", x: 4095, y: 4095, thick: true, wantX: 116, wantY: 4},
		{name: "half left", x: 1000, y: 2180, wantX: 31, wantY: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.x, tt.y)
			if tt.thick {
				f.state.ToggleBorder()
			}

			_, err := f.loop.Tick()
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, f.state.X)
			assert.Equal(t, tt.wantY, f.state.Y)
		})
	}
}

func TestTick_StaysInsideBorder(t *testing.T) {
	f := newFixture(0, 0)
	for raw := 0; raw <= joystick.ADCMax; raw += 13 {
		for _, thick := range []bool{false, true} {
			if f.state.BorderThick() != thick {
				f.state.ToggleBorder()
			}
			f.adc.SetXY(uint16(raw), uint16(joystick.ADCMax-raw))

			_, err := f.loop.Tick()
			require.NoError(t, err)

			b := f.state.BorderOffset()
			size := int(f.cfg.Display.SquareSize)
			assert.GreaterOrEqual(t, f.state.X, b)
			assert.LessOrEqual(t, f.state.X, int(f.cfg.Display.Width)-size-b)
			assert.GreaterOrEqual(t, f.state.Y, b)
			assert.LessOrEqual(t, f.state.Y, int(f.cfg.Display.Height)-size-b)
		}
	}
}

func TestTick_Brightness(t *testing.T) {
	f := newFixture(4095, 3000)

	st, err := f.loop.Tick()
	require.NoError(t, err)

	assert.Equal(t, uint16(joystick.DutyMax), f.pwm.Level(hal.LEDRed))
	assert.Equal(t, uint16(27262), f.pwm.Level(hal.LEDBlue))
	assert.Equal(t, f.pwm.Level(hal.LEDRed), st.Red)
	assert.Equal(t, f.pwm.Level(hal.LEDBlue), st.Blue)
}

func TestTick_PWMDisabled(t *testing.T) {
	f := newFixture(4095, 0)
	f.state.TogglePWM()

	st, err := f.loop.Tick()
	require.NoError(t, err)

	assert.Zero(t, f.pwm.Level(hal.LEDRed))
	assert.Zero(t, f.pwm.Level(hal.LEDBlue))
	assert.False(t, st.PWMEnabled)
}

func TestTick_FilledSquareAndThickBorder(t *testing.T) {
	f := newFixture(joystick.DefaultCenterX, joystick.DefaultCenterY)
	f.state.ToggleFill()
	f.state.ToggleBorder()

	st, err := f.loop.Tick()
	require.NoError(t, err)

	assert.True(t, st.BorderThick)
	assert.Equal(t, scene.Filled, st.Fill)
	assert.Equal(t, 64, f.screen.Lit(int16(f.state.X), int16(f.state.Y), int16(f.state.X+8), int16(f.state.Y+8)))
	assert.True(t, f.screen.Pixel(2, 2))
}

func TestTick_FollowsDispatcher(t *testing.T) {
	f := newFixture(joystick.DefaultCenterX, joystick.DefaultCenterY)
	led := &hal.FakePin{}
	d := scene.NewDispatcher(f.state, led, f.cfg.DebounceMicros())

	require.True(t, d.HandleEdge(scene.ButtonJoystick, 1_000_000))
	require.True(t, d.HandleEdge(scene.ButtonA, 1_000_000))

	st, err := f.loop.Tick()
	require.NoError(t, err)
	assert.True(t, st.BorderThick)
	assert.False(t, st.PWMEnabled)
	assert.True(t, led.Get())
}

func TestOnStatus(t *testing.T) {
	f := newFixture(joystick.DefaultCenterX, joystick.DefaultCenterY)

	var got []telemetry.Status
	f.loop.OnStatus(func(s telemetry.Status) { got = append(got, s) })

	for range 3 {
		_, err := f.loop.Tick()
		require.NoError(t, err)
	}
	require.Len(t, got, 3)
	assert.Equal(t, 59, got[2].SquareX)
}

type brokenScreen struct {
	*render.Mono
}

func (brokenScreen) Display() error { return errors.New("i2c timeout") }

func TestTick_DisplayErrorStillDrivesLEDs(t *testing.T) {
	f := newFixture(4095, joystick.DefaultCenterY)
	l := New(f.cfg, f.state, f.adc, f.pwm, brokenScreen{f.screen})

	_, err := l.Tick()
	assert.EqualError(t, err, "i2c timeout")
	assert.Equal(t, uint16(joystick.DutyMax), f.pwm.Level(hal.LEDRed))
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(joystick.DefaultCenterX, joystick.DefaultCenterY)
	f.cfg.Timing.Tick = time.Millisecond
	l := New(f.cfg, f.state, f.adc, f.pwm, f.screen)

	ticks := make(chan struct{}, 100)
	l.OnStatus(func(telemetry.Status) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	for range 3 {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("loop did not tick")
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

// flushToggler flips the border and the fill while the frame is on the bus, as a button
// interrupt would.
type flushToggler struct {
	*render.Mono
	state *scene.State
}

func (c flushToggler) Display() error {
	c.state.ToggleBorder()
	c.state.ToggleFill()
	return c.Mono.Display()
}

func TestTick_StatusMatchesDrawnFrame(t *testing.T) {
	f := newFixture(joystick.DefaultCenterX, joystick.DefaultCenterY)
	l := New(f.cfg, f.state, f.adc, f.pwm, flushToggler{Mono: f.screen, state: f.state})

	st, err := l.Tick()
	require.NoError(t, err)

	assert.False(t, st.BorderThick, "status reports the border that was drawn")
	assert.Equal(t, scene.Outlined, st.Fill)
	assert.Equal(t, 28, f.screen.Lit(59, 29, 67, 37))

	assert.True(t, f.state.BorderThick(), "toggle applies to the next frame")
	assert.Equal(t, scene.Filled, f.state.Fill())
}
