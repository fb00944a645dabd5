package board

import (
	"testing"
	"time"

	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSimConfig() *config.Config {
	cfg := config.Default()
	cfg.Timing.Tick = 5 * time.Millisecond
	cfg.Timing.Debounce = 0
	cfg.Sim.Sweep = false
	return cfg
}

// waitFor drains statuses until one satisfies ok.
func waitFor(t *testing.T, statuses <-chan telemetry.Status, ok func(telemetry.Status) bool) telemetry.Status {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case st, open := <-statuses:
			require.True(t, open, "statuses closed")
			if ok(st) {
				return st
			}
		case <-timeout:
			t.Fatal("no matching status")
		}
	}
}

func TestSim_CenteredStatus(t *testing.T) {
	sim := NewSim(testSimConfig())
	require.NoError(t, sim.Connect())
	defer sim.Close()

	st := waitFor(t, sim.Statuses(), func(telemetry.Status) bool { return true })
	assert.Equal(t, uint16(joystick.DefaultCenterX), st.RawX)
	assert.Equal(t, uint16(joystick.DefaultCenterY), st.RawY)
	assert.Equal(t, 59, st.SquareX)
	assert.Equal(t, 29, st.SquareY)
	assert.True(t, st.PWMEnabled)
	assert.Zero(t, st.Red)
	assert.Zero(t, st.Blue)
	assert.False(t, st.Timestamp.IsZero())
}

func TestSim_SetStick(t *testing.T) {
	sim := NewSim(testSimConfig())
	require.NoError(t, sim.Connect())
	defer sim.Close()

	sim.SetStick(4095, 0)
	assert.False(t, sim.Sweeping())

	st := waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return s.RawX == 4095 })
	assert.Equal(t, uint16(joystick.DutyMax), st.Red)
	assert.Equal(t, uint16(joystick.DutyMax), st.Blue)
	assert.Equal(t, 118, st.SquareX)
	assert.Equal(t, 55, st.SquareY)
}

func TestSim_Press(t *testing.T) {
	sim := NewSim(testSimConfig())
	require.NoError(t, sim.Connect())
	defer sim.Close()

	require.NoError(t, sim.Press(scene.ButtonJoystick))
	assert.True(t, sim.Indicator())
	waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return s.BorderThick })

	require.NoError(t, sim.Press(scene.ButtonB))
	waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return s.Fill == scene.Filled })

	sim.SetStick(4095, 2180)
	require.NoError(t, sim.Press(scene.ButtonA))
	st := waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return !s.PWMEnabled })
	assert.Zero(t, st.Red)
}

func TestSim_PressDebounced(t *testing.T) {
	cfg := testSimConfig()
	cfg.Timing.Debounce = time.Minute

	sim := NewSim(cfg)
	require.NoError(t, sim.Connect())
	defer sim.Close()

	// the window also covers the first minute after boot
	assert.ErrorIs(t, sim.Press(scene.ButtonA), ErrIgnored)
	assert.False(t, sim.Indicator())
}

func TestSim_NotConnected(t *testing.T) {
	sim := NewSim(nil)
	assert.False(t, sim.IsConnected())
	assert.ErrorIs(t, sim.Press(scene.ButtonA), ErrNotConnected)
	assert.NoError(t, sim.Close())
}

func TestSim_ConnectTwice(t *testing.T) {
	sim := NewSim(testSimConfig())
	require.NoError(t, sim.Connect())
	defer sim.Close()

	assert.ErrorIs(t, sim.Connect(), ErrAlreadyConnected)
}

func TestSim_Sweep(t *testing.T) {
	cfg := testSimConfig()
	cfg.Sim.Sweep = true
	cfg.Sim.SweepPeriod = 400 * time.Millisecond

	sim := NewSim(cfg)
	assert.True(t, sim.Sweeping())
	require.NoError(t, sim.Connect())
	defer sim.Close()

	waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return s.RawX > 3000 })
	waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return s.RawX < 1000 })
}

func TestSim_DrawsScene(t *testing.T) {
	sim := NewSim(testSimConfig())
	require.NoError(t, sim.Connect())

	waitFor(t, sim.Statuses(), func(telemetry.Status) bool { return true })
	// the loop finishes its frame before stopping
	require.NoError(t, sim.Close())

	// outlined square at (59, 29) on a thin border
	assert.Equal(t, 28, sim.screen.Lit(59, 29, 67, 37))
	assert.True(t, sim.screen.Pixel(0, 0))
}

// TestSim_GracefulShutdown tests that Sim closes the statuses channel when Close() is called.
func TestSim_GracefulShutdown(t *testing.T) {
	sim := NewSim(testSimConfig())
	require.NoError(t, sim.Connect())

	statuses := sim.Statuses()

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range statuses {
			received++
			if received == 3 {
				sim.Close()
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Statuses channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3)
	_, ok := <-statuses
	assert.False(t, ok, "Channel should be closed")
	assert.False(t, sim.IsConnected())
}

func TestSim_OwnsConfig(t *testing.T) {
	cfg := testSimConfig()
	cfg.Timing.Tick = time.Millisecond
	cfg.Sim.Sweep = true
	cfg.Sim.SweepPeriod = 20 * time.Millisecond

	sim := NewSim(cfg)
	require.NoError(t, sim.Connect())
	defer sim.Close()

	// the viewer saves settings while the simulation runs; go test -race covers this
	for i := range 50 {
		next := *cfg
		next.Calibration.CenterX = 1000 + i
		next.Sim.Amplitude = 0.1
		*cfg = next
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, joystick.DefaultCenterX, sim.cfg.Calibration.CenterX)
	assert.Equal(t, 0.9, sim.cfg.Sim.Amplitude)
	waitFor(t, sim.Statuses(), func(s telemetry.Status) bool { return s.RawX > 3000 })
}
