package board

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/hal"
	"github.com/itohio/gojoy/pkg/loop"
	"github.com/itohio/gojoy/pkg/render"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
)

// Sim runs the demo loop in-process on fake peripherals. The stick either follows an
// automatic sweep or whatever SetStick last stored.
type Sim struct {
	cfg *config.Config

	statuses  chan telemetry.Status
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	workers   sync.WaitGroup
	connected bool

	clock      hal.Clock
	state      *scene.State
	adc        *hal.FakeADC
	pwm        *hal.FakePWM
	led        *hal.FakePin
	screen     *render.Mono
	dispatcher *scene.Dispatcher
	loop       *loop.Loop

	sweeping atomic.Bool
}

// NewSim creates a simulated board from a copy of cfg. A nil cfg uses the defaults;
// cfg must be valid.
func NewSim(cfg *config.Config) *Sim {
	if cfg == nil {
		cfg = config.Default()
	}
	own := *cfg
	cfg = &own

	ctx, cancel := context.WithCancel(context.Background())

	cx, cy := cfg.Display.Center()
	s := &Sim{
		cfg:      cfg,
		statuses: make(chan telemetry.Status, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
		clock:    hal.NewWallClock(),
		state:    scene.New(cx, cy),
		adc:      hal.NewFakeADC(uint16(cfg.Calibration.CenterX), uint16(cfg.Calibration.CenterY)),
		pwm:      &hal.FakePWM{},
		led:      &hal.FakePin{},
		screen:   render.NewMono(cfg.Display.Width, cfg.Display.Height),
	}
	s.dispatcher = scene.NewDispatcher(s.state, s.led, cfg.DebounceMicros())
	s.loop = loop.New(cfg, s.state, s.adc, s.pwm, s.screen)
	s.loop.OnStatus(s.publish)
	s.sweeping.Store(cfg.Sim.Sweep)

	return s
}

// Connect shows the splash screen and starts the loop.
func (s *Sim) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return ErrAlreadyConnected
	}
	if s.ctx.Err() != nil {
		return ErrNotConnected
	}

	if err := render.Splash(s.screen, s.cfg.Display, render.Title); err != nil {
		return err
	}

	s.connected = true

	s.workers.Add(2)
	go func() {
		defer s.workers.Done()
		s.loop.Run(s.ctx)
	}()
	go s.sweep()

	return nil
}

// Close stops the loop and closes the statuses channel.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.cancel()
	s.workers.Wait()
	s.connected = false
	close(s.statuses)

	return nil
}

// Statuses returns the channel of loop statuses.
func (s *Sim) Statuses() <-chan telemetry.Status {
	return s.statuses
}

// Press feeds a falling edge of b to the dispatcher at the current time.
func (s *Sim) Press(b scene.Button) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return ErrNotConnected
	}
	if !s.dispatcher.HandleEdge(b, s.clock.NowMicros()) {
		return ErrIgnored
	}
	return nil
}

// IsConnected returns whether the loop is running.
func (s *Sim) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// SetStick stores raw stick samples and stops the sweep.
func (s *Sim) SetStick(x, y uint16) {
	s.sweeping.Store(false)
	s.adc.SetXY(x, y)
}

// SetSweep turns the automatic sweep on or off.
func (s *Sim) SetSweep(on bool) {
	s.sweeping.Store(on)
}

// Sweeping reports whether the stick follows the automatic sweep.
func (s *Sim) Sweeping() bool {
	return s.sweeping.Load()
}

// Indicator returns the state of the green LED.
func (s *Sim) Indicator() bool {
	return s.led.Get()
}

func (s *Sim) publish(st telemetry.Status) {
	st.Timestamp = time.Now()
	select {
	case s.statuses <- st:
	case <-s.ctx.Done():
	default:
		// Channel full, skip
	}
}

func (s *Sim) sweep() {
	defer s.workers.Done()

	ticker := time.NewTicker(s.cfg.Timing.Tick)
	defer ticker.Stop()

	start := time.Now()
	period := s.cfg.Sim.SweepPeriod.Seconds()
	amplitude := float32(s.cfg.Sim.Amplitude)

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if !s.sweeping.Load() {
				continue
			}
			phase := float32(now.Sub(start).Seconds() / period)
			s.adc.SetXY(SweepPosition(s.cfg.Calibration, amplitude, phase))
		}
	}
}
