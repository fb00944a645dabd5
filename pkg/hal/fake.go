package hal

import (
	"sync/atomic"
	"time"
)

var (
	_ ADC   = (*FakeADC)(nil)
	_ PWM   = (*FakePWM)(nil)
	_ Pin   = (*FakePin)(nil)
	_ Clock = (*FakeClock)(nil)
	_ Clock = (*WallClock)(nil)
)

// FakeADC returns whatever was last stored for each channel.
type FakeADC struct {
	values [2]atomic.Uint32
	reads  atomic.Uint32
}

// NewFakeADC returns an ADC resting at the given raw values.
func NewFakeADC(x, y uint16) *FakeADC {
	a := &FakeADC{}
	a.SetXY(x, y)
	return a
}

// SetXY stores raw samples for both joystick axes.
func (a *FakeADC) SetXY(x, y uint16) {
	a.Set(ChannelX, x)
	a.Set(ChannelY, y)
}

// Set stores a raw sample for ch. Values above 4095 are clipped like the hardware would.
func (a *FakeADC) Set(ch Channel, v uint16) {
	if int(ch) >= len(a.values) {
		return
	}
	if v > 4095 {
		v = 4095
	}
	a.values[ch].Store(uint32(v))
}

func (a *FakeADC) Read(ch Channel) uint16 {
	a.reads.Add(1)
	if int(ch) >= len(a.values) {
		return 0
	}
	return uint16(a.values[ch].Load())
}

// Reads returns the number of conversions performed.
func (a *FakeADC) Reads() int {
	return int(a.reads.Load())
}

// FakePWM records the last duty applied to each LED.
type FakePWM struct {
	levels [numLEDs]atomic.Uint32
}

func (p *FakePWM) Set(led LED, duty uint16) {
	if led >= numLEDs {
		return
	}
	p.levels[led].Store(uint32(duty))
}

// Level returns the duty last applied to led.
func (p *FakePWM) Level(led LED) uint16 {
	if led >= numLEDs {
		return 0
	}
	return uint16(p.levels[led].Load())
}

// FakePin is an output pin held in memory.
type FakePin struct {
	high atomic.Bool
}

func (p *FakePin) Get() bool {
	return p.high.Load()
}

func (p *FakePin) Set(high bool) {
	p.high.Store(high)
}

// FakeClock is a manually advanced microsecond counter.
type FakeClock struct {
	now atomic.Uint32
}

func (c *FakeClock) NowMicros() uint32 {
	return c.now.Load()
}

// Set moves the counter to us.
func (c *FakeClock) Set(us uint32) {
	c.now.Store(us)
}

// Advance moves the counter forward by d, wrapping like the hardware timer.
func (c *FakeClock) Advance(d time.Duration) {
	c.now.Add(uint32(d.Microseconds()))
}

// WallClock counts microseconds since it was created.
type WallClock struct {
	start time.Time
}

// NewWallClock starts a clock at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) NowMicros() uint32 {
	return uint32(time.Since(c.start).Microseconds())
}
