// Package hal defines the peripherals the demo loop depends on.
//
// Target-specific code in firmware/ implements these on top of TinyGo's machine package;
// the fakes in this package back the host simulator and tests.
package hal

// Channel identifies an ADC input channel.
type Channel uint8

// Joystick axes as wired on the board: X on ADC1 (GPIO27), Y on ADC0 (GPIO26).
const (
	ChannelY Channel = 0
	ChannelX Channel = 1
)

// LED identifies a PWM driven LED.
type LED uint8

const (
	LEDRed LED = iota
	LEDBlue
	numLEDs
)

func (l LED) String() string {
	switch l {
	case LEDRed:
		return "red"
	case LEDBlue:
		return "blue"
	}
	return "unknown"
}

// ADC performs one-shot 12-bit conversions.
type ADC interface {
	// Read samples ch and returns a value in [0, 4095].
	Read(ch Channel) uint16
}

// PWM drives LED brightness.
type PWM interface {
	// Set applies duty in [0, 65535] to the LED.
	Set(led LED, duty uint16)
}

// Pin is a digital output that can be read back. machine.Pin satisfies it.
type Pin interface {
	Get() bool
	Set(high bool)
}

// Clock is a free running microsecond counter. It wraps at 2^32.
type Clock interface {
	NowMicros() uint32
}
