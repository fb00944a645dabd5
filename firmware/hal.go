//go:build rp2040

package main

import (
	"machine"

	"github.com/itohio/gojoy/pkg/hal"
)

// rpADC samples the joystick axes. TinyGo scales conversions to 16 bits.
type rpADC struct {
	x, y machine.ADC
}

func newADC() *rpADC {
	machine.InitADC()

	a := &rpADC{
		x: machine.ADC{Pin: PIN_JOY_X},
		y: machine.ADC{Pin: PIN_JOY_Y},
	}
	a.x.Configure(machine.ADCConfig{})
	a.y.Configure(machine.ADCConfig{})
	return a
}

func (a *rpADC) Read(ch hal.Channel) uint16 {
	switch ch {
	case hal.ChannelX:
		return a.x.Get() >> 4
	case hal.ChannelY:
		return a.y.Get() >> 4
	}
	return 0
}

// pwmSlice is the part of a machine PWM group the LEDs use.
type pwmSlice interface {
	Set(channel uint8, value uint32)
	Top() uint32
}

// rpPWM drives the red and blue LEDs from one PWM slice.
type rpPWM struct {
	slice    pwmSlice
	channels [2]uint8
}

func newPWM() (*rpPWM, error) {
	slice := machine.PWM6
	if err := slice.Configure(machine.PWMConfig{Period: PWM_PERIOD_NS}); err != nil {
		return nil, err
	}

	p := &rpPWM{slice: slice}
	var err error
	if p.channels[hal.LEDRed], err = slice.Channel(PIN_LED_RED); err != nil {
		return nil, err
	}
	if p.channels[hal.LEDBlue], err = slice.Channel(PIN_LED_BLUE); err != nil {
		return nil, err
	}

	p.Set(hal.LEDRed, 0)
	p.Set(hal.LEDBlue, 0)
	return p, nil
}

func (p *rpPWM) Set(led hal.LED, duty uint16) {
	if int(led) >= len(p.channels) {
		return
	}
	p.slice.Set(p.channels[led], uint32(duty)*p.slice.Top()/65535)
}
