//go:build rp2040

package main

import "machine"

const (
	// Buttons, active low with internal pull-ups
	PIN_BUTTON_A   = machine.GP5
	PIN_BUTTON_B   = machine.GP6
	PIN_BUTTON_JOY = machine.GP22

	// LEDs. Red and blue share PWM slice 6 (channels B and A)
	PIN_LED_GREEN = machine.GP11
	PIN_LED_BLUE  = machine.GP12
	PIN_LED_RED   = machine.GP13

	// Joystick axes
	PIN_JOY_X = machine.ADC1 // GPIO27
	PIN_JOY_Y = machine.ADC0 // GPIO26

	// OLED on I2C1
	PIN_I2C_SDA   = machine.GP14
	PIN_I2C_SCL   = machine.GP15
	I2C_FREQUENCY = 400 * machine.KHz
	OLED_ADDRESS  = 0x3C

	// PWM: 125 MHz / clkdiv 4 with a 65535 wrap is ~477 Hz, a period of 2097152 ns
	PWM_PERIOD_NS = 2097152

	// Diagnostic and command channel over USB CDC
	SERIAL_BAUD_RATE = 115200

	// Splash duration at boot
	SPLASH_MS = 1000
)
