//go:build rp2040

//go:generate tinygo flash -target=pico

package main

import (
	"context"
	"machine"
	"time"

	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/hal"
	"github.com/itohio/gojoy/pkg/loop"
	"github.com/itohio/gojoy/pkg/render"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
	"tinygo.org/x/drivers/ssd1306"
)

func main() {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	machine.Serial.Configure(machine.UARTConfig{BaudRate: SERIAL_BAUD_RATE})

	// Indicator LED, toggled together with the border
	PIN_LED_GREEN.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED_GREEN.Low()

	for _, pin := range []machine.Pin{PIN_BUTTON_A, PIN_BUTTON_B, PIN_BUTTON_JOY} {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	display := newDisplay(cfg.Display)
	if err := render.Splash(display, cfg.Display, render.Title); err != nil {
		println("splash failed:", err.Error())
	}
	time.Sleep(SPLASH_MS * time.Millisecond)
	println("joystick demo ready")

	state := scene.New(cfg.Display.Center())
	clock := hal.NewWallClock()
	dispatcher := scene.NewDispatcher(state, PIN_LED_GREEN, cfg.DebounceMicros())

	buttons := []struct {
		pin    machine.Pin
		button scene.Button
	}{
		{PIN_BUTTON_A, scene.ButtonA},
		{PIN_BUTTON_B, scene.ButtonB},
		{PIN_BUTTON_JOY, scene.ButtonJoystick},
	}
	for _, b := range buttons {
		button := b.button
		err := b.pin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
			dispatcher.HandleEdge(button, clock.NowMicros())
		})
		if err != nil {
			panic(err)
		}
	}

	pwm, err := newPWM()
	if err != nil {
		panic(err)
	}

	demo := loop.New(cfg, state, newADC(), pwm, display)
	demo.OnStatus(func(st telemetry.Status) {
		println(st.String())
	})

	go processSerial(dispatcher, clock)

	demo.Run(context.Background())
}

// newDisplay brings up the OLED on I2C1.
func newDisplay(layout render.Layout) *ssd1306.Device {
	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: I2C_FREQUENCY,
		SDA:       PIN_I2C_SDA,
		SCL:       PIN_I2C_SCL,
	}); err != nil {
		panic(err)
	}

	dev := ssd1306.NewI2C(i2c)
	dev.Configure(ssd1306.Config{
		Width:    layout.Width,
		Height:   layout.Height,
		Address:  OLED_ADDRESS,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()
	return dev
}

// processSerial presses buttons on behalf of the host. Each command byte is handled
// like a falling edge, debounce included; anything else is ignored.
func processSerial(dispatcher *scene.Dispatcher, clock hal.Clock) {
	for {
		for machine.Serial.Buffered() > 0 {
			data, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			if b, ok := telemetry.ParseCommand(data); ok {
				dispatcher.HandleEdge(b, clock.NowMicros())
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
}
