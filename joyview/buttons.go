package main

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gojoy/pkg/board"
	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
)

var buttonLabels = [...]string{
	scene.ButtonA:        "A: LEDs",
	scene.ButtonB:        "B: fill",
	scene.ButtonJoystick: "Stick: border",
}

// createButtons creates one press button per board button.
func createButtons(state *appState) fyne.CanvasObject {
	row := container.NewGridWithColumns(len(state.buttons))
	for i := range state.buttons {
		b := scene.Button(i)
		btn := widget.NewButton(buttonLabels[b], func() {
			handlePress(state, b)
		})
		btn.Disable()
		state.buttons[i] = btn
		row.Add(btn)
	}
	return row
}

// handlePress presses b on the connected board.
func handlePress(state *appState, b scene.Button) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	err := state.device.Press(b)
	if errors.Is(err, board.ErrIgnored) {
		// inside the debounce window, same as a bouncing contact
		return
	}
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to press %s: %w", b, err), state.window)
	}
}

func setButtonsEnabled(state *appState, on bool) {
	for _, btn := range state.buttons {
		if on {
			btn.Enable()
		} else {
			btn.Disable()
		}
	}
}

// updateButtonStates highlights the buttons whose toggle is set. Only touches the UI
// when a flag actually changed.
func updateButtonStates(state *appState, st telemetry.Status) {
	prev := state.last
	state.last = st
	if prev.PWMEnabled == st.PWMEnabled && prev.Fill == st.Fill && prev.BorderThick == st.BorderThick {
		return
	}

	updateButton(state.buttons[scene.ButtonA], st.PWMEnabled)
	updateButton(state.buttons[scene.ButtonB], st.Fill == scene.Filled)
	updateButton(state.buttons[scene.ButtonJoystick], st.BorderThick)
}

// updateButton updates a single button's visual state.
func updateButton(btn *widget.Button, isOn bool) {
	if isOn {
		btn.Importance = widget.HighImportance
	} else {
		btn.Importance = widget.MediumImportance
	}
	btn.Refresh()
}

// stickControls move the simulated stick.
type stickControls struct {
	x, y  *widget.Slider
	sweep *widget.Check
	sim   *board.Sim
}

// createStickControls creates sliders for the simulated stick, disabled until a
// simulated board is connected.
func createStickControls(state *appState) fyne.CanvasObject {
	c := &stickControls{
		x: widget.NewSlider(0, 4095),
		y: widget.NewSlider(0, 4095),
	}
	set := func(float64) {
		if c.sim != nil {
			c.sim.SetStick(uint16(c.x.Value), uint16(c.y.Value))
			c.sweep.SetChecked(false)
		}
	}
	c.x.OnChanged = set
	c.y.OnChanged = set
	c.sweep = widget.NewCheck("Sweep", func(on bool) {
		if c.sim != nil {
			c.sim.SetSweep(on)
		}
	})

	state.stick = c
	c.setEnabled(false)

	return widget.NewForm(
		widget.NewFormItem("Stick X", c.x),
		widget.NewFormItem("Stick Y", c.y),
		widget.NewFormItem("", c.sweep),
	)
}

// sync attaches the controls to sim, centered on cal, and shows its current mode.
func (c *stickControls) sync(sim *board.Sim, cal joystick.Calibration) {
	c.sim = nil
	c.x.SetValue(float64(cal.CenterX))
	c.y.SetValue(float64(cal.CenterY))
	c.sweep.SetChecked(sim.Sweeping())
	c.sim = sim
}

func (c *stickControls) setEnabled(on bool) {
	if !on {
		c.sim = nil
	}
	for _, w := range []fyne.Disableable{c.x, c.y, c.sweep} {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}
