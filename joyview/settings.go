package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gojoy/pkg/board"
	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/trace"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createCalibrationTab(state),
		createTraceTab(state),
		createSimTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(500, 400))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

// saveConfig validates and applies a change, rolling it back if the result is invalid.
// Changes take effect on the next connect.
func saveConfig(state *appState, change func(cfg *config.Config)) bool {
	next := *state.cfg
	change(&next)

	if err := next.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return false
	}
	*state.cfg = next
	return true
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := board.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			portOptions = append(portOptions, port.Description)
			portMap[port.Description] = port.Name
		}
	}

	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected
			}

			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.device != nil && state.device.IsConnected() && state.sim == nil

			if !saveConfig(state, func(cfg *config.Config) { cfg.Serial.Port = selectedPort }) {
				return
			}

			// reconnect to the new port
			if portChanged && wasConnected {
				disconnect(state)
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createCalibrationTab creates the joystick calibration tab. The firmware compiles its
// own defaults; these values drive the simulation and the trace scaling.
func createCalibrationTab(state *appState) *container.TabItem {
	centerXEntry := widget.NewEntry()
	centerXEntry.SetText(strconv.Itoa(state.cfg.Calibration.CenterX))

	centerYEntry := widget.NewEntry()
	centerYEntry.SetText(strconv.Itoa(state.cfg.Calibration.CenterY))

	deadzoneEntry := widget.NewEntry()
	deadzoneEntry.SetText(strconv.Itoa(state.cfg.Calibration.Deadzone))

	// Fill the centers from the stick as it rests now
	captureBtn := widget.NewButton("Use current stick position", func() {
		st, ok := state.trace.Latest()
		if !ok {
			dialog.ShowInformation("Calibration", "No status received yet", state.window)
			return
		}
		centerXEntry.SetText(strconv.Itoa(int(st.RawX)))
		centerYEntry.SetText(strconv.Itoa(int(st.RawY)))
	})

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Center X", Widget: centerXEntry},
			{Text: "Center Y", Widget: centerYEntry},
			{Text: "Deadzone", Widget: deadzoneEntry},
			{Text: "", Widget: captureBtn},
		},
		OnSubmit: func() {
			saveConfig(state, func(cfg *config.Config) {
				if v, err := strconv.Atoi(centerXEntry.Text); err == nil {
					cfg.Calibration.CenterX = v
				}
				if v, err := strconv.Atoi(centerYEntry.Text); err == nil {
					cfg.Calibration.CenterY = v
				}
				if v, err := strconv.Atoi(deadzoneEntry.Text); err == nil {
					cfg.Calibration.Deadzone = v
				}
			})
		},
	}

	return container.NewTabItem("Calibration", form)
}

// createTraceTab creates the trace and timing configuration tab.
func createTraceTab(state *appState) *container.TabItem {
	windowEntry := widget.NewEntry()
	windowEntry.SetText(strconv.FormatFloat(state.cfg.Trace.WindowSeconds, 'f', 1, 64))

	tickEntry := widget.NewEntry()
	tickEntry.SetText(state.cfg.Timing.Tick.String())

	debounceEntry := widget.NewEntry()
	debounceEntry.SetText(state.cfg.Timing.Debounce.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (seconds)", Widget: windowEntry},
			{Text: "Loop Tick", Widget: tickEntry},
			{Text: "Debounce", Widget: debounceEntry},
		},
		OnSubmit: func() {
			ok := saveConfig(state, func(cfg *config.Config) {
				if ws, err := strconv.ParseFloat(windowEntry.Text, 64); err == nil && ws > 0 {
					cfg.Trace.WindowSeconds = ws
				}
				if d, err := time.ParseDuration(tickEntry.Text); err == nil {
					cfg.Timing.Tick = d
				}
				if d, err := time.ParseDuration(debounceEntry.Text); err == nil {
					cfg.Timing.Debounce = d
				}
			})
			if ok && (state.device == nil || !state.device.IsConnected()) {
				// the trace is rebuilt with the new window
				state.trace = trace.New(state.cfg)
				registerTraceUpdates(state)
			}
		},
	}

	return container.NewTabItem("Trace", form)
}

// createSimTab creates the simulated board configuration tab.
func createSimTab(state *appState) *container.TabItem {
	sweepCheck := widget.NewCheck("Sweep the stick automatically", nil)
	sweepCheck.SetChecked(state.cfg.Sim.Sweep)

	periodEntry := widget.NewEntry()
	periodEntry.SetText(state.cfg.Sim.SweepPeriod.String())

	amplitudeEntry := widget.NewEntry()
	amplitudeEntry.SetText(strconv.FormatFloat(state.cfg.Sim.Amplitude, 'f', 2, 64))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Sweep", Widget: sweepCheck},
			{Text: "Sweep Period", Widget: periodEntry},
			{Text: "Amplitude (0..1)", Widget: amplitudeEntry},
		},
		OnSubmit: func() {
			saveConfig(state, func(cfg *config.Config) {
				cfg.Sim.Sweep = sweepCheck.Checked
				if d, err := time.ParseDuration(periodEntry.Text); err == nil && d > 0 {
					cfg.Sim.SweepPeriod = d
				}
				if a, err := strconv.ParseFloat(amplitudeEntry.Text, 64); err == nil {
					cfg.Sim.Amplitude = a
				}
			})
		},
	}

	return container.NewTabItem("Simulation", form)
}
