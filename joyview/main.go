package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gojoy/pkg/board"
	"github.com/itohio/gojoy/pkg/config"
	"github.com/itohio/gojoy/pkg/render"
	"github.com/itohio/gojoy/pkg/scope"
	"github.com/itohio/gojoy/pkg/telemetry"
	"github.com/itohio/gojoy/pkg/trace"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		simFlag    = flag.Bool("sim", false, "Run the demo in-process instead of reading a board")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	application := app.NewWithID("com.itohio.gojoy")

	window := application.NewWindow("Joystick Demo Viewer")
	window.Resize(fyne.NewSize(1100, 600))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		trace:      trace.New(cfg),
		window:     window,
		useSim:     *simFlag,
	}

	state.oled = scope.NewOLED(cfg.Display)
	state.oled.Splash(render.Title)
	state.statusLabel = widget.NewLabel("disconnected")
	state.statusLabel.TextStyle = fyne.TextStyle{Monospace: true}
	state.scopeWidget = scope.New(cfg)
	registerTraceUpdates(state)

	left := container.NewVBox(
		state.oled,
		createButtons(state),
		createStickControls(state),
	)

	content := container.NewBorder(
		createToolbar(state),
		state.statusLabel,
		left,
		nil,
		state.scopeWidget,
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		closeChain(state.chain)
	})
	window.ShowAndRun()
}

// chain tracks the goroutines fed by a connected device for graceful shutdown.
type chain struct {
	device    board.Device
	forwarder chan struct{} // Closed when the status forwarder exits
	tracer    chan struct{} // Closed when the trace goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	device     board.Device
	sim        *board.Sim // set while connected to the simulation
	trace      *trace.Trace
	chain      *chain
	useSim     bool

	window      fyne.Window
	oled        *scope.OLEDWidget
	scopeWidget *scope.ScopeWidget
	statusLabel *widget.Label
	connectBtn  *widget.Button
	buttons     [3]*widget.Button
	stick       *stickControls

	last telemetry.Status // last status shown on the buttons

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("Connect", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	simCheck := widget.NewCheck("Simulated board", func(on bool) {
		state.useSim = on
	})
	simCheck.SetChecked(state.useSim)

	clearBtn := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		state.trace.Clear()
		state.scopeWidget.UpdateData(nil, nil)
	})

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn, simCheck),
		clearBtn,
		nil,
	)
}

// closeChain closes the device and waits for the goroutines it feeds.
func closeChain(c *chain) {
	if c == nil {
		return
	}

	// closes the statuses channel, which ends the forwarder, which ends the trace input
	if c.device != nil {
		c.device.Close()
	}
	<-c.forwarder
	<-c.tracer
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		disconnect(state)
		return
	}

	var device board.Device
	if state.useSim {
		sim := board.NewSim(state.cfg)
		state.sim = sim
		device = sim
		fmt.Println("Using simulated board")
	} else {
		device = board.NewSerial(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, board.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		state.sim = nil
		if state.useSim {
			dialog.ShowError(fmt.Errorf("failed to start simulated board: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	if state.useSim {
		fmt.Println("Connected to simulated board")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	state.connectBtn.SetText("Disconnect")
	state.connectBtn.SetIcon(theme.LogoutIcon())
	setButtonsEnabled(state, true)
	state.stick.setEnabled(state.sim != nil)
	if state.sim != nil {
		state.stick.sync(state.sim, state.cfg.Calibration)
		state.oled.SetIndicator(state.sim.Indicator)
	}

	state.trace.ResetShutdown()
	state.trace.Clear()
	state.chain = startChain(state, device)
}

func disconnect(state *appState) {
	closeChain(state.chain)
	state.chain = nil
	state.device = nil
	state.sim = nil

	state.connectBtn.SetText("Connect")
	state.connectBtn.SetIcon(theme.LoginIcon())
	setButtonsEnabled(state, false)
	state.stick.setEnabled(false)
	state.statusLabel.SetText("disconnected")
	state.oled.SetIndicator(nil)
	state.oled.Splash(render.Title)

	if state.useSim {
		fmt.Println("Disconnected from simulated board")
	} else {
		fmt.Println("Disconnected from serial port")
	}
}

// registerTraceUpdates forwards trace updates to the scope widget.
func registerTraceUpdates(state *appState) {
	// Throttle scope updates to ~30 FPS
	const updateInterval = 33 * time.Millisecond
	state.trace.OnUpdate(func(statuses []telemetry.Status, events []trace.Event) {
		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < updateInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		fyne.Do(func() {
			state.scopeWidget.UpdateData(statuses, events)
		})
	})
}

// startChain wires device statuses to the mirror, the buttons and the trace.
func startChain(state *appState, device board.Device) *chain {
	c := &chain{
		device:    device,
		forwarder: make(chan struct{}),
		tracer:    make(chan struct{}),
	}

	traced := make(chan telemetry.Status, board.DefaultBufferSize)

	go func() {
		defer close(c.forwarder)
		defer close(traced)
		for st := range device.Statuses() {
			fyne.Do(func() {
				showStatus(state, st)
			})
			traced <- st
		}
	}()

	go func() {
		defer close(c.tracer)
		state.trace.ProcessStatuses(traced)
	}()

	return c
}

// showStatus updates the mirror, the status line and the button states. Runs on the
// Fyne goroutine.
func showStatus(state *appState, st telemetry.Status) {
	state.oled.Update(st)
	state.statusLabel.SetText(st.String())
	updateButtonStates(state, st)
}
