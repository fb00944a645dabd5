// Package board connects the host tools to a running demo, either the real RP2040 over
// USB serial or an in-process simulation.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	// PicoVID is the Raspberry Pi USB vendor ID the RP2040 enumerates with.
	PicoVID = "2E8A"

	// DefaultBaudRate is ignored by USB CDC but required by the serial API.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the statuses channel buffer.
	DefaultBufferSize = 100
)

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	// ErrIgnored is returned when a press fell inside the debounce window.
	ErrIgnored = errors.New("press ignored")
)

// Device defines the interface for demo boards (real or simulated).
type Device interface {
	Connect() error
	Close() error
	Statuses() <-chan telemetry.Status
	Press(b scene.Button) error
	IsConnected() bool
}

var (
	_ Device = (*Serial)(nil)
	_ Device = (*Sim)(nil)
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports. USB ports are described by product and
// IDs where the platform exposes them.
func Ports() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		names, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to list serial ports: %w", err)
		}
		result := make([]Port, 0, len(names))
		for _, name := range names {
			result = append(result, Port{Name: name, Description: name})
		}
		return result, nil
	}

	result := make([]Port, 0, len(details))
	for _, d := range details {
		result = append(result, Port{Name: d.Name, Description: describe(d)})
	}
	return result, nil
}

func describe(d *enumerator.PortDetails) string {
	if !d.IsUSB {
		return d.Name
	}
	desc := fmt.Sprintf("%s [%s:%s]", d.Name, d.VID, d.PID)
	if d.Product != "" {
		desc += " " + d.Product
	}
	if strings.EqualFold(d.VID, PicoVID) {
		desc += " (RP2040)"
	}
	return desc
}
