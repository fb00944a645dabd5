package board

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/itohio/gojoy/pkg/scene"
	"github.com/itohio/gojoy/pkg/telemetry"
	"go.bug.st/serial"
)

type openFunc func(port string, mode *serial.Mode) (io.ReadWriteCloser, error)

func openSerial(port string, mode *serial.Mode) (io.ReadWriteCloser, error) {
	return serial.Open(port, mode)
}

// Serial monitors a board running the firmware over its USB serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	open     openFunc

	conn      io.ReadWriteCloser
	statuses  chan telemetry.Status
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	reader    sync.WaitGroup
	connected bool
}

// NewSerial creates a new Serial instance with the specified port, baud rate, and buffer size.
func NewSerial(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		open:     openSerial,
		statuses: make(chan telemetry.Status, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect opens the serial port and starts reading status lines.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}
	if d.ctx.Err() != nil {
		return fmt.Errorf("device was closed")
	}

	conn, err := d.open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = conn
	d.connected = true

	d.reader.Add(1)
	go d.readStatuses(conn)

	return nil
}

// Close closes the port, waits for the reader to stop and closes the statuses channel.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	// unblocks the reader
	if err := d.conn.Close(); err != nil {
		log.Printf("Error closing serial port: %v", err)
	}
	d.reader.Wait()
	d.conn = nil
	d.connected = false

	close(d.statuses)

	return nil
}

// Statuses returns the channel of parsed status lines.
func (d *Serial) Statuses() <-chan telemetry.Status {
	return d.statuses
}

// Press sends a button command to the firmware. Whether it was accepted shows up in the
// following status lines.
func (d *Serial) Press(b scene.Button) error {
	cmd, err := telemetry.Command(b)
	if err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}

	if _, err := d.conn.Write(cmd); err != nil {
		return fmt.Errorf("failed to send %s press: %w", b, err)
	}
	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readStatuses reads lines from r and forwards the ones that parse as status lines.
// Anything else the firmware prints (boot banner, panics) is logged.
func (d *Serial) readStatuses(r io.Reader) {
	defer d.reader.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readStatuses: %v", r)
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if d.ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		st, err := telemetry.Parse(line)
		if err != nil {
			log.Printf("firmware: %s", line)
			continue
		}
		st.Timestamp = time.Now()

		select {
		case d.statuses <- st:
		case <-d.ctx.Done():
			return
		default:
			log.Printf("Statuses channel full, dropping status")
		}
	}

	if err := scanner.Err(); err != nil && d.ctx.Err() == nil {
		log.Printf("Error reading from serial port: %v", err)
	}
}
