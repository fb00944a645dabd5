package telemetry

import (
	"fmt"

	"github.com/itohio/gojoy/pkg/scene"
)

// Host to firmware commands are a single letter followed by a newline. Each one presses a
// button exactly like the physical edge would, debounce included.
const (
	CommandA        byte = 'a'
	CommandB        byte = 'b'
	CommandJoystick byte = 'j'
)

// Command returns the command line that presses b.
func Command(b scene.Button) ([]byte, error) {
	switch b {
	case scene.ButtonA:
		return []byte{CommandA, '\n'}, nil
	case scene.ButtonB:
		return []byte{CommandB, '\n'}, nil
	case scene.ButtonJoystick:
		return []byte{CommandJoystick, '\n'}, nil
	}
	return nil, fmt.Errorf("no command for button %d", b)
}

// ParseCommand maps a command letter back to its button.
func ParseCommand(c byte) (scene.Button, bool) {
	switch c {
	case CommandA, 'A':
		return scene.ButtonA, true
	case CommandB, 'B':
		return scene.ButtonB, true
	case CommandJoystick, 'J':
		return scene.ButtonJoystick, true
	}
	return 0, false
}
