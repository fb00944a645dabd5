package telemetry

import (
	"testing"

	"github.com/itohio/gojoy/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		button scene.Button
		want   string
	}{
		{scene.ButtonA, "a\n"},
		{scene.ButtonB, "b\n"},
		{scene.ButtonJoystick, "j\n"},
	}

	for _, tt := range tests {
		t.Run(tt.button.String(), func(t *testing.T) {
			cmd, err := Command(tt.button)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(cmd))

			b, ok := ParseCommand(cmd[0])
			require.True(t, ok)
			assert.Equal(t, tt.button, b)
		})
	}
}

func TestCommand_UnknownButton(t *testing.T) {
	_, err := Command(scene.Button(42))
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	b, ok := ParseCommand('J')
	assert.True(t, ok)
	assert.Equal(t, scene.ButtonJoystick, b)

	for _, c := range []byte{'x', '0', '\n', ' '} {
		_, ok := ParseCommand(c)
		assert.False(t, ok, "%q", c)
	}
}
