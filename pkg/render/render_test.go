package render

import (
	"errors"
	"testing"

	"github.com/itohio/gojoy/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()

	assert.Equal(t, int16(128), l.Width)
	assert.Equal(t, int16(64), l.Height)
	assert.Equal(t, int16(8), l.SquareSize)

	x, y := l.Center()
	assert.Equal(t, 60, x)
	assert.Equal(t, 28, y)
}

func TestBorder(t *testing.T) {
	tests := []struct {
		name      string
		thickness int
		wantLit   int
	}{
		{name: "thin", thickness: scene.ThinBorder, wantLit: 2*127 + 2*63 - 4},
		{name: "thick", thickness: scene.ThickBorder, wantLit: 127*63 - 121*57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			m := NewMono(l.Width, l.Height)

			Border(m, l, tt.thickness)

			assert.Equal(t, tt.wantLit, m.Lit(0, 0, l.Width, l.Height))
			for i := int16(0); i < int16(tt.thickness); i++ {
				assert.True(t, m.Pixel(64, i))
				assert.True(t, m.Pixel(64, 62-i))
				assert.True(t, m.Pixel(i, 32))
				assert.True(t, m.Pixel(126-i, 32))
			}
			assert.False(t, m.Pixel(64, int16(tt.thickness)))
			// last row and column stay dark
			assert.Zero(t, m.Lit(0, 63, 128, 64))
			assert.Zero(t, m.Lit(127, 0, 128, 64))
		})
	}
}

func TestSquare(t *testing.T) {
	l := DefaultLayout()

	t.Run("outlined", func(t *testing.T) {
		m := NewMono(l.Width, l.Height)
		require.NoError(t, Square(m, l, 59, 29, scene.Outlined))
		assert.Equal(t, 28, m.Lit(59, 29, 67, 37))
		assert.Zero(t, m.Lit(60, 30, 66, 36))
		assert.Equal(t, 28, m.Lit(0, 0, l.Width, l.Height))
	})

	t.Run("filled", func(t *testing.T) {
		m := NewMono(l.Width, l.Height)
		require.NoError(t, Square(m, l, 59, 29, scene.Filled))
		assert.Equal(t, 64, m.Lit(59, 29, 67, 37))
		assert.Equal(t, 64, m.Lit(0, 0, l.Width, l.Height))
	})
}

func TestScene(t *testing.T) {
	l := DefaultLayout()
	m := NewMono(l.Width, l.Height)

	// stale content from a previous frame
	m.SetPixel(30, 30, White)

	snap := scene.Snapshot{X: 59, Y: 29, PWMEnabled: true, Border: scene.ThinBorder, Fill: scene.Outlined}
	require.NoError(t, Scene(m, l, snap))

	assert.False(t, m.Pixel(30, 30), "buffer is cleared first")
	// thin border frame plus the square outline
	assert.Equal(t, 2*127+2*63-4+28, m.Lit(0, 0, l.Width, l.Height))
	assert.Equal(t, 1, m.Flushes())

	img := m.Image()
	assert.Equal(t, uint8(0xff), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), img.GrayAt(59, 29).Y)
	assert.Equal(t, uint8(0), img.GrayAt(62, 32).Y)
}

type failingCanvas struct {
	*Mono
}

func (failingCanvas) Display() error { return errors.New("bus nack") }

func TestScene_DisplayError(t *testing.T) {
	l := DefaultLayout()
	c := failingCanvas{NewMono(l.Width, l.Height)}

	err := Scene(c, l, scene.Snapshot{X: 10, Y: 10, Border: scene.ThinBorder})
	assert.EqualError(t, err, "bus nack")
}

func TestMono_ClippingAndFlush(t *testing.T) {
	m := NewMono(16, 16)

	m.SetPixel(-1, 0, White)
	m.SetPixel(0, 16, White)
	m.SetPixel(15, 15, White)
	assert.Equal(t, 1, m.Lit(-5, -5, 20, 20))

	m.SetPixel(15, 15, Black)
	assert.False(t, m.Pixel(15, 15))

	var flushed int
	m.OnFlush(func(*Mono) { flushed++ })
	require.NoError(t, m.Display())
	require.NoError(t, m.Display())
	assert.Equal(t, 2, flushed)
	assert.Equal(t, 2, m.Flushes())
}

func TestMono_ImageShowsFlushedFrameOnly(t *testing.T) {
	m := NewMono(8, 8)
	m.SetPixel(1, 1, White)

	assert.Equal(t, uint8(0), m.Image().GrayAt(1, 1).Y)
	require.NoError(t, m.Display())
	assert.Equal(t, uint8(0xff), m.Image().GrayAt(1, 1).Y)
}

func TestSplash(t *testing.T) {
	l := DefaultLayout()
	m := NewMono(l.Width, l.Height)

	require.NoError(t, Splash(m, l, "gojoy"))

	assert.Equal(t, 1, m.Flushes())
	assert.Positive(t, m.Lit(2, 2, l.Width-3, l.Height-3), "title drawn inside the border")
	assert.True(t, m.Pixel(0, 0))
}
