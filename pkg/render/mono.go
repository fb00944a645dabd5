package render

import (
	"image"
	"image/color"
	"sync"
)

var _ Canvas = (*Mono)(nil)

// Mono is an in-memory 1-bit framebuffer laid out in 8-row pages like the SSD1306 RAM.
// It stands in for the OLED in the simulator, the viewer and tests.
type Mono struct {
	width, height int16

	mu      sync.RWMutex
	buf     []byte
	flushed []byte
	flushes int
	onFlush func(*Mono)
}

// NewMono allocates a cleared framebuffer.
func NewMono(width, height int16) *Mono {
	size := int(width) * ((int(height) + 7) / 8)
	return &Mono{
		width:   width,
		height:  height,
		buf:     make([]byte, size),
		flushed: make([]byte, size),
	}
}

// OnFlush registers f to be called after every Display.
func (m *Mono) OnFlush(f func(*Mono)) {
	m.mu.Lock()
	m.onFlush = f
	m.mu.Unlock()
}

func (m *Mono) Size() (x, y int16) {
	return m.width, m.height
}

// SetPixel lights the pixel for any non-black color, as the SSD1306 driver does.
func (m *Mono) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	idx, bit := m.offset(x, y)

	m.mu.Lock()
	if c.R != 0 || c.G != 0 || c.B != 0 {
		m.buf[idx] |= bit
	} else {
		m.buf[idx] &^= bit
	}
	m.mu.Unlock()
}

// ClearBuffer darkens the back buffer.
func (m *Mono) ClearBuffer() {
	m.mu.Lock()
	clear(m.buf)
	m.mu.Unlock()
}

// Display copies the back buffer to the visible frame.
func (m *Mono) Display() error {
	m.mu.Lock()
	copy(m.flushed, m.buf)
	m.flushes++
	f := m.onFlush
	m.mu.Unlock()

	if f != nil {
		f(m)
	}
	return nil
}

// Pixel reports whether (x, y) is lit in the back buffer.
func (m *Mono) Pixel(x, y int16) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	idx, bit := m.offset(x, y)

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buf[idx]&bit != 0
}

// Lit counts the lit pixels in the rectangle [x0, x1) x [y0, y1) of the back buffer.
func (m *Mono) Lit(x0, y0, x1, y1 int16) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

// Flushes returns how many times Display was called.
func (m *Mono) Flushes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushes
}

// Image renders the last flushed frame as a grayscale image.
func (m *Mono) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, int(m.width), int(m.height)))

	m.mu.RLock()
	defer m.mu.RUnlock()
	for y := int16(0); y < m.height; y++ {
		for x := int16(0); x < m.width; x++ {
			idx, bit := m.offset(x, y)
			if m.flushed[idx]&bit != 0 {
				img.SetGray(int(x), int(y), color.Gray{Y: 0xff})
			}
		}
	}
	return img
}

func (m *Mono) offset(x, y int16) (int, byte) {
	return int(x) + int(y/8)*int(m.width), 1 << uint(y%8)
}
