package render

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Title is shown at boot.
const Title = "JOYSTICK DEMO"

// Font is used for all text on the OLED.
var Font = &proggy.TinySZ8pt7b

// Splash shows title centered inside a thin border and flushes the buffer.
func Splash(c Canvas, l Layout, title string) error {
	c.ClearBuffer()
	Border(c, l, 1)

	_, w := tinyfont.LineWidth(Font, title)
	x := (l.Width - int16(w)) / 2
	if x < 2 {
		x = 2
	}
	tinyfont.WriteLine(c, Font, x, l.Height/2+4, title, White)

	return c.Display()
}
