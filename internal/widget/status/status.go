// Package status is a small text readout of the fused input: the current typing speed and whether the watched
// indicator (normally caps lock) is on.
package status

import (
	"fmt"
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/ajanata/dongle/internal/animation"
	"github.com/ajanata/dongle/internal/listener"
)

// LineHeight is the baseline distance between the two lines.
const LineHeight = 9

var (
	DefaultColor   = color.RGBA{R: 0x80, G: 0xFF, B: 0xFF, A: 0xFF}
	IndicatorColor = color.RGBA{R: 0xCC, G: 0x66, B: 0xFF, A: 0xFF}
)

type Widget struct {
	mu sync.Mutex
	// x, y is the baseline of the first line.
	x, y  int16
	font  tinyfont.Fonter
	color color.RGBA
	label string

	speed     string
	indicator bool
}

var (
	_ animation.Animation = (*Widget)(nil)
	_ listener.Listener   = (*Widget)(nil)
)

// New creates a widget whose first baseline is at x, y. label names the indicator, e.g. "CAPS".
func New(x, y int16, label string) *Widget {
	return &Widget{
		x:     x,
		y:     y,
		font:  &proggy.TinySZ8pt7b,
		color: DefaultColor,
		label: label,
		speed: formatSpeed(0),
	}
}

func formatSpeed(speed uint) string {
	return fmt.Sprintf("WPM %3d", speed)
}

// Update implements listener.Listener.
func (w *Widget) Update(f listener.Fused) bool {
	s := formatSpeed(f.Speed)
	w.mu.Lock()
	defer w.mu.Unlock()
	if s == w.speed && f.IndicatorActive == w.indicator {
		return false
	}
	w.speed, w.indicator = s, f.IndicatorActive
	return true
}

// Lines returns the text currently shown.
func (w *Widget) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indicator {
		return []string{w.speed, w.label}
	}
	return []string{w.speed}
}

func (w *Widget) Activate(drivers.Displayer) {}

func (w *Widget) DrawFrame(disp drivers.Displayer, _ uint32) bool {
	w.mu.Lock()
	speed, indicator := w.speed, w.indicator
	w.mu.Unlock()

	tinyfont.WriteLine(disp, w.font, w.x, w.y, speed, w.color)
	if indicator {
		tinyfont.WriteLine(disp, w.font, w.x, w.y+LineHeight, w.label, IndicatorColor)
	}
	return true
}
