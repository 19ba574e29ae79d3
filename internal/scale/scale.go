// Package scale presents a reduced-resolution view of a display, so the frame can be composed in a smaller buffer
// and blown back up to the panel's native size on the way out.
package scale

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Display is implemented by devices that can report whether a previous transfer is still in flight.
type Display interface {
	drivers.Displayer

	CanUpdateNow() bool
}

// Scaler maps each logical pixel onto a factor×factor block of the wrapped display.
type Scaler struct {
	d            drivers.Displayer
	factor       int16
	realW, realH int16
	w, h         int16
}

// New wraps d. A factor below 1 is treated as 1. The logical size rounds up, so the last row or column may be
// partially clipped on the device.
func New(d drivers.Displayer, factor int16) *Scaler {
	if factor < 1 {
		factor = 1
	}
	w, h := d.Size()
	return &Scaler{
		d:      d,
		factor: factor,
		realW:  w,
		realH:  h,
		w:      (w + factor - 1) / factor,
		h:      (h + factor - 1) / factor,
	}
}

func (s *Scaler) Size() (x, y int16) {
	return s.w, s.h
}

func (s *Scaler) Factor() int16 { return s.factor }

func (s *Scaler) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	if s.factor == 1 {
		s.d.SetPixel(x, y, c)
		return
	}
	rx, ry := x*s.factor, y*s.factor
	for dy := int16(0); dy < s.factor && ry+dy < s.realH; dy++ {
		for dx := int16(0); dx < s.factor && rx+dx < s.realW; dx++ {
			s.d.SetPixel(rx+dx, ry+dy, c)
		}
	}
}

func (s *Scaler) Display() error {
	return s.d.Display()
}

// CanUpdateNow reports the wrapped display's readiness, or true if it cannot tell.
func (s *Scaler) CanUpdateNow() bool {
	if d, ok := s.d.(Display); ok {
		return d.CanUpdateNow()
	}
	return true
}
