// Package canvas implements the owned pixel buffer the status screen composes each frame into before it is pushed
// out to the display.
package canvas

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Canvas is an RGB565 framebuffer. It implements drivers.Displayer so text and image helpers that target a display
// can draw into it directly. Display is a no-op; use Flush to push the frame to a real device.
//
// Canvas is not safe for concurrent use; the frame loop owns it.
type Canvas struct {
	w, h int16
	pix  []RGB565
}

func New(w, h int16) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{
		w:   w,
		h:   h,
		pix: make([]RGB565, int(w)*int(h)),
	}
}

func (c *Canvas) Size() (x, y int16) {
	return c.w, c.h
}

// SetPixel overwrites a pixel. Out of bounds coordinates are ignored.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.pix[int(y)*int(c.w)+int(x)] = FromRGBA(col)
}

func (c *Canvas) Display() error { return nil }

// At returns the pixel at x, y, or transparent black when out of bounds.
func (c *Canvas) At(x, y int16) color.RGBA {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return color.RGBA{}
	}
	return c.pix[int(y)*int(c.w)+int(x)].RGBA()
}

// BlendPixel mixes col over the existing pixel with the given opacity, 0 being fully transparent.
func (c *Canvas) BlendPixel(x, y int16, col color.RGBA, opa uint8) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || opa == 0 {
		return
	}
	i := int(y)*int(c.w) + int(x)
	if opa == 0xFF {
		c.pix[i] = FromRGBA(col)
		return
	}
	c.pix[i] = FromRGBA(Mix(col, c.pix[i].RGBA(), opa))
}

// Fill covers the whole canvas with an opaque colour.
func (c *Canvas) Fill(col color.RGBA) {
	p := FromRGBA(col)
	for i := range c.pix {
		c.pix[i] = p
	}
}

// FillRect draws a filled rectangle with the given opacity, clipped to the canvas.
func (c *Canvas) FillRect(x, y, w, h int16, col color.RGBA, opa uint8) {
	x0, y0, x1, y1 := x, y, x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > c.w {
		x1 = c.w
	}
	if y1 > c.h {
		y1 = c.h
	}
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			c.BlendPixel(xx, yy, col, opa)
		}
	}
}

// Flush copies the canvas onto dst, clipped to its size, and tells dst to display.
func (c *Canvas) Flush(dst drivers.Displayer) error {
	w, h := dst.Size()
	if w > c.w {
		w = c.w
	}
	if h > c.h {
		h = c.h
	}
	for y := int16(0); y < h; y++ {
		row := int(y) * int(c.w)
		for x := int16(0); x < w; x++ {
			dst.SetPixel(x, y, c.pix[row+int(x)].RGBA())
		}
	}
	return dst.Display()
}

// Mix blends src over dst. opa 255 yields src, 0 yields dst.
func Mix(src, dst color.RGBA, opa uint8) color.RGBA {
	a := uint16(opa)
	na := 255 - a
	return color.RGBA{
		R: uint8((uint16(src.R)*a + uint16(dst.R)*na) / 255),
		G: uint8((uint16(src.G)*a + uint16(dst.G)*na) / 255),
		B: uint8((uint16(src.B)*a + uint16(dst.B)*na) / 255),
		A: 0xFF,
	}
}
