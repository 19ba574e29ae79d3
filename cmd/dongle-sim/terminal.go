package main

import (
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ajanata/dongle"
)

// upperHalf lets one terminal cell show two vertically stacked pixels: foreground on top, background below.
const upperHalf = '▀'

// terminal pretends to be the panel. Pixels are buffered and painted onto the tcell screen on Display, sampling one
// pixel per zoom×zoom block.
type terminal struct {
	screen tcell.Screen
	w, h   int16
	zoom   int16

	mu  sync.Mutex
	pix []color.RGBA
}

var _ dongle.Display = (*terminal)(nil)

func newTerminal(screen tcell.Screen, w, h, zoom int16) *terminal {
	if zoom < 1 {
		zoom = 1
	}
	return &terminal{
		screen: screen,
		w:      w,
		h:      h,
		zoom:   zoom,
		pix:    make([]color.RGBA, int(w)*int(h)),
	}
}

func (t *terminal) Size() (x, y int16) {
	return t.w, t.h
}

func (t *terminal) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return
	}
	t.mu.Lock()
	t.pix[int(y)*int(t.w)+int(x)] = c
	t.mu.Unlock()
}

func (t *terminal) at(x, y int16) color.RGBA {
	if y >= t.h {
		return color.RGBA{}
	}
	return t.pix[int(y)*int(t.w)+int(x)]
}

// cells returns the terminal area the panel occupies.
func (t *terminal) cells() (cols, rows int) {
	return int(t.w / t.zoom), int((t.h/t.zoom + 1) / 2)
}

func (t *terminal) Display() error {
	t.mu.Lock()
	cols, rows := t.cells()
	for cy := 0; cy < rows; cy++ {
		top := int16(2*cy) * t.zoom
		bottom := int16(2*cy+1) * t.zoom
		for cx := 0; cx < cols; cx++ {
			x := int16(cx) * t.zoom
			st := tcell.StyleDefault.
				Foreground(rgb(t.at(x, top))).
				Background(rgb(t.at(x, bottom)))
			t.screen.SetContent(cx, cy, upperHalf, nil, st)
		}
	}
	t.mu.Unlock()
	t.screen.Show()
	return nil
}

// CanUpdateNow is always true; Show is synchronous.
func (t *terminal) CanUpdateNow() bool { return true }

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
