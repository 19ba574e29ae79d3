package canvas

import (
	"image/color"
	"testing"
)

var (
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black = color.RGBA{A: 0xFF}
	red   = color.RGBA{R: 0xFF, A: 0xFF}
)

type recordingDisplay struct {
	w, h      int16
	pixels    map[[2]int16]color.RGBA
	displayed int
}

func newRecordingDisplay(w, h int16) *recordingDisplay {
	return &recordingDisplay{w: w, h: h, pixels: map[[2]int16]color.RGBA{}}
}

func (d *recordingDisplay) Size() (x, y int16) { return d.w, d.h }

func (d *recordingDisplay) SetPixel(x, y int16, c color.RGBA) { d.pixels[[2]int16{x, y}] = c }

func (d *recordingDisplay) Display() error {
	d.displayed++
	return nil
}

func TestRGB565RoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{white, black, red, {G: 0xFF, A: 0xFF}, {B: 0xFF, A: 0xFF}} {
		if got := FromRGBA(c).RGBA(); got != c {
			t.Errorf("expected %v, got %v", c, got)
		}
	}
}

func TestFillAndAt(t *testing.T) {
	c := New(4, 3)
	c.Fill(red)
	for y := int16(0); y < 3; y++ {
		for x := int16(0); x < 4; x++ {
			if got := c.At(x, y); got != red {
				t.Fatalf("pixel %d,%d: expected %v, got %v", x, y, red, got)
			}
		}
	}
	if got := c.At(4, 0); got != (color.RGBA{}) {
		t.Errorf("expected zero colour out of bounds, got %v", got)
	}
}

func TestBlendPixel(t *testing.T) {
	c := New(2, 1)
	c.Fill(black)

	c.BlendPixel(0, 0, white, 0)
	if got := c.At(0, 0); got != black {
		t.Errorf("opacity 0 should leave pixel untouched, got %v", got)
	}

	c.BlendPixel(0, 0, white, 0xFF)
	if got := c.At(0, 0); got != white {
		t.Errorf("opacity 255 should replace pixel, got %v", got)
	}

	c.BlendPixel(1, 0, white, 128)
	got := c.At(1, 0)
	if got.R < 0x70 || got.R > 0x90 {
		t.Errorf("expected roughly half intensity, got %v", got)
	}
}

func TestFillRectClips(t *testing.T) {
	c := New(4, 4)
	c.Fill(black)
	c.FillRect(-1, -1, 3, 3, white, 0xFF)

	for y := int16(0); y < 4; y++ {
		for x := int16(0); x < 4; x++ {
			want := black
			if x < 2 && y < 2 {
				want = white
			}
			if got := c.At(x, y); got != want {
				t.Errorf("pixel %d,%d: expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestFlush(t *testing.T) {
	c := New(3, 3)
	c.Fill(red)
	d := newRecordingDisplay(2, 5)

	if err := c.Flush(d); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if d.displayed != 1 {
		t.Errorf("expected 1 Display call, got %d", d.displayed)
	}
	if len(d.pixels) != 6 {
		t.Errorf("expected 6 pixels written (clipped to 2x3), got %d", len(d.pixels))
	}
	if d.pixels[[2]int16{1, 2}] != red {
		t.Errorf("expected red at 1,2, got %v", d.pixels[[2]int16{1, 2}])
	}
}

func TestMix(t *testing.T) {
	if got := Mix(white, black, 0xFF); got != white {
		t.Errorf("expected white, got %v", got)
	}
	if got := Mix(white, black, 0); got != black {
		t.Errorf("expected black, got %v", got)
	}
}
