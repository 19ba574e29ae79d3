package status

import (
	"image/color"
	"testing"

	"github.com/ajanata/dongle/internal/listener"
)

type countingDisplay struct {
	pixels map[color.RGBA]int
	minY   int16
	maxY   int16
}

func newCountingDisplay() *countingDisplay {
	return &countingDisplay{pixels: map[color.RGBA]int{}, minY: 1 << 14, maxY: -1}
}

func (d *countingDisplay) Size() (x, y int16) { return 120, 68 }
func (d *countingDisplay) Display() error     { return nil }
func (d *countingDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.pixels[c]++
	if y < d.minY {
		d.minY = y
	}
	if y > d.maxY {
		d.maxY = y
	}
}

func TestUpdateReportsChanges(t *testing.T) {
	w := New(2, 10, "CAPS")
	if w.Update(listener.Fused{}) {
		t.Error("initial zero state should not be a change")
	}
	if !w.Update(listener.Fused{Speed: 42}) {
		t.Error("speed change should be reported")
	}
	if w.Update(listener.Fused{Speed: 42}) {
		t.Error("repeated state should not be reported")
	}
	if !w.Update(listener.Fused{Speed: 42, IndicatorActive: true}) {
		t.Error("indicator change should be reported")
	}
}

func TestLines(t *testing.T) {
	w := New(0, 0, "CAPS")
	w.Update(listener.Fused{Speed: 7})
	if got := w.Lines(); len(got) != 1 || got[0] != "WPM   7" {
		t.Errorf("unexpected lines %q", got)
	}
	w.Update(listener.Fused{Speed: 123, IndicatorActive: true})
	if got := w.Lines(); len(got) != 2 || got[0] != "WPM 123" || got[1] != "CAPS" {
		t.Errorf("unexpected lines %q", got)
	}
}

func TestDrawFrame(t *testing.T) {
	w := New(2, 10, "CAPS")
	d := newCountingDisplay()
	if !w.DrawFrame(d, 0) {
		t.Error("status widget should keep running")
	}
	if d.pixels[DefaultColor] == 0 {
		t.Fatal("expected speed text to be drawn")
	}
	if d.pixels[IndicatorColor] != 0 {
		t.Error("indicator label drawn while inactive")
	}
	firstMax := d.maxY

	w.Update(listener.Fused{IndicatorActive: true})
	d = newCountingDisplay()
	w.DrawFrame(d, 1)
	if d.pixels[IndicatorColor] == 0 {
		t.Fatal("expected indicator label to be drawn")
	}
	if d.maxY <= firstMax {
		t.Errorf("expected the label below the speed line, max y %d vs %d", d.maxY, firstMax)
	}
}
