package sprite

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ajanata/dongle/internal/anim"
)

type grid struct {
	w, h int16
	set  map[[2]int16]color.RGBA
}

func newGrid(w, h int16) *grid { return &grid{w: w, h: h, set: map[[2]int16]color.RGBA{}} }

func (g *grid) Size() (x, y int16)                { return g.w, g.h }
func (g *grid) SetPixel(x, y int16, c color.RGBA) { g.set[[2]int16{x, y}] = c }
func (g *grid) Display() error                    { return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func solid(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.RGBA{R: 0xFF, A: 0xFF}
	blue = color.RGBA{B: 0xFF, A: 0xFF}
)

func TestPlayerAdvancesAndLoops(t *testing.T) {
	tl := anim.NewTimeline()
	c := &clock{t: time.Unix(100, 0)}
	p := New(tl, 0, 0, c.now)
	p.SetFrames([]image.Image{solid(1, 1, red), solid(1, 1, blue)})
	p.SetDuration(400 * time.Millisecond)
	p.SetRepeat(anim.RepeatInfinite)
	p.Start()

	steps := []struct {
		at   time.Duration
		want int
	}{
		{100 * time.Millisecond, 0},
		{250 * time.Millisecond, 1},
		{399 * time.Millisecond, 1},
		{450 * time.Millisecond, 0},
		{650 * time.Millisecond, 1},
	}
	for _, s := range steps {
		tl.Step(c.t.Add(s.at))
		if got := p.Frame(); got != s.want {
			t.Errorf("at %v: expected frame %d, got %d", s.at, s.want, got)
		}
	}
}

func TestPlayerRestartResets(t *testing.T) {
	tl := anim.NewTimeline()
	c := &clock{t: time.Unix(100, 0)}
	p := New(tl, 0, 0, c.now)
	p.SetFrames([]image.Image{solid(1, 1, red), solid(1, 1, blue)})
	p.SetDuration(400 * time.Millisecond)
	p.Start()

	tl.Step(c.t.Add(300 * time.Millisecond))
	if p.Frame() != 1 {
		t.Fatalf("expected frame 1, got %d", p.Frame())
	}

	c.t = c.t.Add(300 * time.Millisecond)
	p.Start()
	if p.Frame() != 0 {
		t.Errorf("expected restart at frame 0, got %d", p.Frame())
	}
	if tl.Len() != 1 {
		t.Errorf("expected the old ramp to be replaced, got %d ramps", tl.Len())
	}
	if p.Starts() != 2 {
		t.Errorf("expected 2 starts, got %d", p.Starts())
	}
}

func TestPlayerDrawFrame(t *testing.T) {
	tl := anim.NewTimeline()
	p := New(tl, 2, 1, nil)
	g := newGrid(8, 8)

	// nothing to draw yet
	p.DrawFrame(g, 0)
	if len(g.set) != 0 {
		t.Fatalf("expected nothing drawn, got %d pixels", len(g.set))
	}

	p.SetSize(4, 4)
	p.SetFrames([]image.Image{solid(2, 2, red)})
	p.Activate(g)
	if !p.DrawFrame(g, 0) {
		t.Error("player should always continue")
	}
	if len(g.set) != 16 {
		t.Errorf("expected frame scaled to 16 pixels, got %d", len(g.set))
	}
	if g.set[[2]int16{5, 4}] != red {
		t.Errorf("expected red at 5,4")
	}
}

func TestPlayerStartWithoutFrames(t *testing.T) {
	tl := anim.NewTimeline()
	p := New(tl, 0, 0, nil)
	p.Start()
	if tl.Len() != 0 {
		t.Errorf("expected no ramp for an empty sequence, got %d", tl.Len())
	}
}

func TestPlayerIgnoresValuesFromReplacedRamp(t *testing.T) {
	tl := anim.NewTimeline()
	c := &clock{t: time.Unix(100, 0)}
	p := New(tl, 0, 0, c.now)
	p.SetFrames([]image.Image{solid(1, 1, red), solid(1, 1, blue), solid(1, 1, red), solid(1, 1, blue)})
	p.SetDuration(400 * time.Millisecond)
	p.Start()
	first := p.gen

	// a step that collected the first ramp before the restart delivers its value afterwards
	p.Start()
	p.setFrame(first, 3*subframes)
	if got := p.Frame(); got != 0 {
		t.Errorf("expected frame 0 after restart, got %d", got)
	}

	p.setFrame(p.gen, 2*subframes)
	if got := p.Frame(); got != 2 {
		t.Errorf("expected frame 2 from the current ramp, got %d", got)
	}
}
