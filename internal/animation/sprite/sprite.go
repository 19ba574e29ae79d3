// Package sprite plays a looping sequence of images, advancing frames off an anim.Timeline.
package sprite

import (
	"image"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	"tinygo.org/x/drivers"

	"github.com/ajanata/dongle/internal/anim"
	"github.com/ajanata/dongle/internal/animation"
)

// subframes gives the frame ramp enough resolution that every frame gets an equal slice of the loop.
const subframes = 256

// Player shows one frame of its current sequence at a fixed position. The owner configures it with SetFrames,
// SetDuration and SetRepeat, then calls Start to (re)start playback from the first frame.
type Player struct {
	mu  sync.Mutex
	tl  *anim.Timeline
	now func() time.Time

	x, y int16
	size image.Point

	frames   []image.Image
	duration time.Duration
	repeat   int
	frame    int
	handle   *anim.Handle
	starts   int
	// gen identifies the ramp started last; values from older ramps are ignored.
	gen uint32
}

var _ animation.Animation = (*Player)(nil)

// New creates a player drawing at x, y. now is the clock used when Start is called; nil means time.Now.
func New(tl *anim.Timeline, x, y int16, now func() time.Time) *Player {
	if now == nil {
		now = time.Now
	}
	return &Player{
		tl:     tl,
		now:    now,
		x:      x,
		y:      y,
		repeat: anim.RepeatInfinite,
	}
}

// SetSize makes the player scale frames to w×h when they are set. Zero keeps frames at their native size.
func (p *Player) SetSize(w, h int) {
	p.mu.Lock()
	p.size = image.Pt(w, h)
	p.mu.Unlock()
}

// SetFrames replaces the sequence. It does not restart playback.
func (p *Player) SetFrames(frames []image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.size.X > 0 && p.size.Y > 0 {
		scaled := make([]image.Image, len(frames))
		for i, f := range frames {
			scaled[i] = scale(f, p.size)
		}
		frames = scaled
	}
	p.frames = frames
	if p.frame >= len(frames) {
		p.frame = 0
	}
}

func scale(src image.Image, size image.Point) image.Image {
	if src.Bounds().Size() == size {
		return src
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	// nearest neighbour keeps transparent edges hard
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// SetDuration sets the time for one pass through the whole sequence.
func (p *Player) SetDuration(d time.Duration) {
	p.mu.Lock()
	p.duration = d
	p.mu.Unlock()
}

// SetRepeat sets how many passes to play, or anim.RepeatInfinite.
func (p *Player) SetRepeat(n int) {
	p.mu.Lock()
	p.repeat = n
	p.mu.Unlock()
}

// Start restarts playback from frame zero with the current settings.
func (p *Player) Start() {
	p.mu.Lock()
	old := p.handle
	p.frame = 0
	p.starts++
	p.gen++
	gen := p.gen
	n := len(p.frames)
	r := anim.Ramp{
		From:   0,
		To:     int32(n * subframes),
		Period: p.duration,
		Repeat: p.repeat,
		Exec:   func(v int32) { p.setFrame(gen, v) },
	}
	p.mu.Unlock()

	p.tl.Remove(old)
	if n == 0 {
		return
	}
	h := p.tl.Add(r, p.now())

	p.mu.Lock()
	p.handle = h
	p.mu.Unlock()
}

func (p *Player) setFrame(gen uint32, v int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || len(p.frames) == 0 {
		return
	}
	f := int(v) / subframes
	if f >= len(p.frames) {
		f = len(p.frames) - 1
	}
	if f < 0 {
		f = 0
	}
	p.frame = f
}

// Frame returns the index of the frame currently shown.
func (p *Player) Frame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Starts returns how many times playback has been (re)started.
func (p *Player) Starts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts
}

func (p *Player) Activate(drivers.Displayer) {}

func (p *Player) DrawFrame(disp drivers.Displayer, _ uint32) bool {
	p.mu.Lock()
	var img image.Image
	if p.frame < len(p.frames) {
		img = p.frames[p.frame]
	}
	x, y := p.x, p.y
	p.mu.Unlock()

	if img != nil {
		animation.DrawImage(disp, x, y, img)
	}
	return true
}
