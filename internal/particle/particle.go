// Package particle simulates the ambient particle field drawn behind the status screen widgets. The field has no
// inputs: it is seeded once and then drifts on a fixed timer.
package particle

import (
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ajanata/dongle/internal/prng"
)

const (
	// GlowThreshold is the brightness above which a particle also gets a dim halo.
	GlowThreshold = 150

	minBrightness   = 100
	brightnessRange = 156

	coreSize = 3
	haloSize = 5
)

// DefaultBackground is the deep blue the field clears to.
var DefaultBackground = MustHex("#0a0a2e")

// DefaultPalette is cycled by particle index.
var DefaultPalette = []color.RGBA{
	MustHex("#4d80ff"),
	MustHex("#80ffff"),
	MustHex("#cc66ff"),
}

// MustHex parses an opaque "#rrggbb" colour and panics on malformed input. It is meant for literals.
func MustHex(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic("bad colour " + hex + ": " + err.Error())
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

type Particle struct {
	X, Y       float32
	VX, VY     float32
	Brightness uint8
}

// Surface is what the field draws on.
type Surface interface {
	Fill(c color.RGBA)
	FillRect(x, y, w, h int16, c color.RGBA, opa uint8)
}

// Field owns a fixed set of particles. All methods are safe for concurrent use, since the simulation timer and the
// frame loop run independently.
type Field struct {
	mu        sync.Mutex
	src       *prng.Source
	w, h      float32
	particles []Particle

	background color.RGBA
	palette    []color.RGBA
}

// New creates an empty field of the given logical size. Call Init to populate it.
func New(width, height float32, src *prng.Source) *Field {
	return &Field{
		src:        src,
		w:          width,
		h:          height,
		background: DefaultBackground,
		palette:    DefaultPalette,
	}
}

// SetColors overrides the clear colour and the particle palette. An empty palette keeps the current one.
func (f *Field) SetColors(background color.RGBA, palette []color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.background = background
	if len(palette) > 0 {
		f.palette = palette
	}
}

// Init replaces the ensemble with count freshly seeded particles. Values are drawn from the source in a fixed
// order (x, y, vx, vy, brightness) so a given seed always yields the same field.
func (f *Field) Init(count int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, h := int(f.w), int(f.h)
	f.particles = make([]Particle, count)
	for i := range f.particles {
		p := &f.particles[i]
		p.X = float32(f.src.Intn(w))
		p.Y = float32(f.src.Intn(h))
		p.VX = float32(f.src.Intn(100)-50) / 100
		p.VY = float32(f.src.Intn(100)-50) / 100
		p.Brightness = uint8(minBrightness + f.src.Intn(brightnessRange))
	}
}

// Tick moves every particle by its velocity, wrapping around the edges.
func (f *Field) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.particles {
		p := &f.particles[i]
		p.X = wrap(p.X+p.VX, f.w)
		p.Y = wrap(p.Y+p.VY, f.h)
	}
}

// wrap keeps v in [0, extent). Leaving the low edge re-enters from the high edge, leaving the high edge re-enters
// at zero.
func wrap(v, extent float32) float32 {
	if v < 0 {
		v += extent
		if v < 0 || v >= extent {
			// velocity larger than the extent, or rounding pushed it onto the edge
			return 0
		}
		return v
	}
	if v >= extent {
		return 0
	}
	return v
}

// Render clears s and draws every particle. Positions are divided by scale, so the surface may be smaller than
// the simulated area. Rendering does not touch simulation state.
func (f *Field) Render(s Surface, scale int16) {
	if scale < 1 {
		scale = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	s.Fill(f.background)
	for i := range f.particles {
		p := &f.particles[i]
		x := int16(p.X) / scale
		y := int16(p.Y) / scale
		c := f.palette[i%len(f.palette)]

		s.FillRect(x-coreSize/2, y-coreSize/2, coreSize, coreSize, c, p.Brightness)
		if p.Brightness > GlowThreshold {
			s.FillRect(x-haloSize/2, y-haloSize/2, haloSize, haloSize, c, p.Brightness/2)
		}
	}
}

// Particles returns a copy of the current ensemble.
func (f *Field) Particles() []Particle {
	f.mu.Lock()
	defer f.mu.Unlock()
	ps := make([]Particle, len(f.particles))
	copy(ps, f.particles)
	return ps
}

// Len returns the number of particles.
func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.particles)
}
