// Package background animates the translucent glow layers laid over the particle field. The layers only declare
// their ramps; the anim.Timeline does the interpolation and calls back with each new value.
package background

import (
	"errors"
	"image/color"
	"strconv"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ajanata/dongle/internal/anim"
)

// MaxGlowOpa is the highest opacity a glow layer should reach if the base hue is to stay dominant. Exceeding it is
// allowed but logged.
const MaxGlowOpa = 80

// Role decides how a layer interprets its animated value.
type Role uint8

const (
	// RoleOpacity animates opacity (0-255) of a fixed colour.
	RoleOpacity Role = iota
	// RoleColor animates a packed 0xRRGGBB colour at a fixed opacity.
	RoleColor
	// RoleBlend animates a 0-255 mix between Color and To at a fixed opacity, blended in CIE L*a*b*.
	RoleBlend
)

func (r Role) String() string {
	switch r {
	case RoleOpacity:
		return "opacity"
	case RoleColor:
		return "color"
	case RoleBlend:
		return "blend"
	default:
		return "INVALID"
	}
}

type Layer struct {
	Name string
	Role Role
	// Static marks the opaque, unanimated base layer. Only one is allowed and it must come first.
	Static bool
	Color  color.RGBA
	// To is the far end of a RoleBlend mix.
	To color.RGBA
	// Opa is the fixed opacity of RoleColor and RoleBlend layers.
	Opa       uint8
	Low, High int32
	Period    time.Duration
	// Delay offsets this layer's phase from the others.
	Delay    time.Duration
	Easing   anim.Easing
	PingPong bool
}

// Surface is what the layers are drawn on.
type Surface interface {
	Size() (x, y int16)
	Fill(c color.RGBA)
	FillRect(x, y, w, h int16, c color.RGBA, opa uint8)
}

type Logger interface {
	Warnf(format string, v ...any)
}

type layerState struct {
	cfg   Layer
	color color.RGBA
	opa   uint8
}

// Animator owns the current value of every layer. It is safe for concurrent use.
type Animator struct {
	mu     sync.Mutex
	layers []*layerState
}

// New validates the layers and sets each to its Low value. log may be nil.
func New(layers []Layer, log Logger) (*Animator, error) {
	a := &Animator{}
	for i, l := range layers {
		name := l.Name
		if name == "" {
			name = "layer " + strconv.Itoa(i)
		}
		if l.Static {
			if i != 0 {
				return nil, errors.New(name + ": static base layer must be the first layer")
			}
		} else {
			if l.Period <= 0 {
				return nil, errors.New(name + ": animated layer needs a positive period")
			}
			if l.Role == RoleOpacity && (l.Low < 0 || l.High > 0xFF || l.Low > 0xFF || l.High < 0) {
				return nil, errors.New(name + ": opacity range must be within 0-255")
			}
			if log != nil && glowOpa(l) > MaxGlowOpa {
				log.Warnf("%s: opacity %d may drown out the base colour", name, glowOpa(l))
			}
		}

		s := &layerState{cfg: l}
		if l.Static {
			s.color, s.opa = l.Color, 0xFF
		} else {
			s.apply(l.Low)
		}
		a.layers = append(a.layers, s)
	}
	return a, nil
}

func glowOpa(l Layer) int32 {
	if l.Role == RoleOpacity {
		if l.High > l.Low {
			return l.High
		}
		return l.Low
	}
	return int32(l.Opa)
}

// apply is the exec callback: it turns an interpolated value into a colour and opacity according to the layer's
// role.
func (s *layerState) apply(v int32) {
	switch s.cfg.Role {
	case RoleOpacity:
		s.color = s.cfg.Color
		s.opa = clamp8(v)
	case RoleColor:
		s.color = color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
		s.opa = s.cfg.Opa
	case RoleBlend:
		from, _ := colorful.MakeColor(s.cfg.Color)
		to, _ := colorful.MakeColor(s.cfg.To)
		r, g, b := from.BlendLab(to, float64(clamp8(v))/0xFF).Clamped().RGB255()
		s.color = color.RGBA{R: r, G: g, B: b, A: 0xFF}
		s.opa = s.cfg.Opa
	}
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

// Attach registers one infinitely repeating ramp per animated layer on tl, all starting at now.
func (a *Animator) Attach(tl *anim.Timeline, now time.Time) []*anim.Handle {
	a.mu.Lock()
	layers := append([]*layerState(nil), a.layers...)
	a.mu.Unlock()

	var hs []*anim.Handle
	for _, s := range layers {
		if s.cfg.Static {
			continue
		}
		s := s
		hs = append(hs, tl.Add(anim.Ramp{
			From:     s.cfg.Low,
			To:       s.cfg.High,
			Period:   s.cfg.Period,
			Delay:    s.cfg.Delay,
			Easing:   s.cfg.Easing,
			PingPong: s.cfg.PingPong,
			Repeat:   anim.RepeatInfinite,
			Exec: func(v int32) {
				a.mu.Lock()
				s.apply(v)
				a.mu.Unlock()
			},
		}, now))
	}
	return hs
}

// Render draws every layer, in order, over the whole surface.
func (a *Animator) Render(s Surface) {
	a.RenderBase(s)
	a.RenderGlow(s)
}

// RenderBase fills the surface with the static base layer, if there is one.
func (a *Animator) RenderBase(s Surface) {
	if c, ok := a.Base(); ok {
		s.Fill(c)
	}
}

// RenderGlow draws the animated layers, in order, over the whole surface.
func (a *Animator) RenderGlow(s Surface) {
	w, h := s.Size()
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, l := range a.layers {
		if l.cfg.Static || l.opa == 0 {
			continue
		}
		s.FillRect(0, 0, w, h, l.color, l.opa)
	}
}

// Base returns the colour of the static base layer.
func (a *Animator) Base() (color.RGBA, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.layers) > 0 && a.layers[0].cfg.Static {
		return a.layers[0].color, true
	}
	return color.RGBA{}, false
}

// Len returns the number of layers.
func (a *Animator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.layers)
}

// Value returns the current colour and opacity of layer i.
func (a *Animator) Value(i int) (color.RGBA, uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l := a.layers[i]
	return l.color, l.opa
}
