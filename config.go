package dongle

import (
	"errors"
	"image/color"
	"strconv"
	"time"

	"github.com/ajanata/dongle/internal/anim"
	"github.com/ajanata/dongle/internal/background"
	"github.com/ajanata/dongle/internal/event"
	"github.com/ajanata/dongle/internal/particle"
	"github.com/ajanata/dongle/internal/prng"
)

// Widgets selects what the screen draws.
type Widgets struct {
	Particles bool
	Character bool
	Status    bool
}

type Config struct {
	// CanvasScale is how many panel pixels each canvas pixel covers. The particle field is simulated at the panel's
	// full size and drawn at canvas resolution.
	CanvasScale int16

	ParticleCount  int
	Seed           uint32
	ParticlePeriod time.Duration
	Background     color.RGBA
	Palette        []color.RGBA

	// Framerate is the number of composed frames per second.
	Framerate uint
	// Layers are the background layers, base first.
	Layers []background.Layer

	Widgets Widgets
	// CharacterX, CharacterY place the character's top left corner, in canvas pixels.
	CharacterX, CharacterY int16
	// CharacterSize scales the character's frames to a square of this many canvas pixels; zero draws them as is.
	CharacterSize int
	// StatusX, StatusY is the baseline of the status text, in canvas pixels.
	StatusX, StatusY int16
	StatusLabel      string

	// IndicatorMask selects the HID indicator bits that count as active.
	IndicatorMask uint8

	// Logger defaults to println output at LogLevel.
	Logger   Logger
	LogLevel Level
}

// DefaultConfig is the layout of a 240x135 panel: a half resolution canvas with the particle field, two glow layers
// drifting out of phase, the cat in the lower right and the status text top left.
func DefaultConfig() Config {
	bg := particle.DefaultBackground
	return Config{
		CanvasScale:    2,
		ParticleCount:  15,
		Seed:           prng.DefaultSeed,
		ParticlePeriod: 50 * time.Millisecond,
		Background:     bg,
		Palette:        particle.DefaultPalette,
		Framerate:      30,
		Layers: []background.Layer{
			{
				Name:   "base",
				Static: true,
				Color:  bg,
			},
			{
				Name:     "violet glow",
				Role:     background.RoleOpacity,
				Color:    particle.MustHex("#6633cc"),
				Low:      0,
				High:     40,
				Period:   3 * time.Second,
				Easing:   anim.EaseInOut,
				PingPong: true,
			},
			{
				Name:     "tide",
				Role:     background.RoleBlend,
				Color:    particle.MustHex("#4d80ff"),
				To:       particle.MustHex("#80ffff"),
				Opa:      24,
				Low:      0,
				High:     255,
				Period:   5 * time.Second,
				Delay:    1500 * time.Millisecond,
				Easing:   anim.Spring(60, 6, 0.5),
				PingPong: true,
			},
		},
		Widgets: Widgets{
			Particles: true,
			Character: true,
			Status:    true,
		},
		CharacterX:    80,
		CharacterY:    30,
		StatusX:       4,
		StatusY:       10,
		StatusLabel:   "CAPS",
		IndicatorMask: event.IndicatorCapsLock,
		LogLevel:      LevelInfo,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.Framerate == 0 {
		return errors.New("must run at least one frame per second")
	}
	if c.CanvasScale < 1 {
		return errors.New("canvas scale must be at least 1, got " + strconv.Itoa(int(c.CanvasScale)))
	}
	if c.Widgets.Particles {
		if c.ParticleCount < 0 {
			return errors.New("negative particle count")
		}
		if c.ParticlePeriod <= 0 {
			return errors.New("particle period must be positive")
		}
	}
	if c.CharacterSize < 0 {
		return errors.New("negative character size")
	}
	if c.IndicatorMask == 0 {
		return errors.New("indicator mask selects no bits")
	}
	return nil
}
