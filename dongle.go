package dongle

import (
	"context"
	"errors"
	"image/color"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/ajanata/textbuf"
	"tinygo.org/x/drivers"

	"github.com/ajanata/dongle/internal/anim"
	"github.com/ajanata/dongle/internal/animation"
	"github.com/ajanata/dongle/internal/animation/sprite"
	"github.com/ajanata/dongle/internal/background"
	"github.com/ajanata/dongle/internal/canvas"
	"github.com/ajanata/dongle/internal/character"
	"github.com/ajanata/dongle/internal/listener"
	"github.com/ajanata/dongle/internal/particle"
	"github.com/ajanata/dongle/internal/prng"
	"github.com/ajanata/dongle/internal/scale"
	"github.com/ajanata/dongle/internal/widget/status"
)

// bootHold is how long the boot log stays on screen before the first composed frame replaces it.
const bootHold = 2 * time.Second

// Screen composes the status display: particle field, background glow and widgets, drawn into a reduced resolution
// canvas and pushed to the panel once per frame.
type Screen struct {
	cfg     Config
	log     Logger
	display drivers.Displayer
	status  Blinker
	reg     *listener.Registry
	now     func() time.Time

	mu   sync.Mutex
	text *textbuf.Buffer

	out       *scale.Scaler
	canvas    *canvas.Canvas
	tl        *anim.Timeline
	field     *particle.Field
	bg        *background.Animator
	cat       *sprite.Player
	character *character.Widget
	readout   *status.Widget
	widgets   []animation.Animation

	state       screenState
	stateChange time.Time

	init  bool
	start time.Time

	tick      uint32
	lastSec   time.Time
	lastTicks uint32
	lastFPS   uint32
	skipped   uint32
}

// New creates a screen on display. reg receives the screen's widgets; pass nil to have the screen create its own
// registry from cfg.IndicatorMask. status may be nil.
func New(cfg Config, display drivers.Displayer, status Blinker, reg *listener.Registry) (*Screen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.New("config: " + err.Error())
	}
	if display == nil {
		return nil, errors.New("must provide display")
	}

	log := cfg.Logger
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}
	if reg == nil {
		reg = listener.NewRegistry(cfg.IndicatorMask, log)
	}

	return &Screen{
		cfg:     cfg,
		log:     log,
		display: display,
		status:  status,
		reg:     reg,
		now:     time.Now,
		start:   time.Now(),
	}, nil
}

// Registry returns the registry the screen's widgets are registered with. Subscribe it to a bus to drive them.
func (s *Screen) Registry() *listener.Registry {
	return s.reg
}

// Init shows the boot log and builds every enabled layer and widget.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.init {
		return errors.New("already initialized")
	}
	s.log.Debug("starting init")
	s.blink()

	var err error
	s.text, err = textbuf.New(s.display, textbuf.FontSize6x8)
	if err != nil {
		return errors.New("init boot log: " + err.Error())
	}

	w, h := s.text.Size()
	if w < 15 || h < 4 {
		return errors.New("unusably small display")
	}

	err = s.text.SetLineInverse(0, "DONGLE BOOTING")
	if err != nil {
		return errors.New("boot msg: " + err.Error())
	}
	// we already validated it has at least 4 lines
	_ = s.text.SetY(1)
	// we already know it was possible to print text so don't bother checking every time
	_ = s.text.Print("Build layers")

	now := s.now()
	s.out = scale.New(s.display, s.cfg.CanvasScale)
	cw, ch := s.out.Size()
	s.canvas = canvas.New(cw, ch)
	s.tl = anim.NewTimeline()

	s.bg, err = background.New(s.cfg.Layers, s.log)
	if err != nil {
		_ = s.text.PrintlnInverse(err.Error())
		return errors.New("background: " + err.Error())
	}
	s.bg.Attach(s.tl, now)

	if s.cfg.Widgets.Particles {
		dw, dh := s.display.Size()
		s.field = particle.New(float32(dw), float32(dh), prng.New(s.cfg.Seed))
		s.field.SetColors(s.cfg.Background, s.cfg.Palette)
		s.field.Init(s.cfg.ParticleCount)
	}
	_ = s.text.Println(".")

	if s.cfg.Widgets.Character {
		_ = s.text.Print("Load frames")
		seqs, err := character.LoadSequences()
		if err != nil {
			_ = s.text.PrintlnInverse(err.Error())
			return errors.New("load frames: " + err.Error())
		}
		s.cat = sprite.New(s.tl, s.cfg.CharacterX, s.cfg.CharacterY, s.now)
		if s.cfg.CharacterSize > 0 {
			s.cat.SetSize(s.cfg.CharacterSize, s.cfg.CharacterSize)
		}
		s.character = character.New(s.cat, seqs)
		s.reg.Register(s.character)
		s.widgets = append(s.widgets, s.cat)
		_ = s.text.Println(".")
	}

	if s.cfg.Widgets.Status {
		s.readout = status.New(s.cfg.StatusX, s.cfg.StatusY, s.cfg.StatusLabel)
		s.reg.Register(s.readout)
		s.widgets = append(s.widgets, s.readout)
	}

	for _, a := range s.widgets {
		a.Activate(s.canvas)
	}

	_ = s.text.Println("CPUs: " + strconv.Itoa(runtime.NumCPU()))
	mem := runtime.MemStats{}
	runtime.ReadMemStats(&mem)
	_ = s.text.Println(strconv.Itoa(int(mem.HeapSys/1024)) + "k RAM, " + strconv.Itoa(int(mem.HeapIdle/1024)) + "k free")
	particles := 0
	if s.field != nil {
		particles = s.field.Len()
	}
	_ = s.text.Println(strconv.Itoa(particles) + " particles, " + strconv.Itoa(s.bg.Len()) + " layers")
	_ = s.text.Println("Booted in " + time.Since(s.start).Round(100*time.Millisecond).String())
	_ = s.text.Println("Dongle online.")

	s.state = screenStateBoot
	s.stateChange = now

	s.blink()
	s.init = true
	s.log.Infof("init complete in %s", time.Since(s.start).Round(100*time.Millisecond))
	return nil
}

// TickParticles advances the particle field one step. It is a no-op when the field is disabled.
func (s *Screen) TickParticles() {
	if s.field != nil {
		s.field.Tick()
	}
}

// RenderFrame steps the animations to now, composes the canvas and pushes it to the display. The push is skipped,
// not queued, if the display is still busy with the previous frame.
func (s *Screen) RenderFrame(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.init {
		return errors.New("not initialized")
	}

	s.statusOff()
	defer s.statusOn()
	s.tick++

	if now.Sub(s.lastSec) >= time.Second {
		s.lastFPS = s.tick - s.lastTicks
		s.lastSec = now
		s.lastTicks = s.tick
	}

	switch s.state {
	case screenStateBoot:
		if now.Sub(s.stateChange) < bootHold {
			return nil
		}
		s.changeState(screenStateRunning, now)
	case screenStateBlank:
		return nil
	}

	s.tl.Step(now)

	if s.field != nil {
		s.field.Render(s.canvas, s.out.Factor())
		s.bg.RenderGlow(s.canvas)
	} else {
		s.canvas.Fill(s.cfg.Background)
		s.bg.Render(s.canvas)
	}
	for _, a := range s.widgets {
		a.DrawFrame(s.canvas, s.tick)
	}

	if !s.out.CanUpdateNow() {
		s.skipped++
		return nil
	}
	return s.canvas.Flush(s.out)
}

// Blank clears the panel and stops drawing until Wake is called.
func (s *Screen) Blank() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changeState(screenStateBlank, s.now())
}

// Wake resumes drawing after Blank, or ends the boot log early.
func (s *Screen) Wake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != screenStateRunning {
		s.changeState(screenStateRunning, s.now())
	}
}

func (s *Screen) changeState(state screenState, now time.Time) {
	// the next frame covers the boot log, so only blanking draws anything here
	if state == screenStateBlank {
		// make sure we clear the *entire* screen, including pixels outside the coverage of the canvas
		w, h := s.display.Size()
		for x := int16(0); x < w; x++ {
			for y := int16(0); y < h; y++ {
				s.display.SetPixel(x, y, color.RGBA{})
			}
		}
		// since it won't be drawn in the main loop
		_ = s.display.Display()
	}
	s.log.Debugf("screen %s -> %s", s.state, state)
	s.state = state
	s.stateChange = now
}

// Run drives the particle timer and the frame loop until ctx is cancelled. Registry subscriptions are not
// affected; they last as long as the bus.
func (s *Screen) Run(ctx context.Context) error {
	frames := time.NewTicker(time.Second / time.Duration(s.cfg.Framerate))
	defer frames.Stop()

	var particles <-chan time.Time
	if s.field != nil {
		pt := time.NewTicker(s.cfg.ParticlePeriod)
		defer pt.Stop()
		particles = pt.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-particles:
			s.TickParticles()
		case now := <-frames.C:
			if err := s.RenderFrame(now); err != nil {
				return err
			}
		}
	}
}

// FPS returns the number of frames rendered in the last full second.
func (s *Screen) FPS() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFPS
}

// Skipped returns the number of composed frames dropped because the display was busy.
func (s *Screen) Skipped() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

func (s *Screen) blink() {
	if s.status == nil {
		return
	}
	s.statusOn()
	time.Sleep(100 * time.Millisecond)
	s.statusOff()
	time.Sleep(100 * time.Millisecond)
}

func (s *Screen) statusOn() {
	if s.status != nil {
		s.status.High()
	}
}

func (s *Screen) statusOff() {
	if s.status != nil {
		s.status.Low()
	}
}
