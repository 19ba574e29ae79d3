// Command dongle-sim runs the status screen in a terminal. Typing drives the WPM estimate, Tab toggles caps lock,
// Ctrl-B blanks the screen and Esc quits. A replay script can drive the bus instead of (or as well as) the keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/ajanata/dongle"
	"github.com/ajanata/dongle/internal/event"
	"github.com/ajanata/dongle/internal/script"
	"github.com/ajanata/dongle/internal/wpm"
)

const panelW, panelH = 240, 135

func main() {
	var (
		scriptPath = flag.String("script", "", "replay `file` onto the event bus")
		click      = flag.Bool("click", false, "play a click for every key")
		zoom       = flag.Int("zoom", 2, "panel pixels per terminal column")
		seed       = flag.Uint("seed", uint(dongle.DefaultConfig().Seed), "particle field seed")
		fps        = flag.Uint("fps", dongle.DefaultConfig().Framerate, "frames per second")
		logPath    = flag.String("log", "", "write log output to `file`")
	)
	flag.Parse()

	if err := run(*scriptPath, *click, int16(*zoom), uint32(*seed), *fps, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(scriptPath string, click bool, zoom int16, seed uint32, fps uint, logPath string) error {
	var steps []script.Step
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		steps, err = script.Parse(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", scriptPath, err)
		}
	}

	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	cfg := dongle.DefaultConfig()
	cfg.Seed = seed
	cfg.Framerate = fps
	cfg.Logger = logger{log.New(out, "", log.Ltime|log.Lmicroseconds)}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	term := newTerminal(screen, panelW, panelH, zoom)
	scr, err := dongle.New(cfg, term, nil, nil)
	if err != nil {
		return err
	}
	if err := scr.Init(); err != nil {
		return err
	}

	bus := event.NewDispatcher()
	if err := scr.Registry().Subscribe(bus); err != nil {
		return err
	}
	bus.Publish(event.Event{Kind: event.KindWPMChanged, Payload: event.WPMChanged{}})

	sampler := wpm.New(bus)
	keys := presses{sampler}
	if click {
		c, err := newClicker()
		if err != nil {
			cfg.Logger.Warnf("no key click: %v", err)
		}
		keys = append(keys, c)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sampler.Run(ctx)

	errs := make(chan error, 2)
	go func() {
		errs <- scr.Run(ctx)
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	if len(steps) > 0 {
		go func() {
			if err := script.Play(ctx, steps, bus, keys); err != nil && ctx.Err() == nil {
				errs <- err
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}()
	}

	in := input{bus: bus, keys: keys, scr: scr}
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			cancel()
			if err := <-errs; err != context.Canceled {
				return err
			}
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !in.key(ev) {
				return nil
			}
		}
	}
}

// input turns terminal keys into bus events.
type input struct {
	bus   event.Publisher
	keys  script.KeyPresser
	scr   *dongle.Screen
	caps  bool
	blank bool
}

// key handles one key event and reports whether to keep running.
func (in *input) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		in.caps = !in.caps
		var bits uint8
		if in.caps {
			bits = event.IndicatorCapsLock
		}
		in.bus.Publish(event.Event{Kind: event.KindIndicatorsChanged, Payload: event.IndicatorsChanged{Indicators: bits}})
	case tcell.KeyCtrlB:
		in.blank = !in.blank
		if in.blank {
			in.scr.Blank()
		} else {
			in.scr.Wake()
		}
	case tcell.KeyRune, tcell.KeyEnter, tcell.KeyBackspace, tcell.KeyBackspace2:
		in.keys.KeyPressed()
	}
	return true
}

// presses fans one key press out to several receivers.
type presses []script.KeyPresser

func (p presses) KeyPressed() {
	for _, k := range p {
		k.KeyPressed()
	}
}

// logger adapts a standard library logger; the terminal is busy showing the panel.
type logger struct {
	l *log.Logger
}

func (l logger) Debug(msg string)               { l.l.Print("DEBUG ", msg) }
func (l logger) Debugf(format string, v ...any) { l.l.Printf("DEBUG "+format, v...) }
func (l logger) Info(msg string)                { l.l.Print("INFO ", msg) }
func (l logger) Infof(format string, v ...any)  { l.l.Printf("INFO "+format, v...) }
func (l logger) Warnf(format string, v ...any)  { l.l.Printf("WARN "+format, v...) }
