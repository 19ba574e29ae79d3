// Package script replays recorded keyboard activity onto the event bus, for the simulator and for tests. A script is
// one command per line; blank lines and lines starting with # are ignored.
//
//	wpm 45              publish a typing speed
//	indicators 0x02     publish a raw HID indicator mask
//	caps on             publish caps lock on (or off)
//	keys 25             press 25 keys on the attached KeyPresser
//	sleep 1.5s          wait
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/shlex"

	"github.com/ajanata/dongle/internal/event"
)

type Op uint8

const (
	OpWPM Op = iota + 1
	OpIndicators
	OpKeys
	OpSleep
)

func (o Op) String() string {
	switch o {
	case OpWPM:
		return "wpm"
	case OpIndicators:
		return "indicators"
	case OpKeys:
		return "keys"
	case OpSleep:
		return "sleep"
	default:
		return "INVALID"
	}
}

// Step is one parsed command.
type Step struct {
	Op    Op
	Value uint
	Wait  time.Duration
	// Line is the 1-based source line, for error messages.
	Line int
}

// KeyPresser receives the presses from keys commands; *wpm.Sampler is one.
type KeyPresser interface {
	KeyPressed()
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		words, err := shlex.Split(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(words) == 0 {
			continue
		}
		step, err := parseStep(words)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		step.Line = line
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func parseStep(words []string) (Step, error) {
	if len(words) != 2 {
		return Step{}, errors.New(strconv.Quote(words[0]) + " takes exactly one argument")
	}
	arg := words[1]
	switch words[0] {
	case "wpm":
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return Step{}, fmt.Errorf("wpm: %w", err)
		}
		return Step{Op: OpWPM, Value: uint(v)}, nil
	case "indicators":
		v, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return Step{}, fmt.Errorf("indicators: %w", err)
		}
		return Step{Op: OpIndicators, Value: uint(v)}, nil
	case "caps":
		switch arg {
		case "on":
			return Step{Op: OpIndicators, Value: uint(event.IndicatorCapsLock)}, nil
		case "off":
			return Step{Op: OpIndicators}, nil
		}
		return Step{}, errors.New("caps: expected on or off, got " + strconv.Quote(arg))
	case "keys":
		v, err := strconv.ParseUint(arg, 10, 16)
		if err != nil {
			return Step{}, fmt.Errorf("keys: %w", err)
		}
		return Step{Op: OpKeys, Value: uint(v)}, nil
	case "sleep":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return Step{}, fmt.Errorf("sleep: %w", err)
		}
		if d < 0 {
			return Step{}, errors.New("sleep: negative duration")
		}
		return Step{Op: OpSleep, Wait: d}, nil
	}
	return Step{}, errors.New("unknown command " + strconv.Quote(words[0]))
}

// Play runs steps in order. keys may be nil if the script has no keys commands. It returns ctx.Err() if cancelled
// during a sleep.
func Play(ctx context.Context, steps []Step, pub event.Publisher, keys KeyPresser) error {
	for _, s := range steps {
		switch s.Op {
		case OpWPM:
			pub.Publish(event.Event{Kind: event.KindWPMChanged, Payload: event.WPMChanged{State: uint8(s.Value)}})
		case OpIndicators:
			pub.Publish(event.Event{Kind: event.KindIndicatorsChanged, Payload: event.IndicatorsChanged{Indicators: uint8(s.Value)}})
		case OpKeys:
			if keys == nil {
				return fmt.Errorf("line %d: keys without a key presser", s.Line)
			}
			for i := uint(0); i < s.Value; i++ {
				keys.KeyPressed()
			}
		case OpSleep:
			t := time.NewTimer(s.Wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		default:
			return fmt.Errorf("line %d: invalid op %s", s.Line, s.Op)
		}
	}
	return nil
}
