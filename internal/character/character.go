// Package character is the typing cat: it picks one of a few looping animations from the fused typing speed and
// indicator state, and only touches the animation when that choice changes.
package character

import (
	"image"
	"sync"
	"time"

	"github.com/ajanata/dongle/internal/anim"
	"github.com/ajanata/dongle/internal/listener"
)

type State uint8

const (
	StateNone State = iota
	StateIdle
	StateSlow
	StateMid
	StateFast
	StateSmash
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateIdle:
		return "idle"
	case StateSlow:
		return "slow"
	case StateMid:
		return "mid"
	case StateFast:
		return "fast"
	case StateSmash:
		return "smash"
	default:
		return "INVALID"
	}
}

// Typing speed thresholds, in WPM. A speed below the threshold selects the slower state.
const (
	IdleBelow = 5
	SlowBelow = 40
	MidBelow  = 70
)

// Select is the transition rule. An active indicator always wins; otherwise the speed picks the state.
func Select(f listener.Fused) State {
	switch {
	case f.IndicatorActive:
		return StateSmash
	case f.Speed < IdleBelow:
		return StateIdle
	case f.Speed < SlowBelow:
		return StateSlow
	case f.Speed < MidBelow:
		return StateMid
	default:
		return StateFast
	}
}

// Target is an animated image: it loops through frames, spending duration on one full pass.
type Target interface {
	SetFrames(frames []image.Image)
	SetDuration(d time.Duration)
	SetRepeat(n int)
	Start()
}

// Sequence is a looped run of frames shown for FrameTime each.
type Sequence struct {
	Frames    []image.Image
	FrameTime time.Duration
}

// Duration is the time for one pass through the sequence.
func (s Sequence) Duration() time.Duration {
	return s.FrameTime * time.Duration(len(s.Frames))
}

// Sequences maps each displayable state to its animation.
type Sequences map[State]Sequence

// Widget drives a Target from fused input updates.
type Widget struct {
	mu      sync.Mutex
	target  Target
	seqs    Sequences
	current State
}

var _ listener.Listener = (*Widget)(nil)

func New(target Target, seqs Sequences) *Widget {
	return &Widget{
		target: target,
		seqs:   seqs,
	}
}

// Update applies the transition rule. If the state is unchanged nothing is sent to the target, so a loop that is
// already playing is never restarted. Returns whether the state changed.
func (w *Widget) Update(f listener.Fused) bool {
	next := Select(f)

	w.mu.Lock()
	defer w.mu.Unlock()
	if next == w.current {
		return false
	}

	seq := w.seqs[next]
	w.target.SetFrames(seq.Frames)
	w.target.SetDuration(seq.Duration())
	w.target.SetRepeat(anim.RepeatInfinite)
	w.target.Start()
	w.current = next
	return true
}

// State returns the state currently playing. It is StateNone until the first update.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}
