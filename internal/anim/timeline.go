// Package anim is a small animation clock: it interpolates integer values over time and hands each new value to a
// callback. Anything that changes smoothly on screen (background glow, sprite frame index) is driven through it.
package anim

import (
	"math"
	"sync"
	"time"
)

// RepeatInfinite makes a ramp loop until it is removed.
const RepeatInfinite = -1

// Ramp describes one animated value.
type Ramp struct {
	From, To int32
	// Period is the time to travel From to To. With PingPong, a full cycle is twice as long.
	Period time.Duration
	// Delay holds the ramp at From before it starts moving. Giving several ramps different delays offsets their
	// phases.
	Delay    time.Duration
	Easing   Easing
	PingPong bool
	// Repeat is the number of cycles to play, or RepeatInfinite. Zero plays once.
	Repeat int
	Exec   func(v int32)
}

// ValueAt returns the value elapsed after the ramp was started, and whether the ramp has finished.
func (r Ramp) ValueAt(elapsed time.Duration) (v int32, done bool) {
	if elapsed < r.Delay {
		return r.From, false
	}
	if r.Period <= 0 {
		return r.To, true
	}

	e := elapsed - r.Delay
	cycle := r.Period
	if r.PingPong {
		cycle *= 2
	}

	repeat := r.Repeat
	if repeat == 0 {
		repeat = 1
	}
	if repeat != RepeatInfinite && e >= cycle*time.Duration(repeat) {
		if r.PingPong {
			return r.From, true
		}
		return r.To, true
	}

	within := e % cycle
	var t float64
	if within < r.Period {
		t = float64(within) / float64(r.Period)
	} else {
		t = 1 - float64(within-r.Period)/float64(r.Period)
	}
	return r.interpolate(t), false
}

func (r Ramp) interpolate(t float64) int32 {
	ease := r.Easing
	if ease == nil {
		ease = Linear
	}
	p := ease(t)
	return r.From + int32(math.Round(float64(r.To-r.From)*p))
}

// Handle identifies a ramp registered on a Timeline.
type Handle struct {
	ramp  Ramp
	start time.Time
}

// Timeline steps every registered ramp. It is safe for concurrent use; callbacks run without the timeline lock
// held, so they may add or remove ramps.
type Timeline struct {
	mu    sync.Mutex
	ramps []*Handle
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Add starts r at now and returns a handle for removing it.
func (tl *Timeline) Add(r Ramp, now time.Time) *Handle {
	h := &Handle{ramp: r, start: now}
	tl.mu.Lock()
	tl.ramps = append(tl.ramps, h)
	tl.mu.Unlock()
	return h
}

// Remove stops a ramp. Removing a nil or already finished handle is a no-op.
func (tl *Timeline) Remove(h *Handle) {
	if h == nil {
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for i, r := range tl.ramps {
		if r == h {
			tl.ramps = append(tl.ramps[:i], tl.ramps[i+1:]...)
			return
		}
	}
}

// Len returns the number of running ramps.
func (tl *Timeline) Len() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return len(tl.ramps)
}

type update struct {
	exec func(int32)
	v    int32
}

// Step computes every ramp's value at now and delivers it. Finished ramps get their final value and are dropped.
func (tl *Timeline) Step(now time.Time) {
	tl.mu.Lock()
	updates := make([]update, 0, len(tl.ramps))
	kept := tl.ramps[:0]
	for _, h := range tl.ramps {
		v, done := h.ramp.ValueAt(now.Sub(h.start))
		if h.ramp.Exec != nil {
			updates = append(updates, update{exec: h.ramp.Exec, v: v})
		}
		if !done {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(tl.ramps); i++ {
		tl.ramps[i] = nil
	}
	tl.ramps = kept
	tl.mu.Unlock()

	for _, u := range updates {
		u.exec(u.v)
	}
}
