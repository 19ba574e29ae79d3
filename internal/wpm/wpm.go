// Package wpm estimates typing speed from key presses the way keyboard firmware does: every interval it divides the
// words typed so far by the time elapsed in the current window, and starts a new window every ResetIntervals.
package wpm

import (
	"context"
	"sync"
	"time"

	"github.com/ajanata/dongle/internal/event"
)

const (
	CharsPerWord   = 5
	UpdateInterval = time.Second
	// ResetIntervals is the number of updates after which the key count starts over.
	ResetIntervals = 5
)

// Sampler counts key presses and publishes event.WPMChanged when the estimate changes.
type Sampler struct {
	pub event.Publisher

	mu      sync.Mutex
	keys    uint
	counter uint
	state   uint8
}

func New(pub event.Publisher) *Sampler {
	return &Sampler{pub: pub}
}

// KeyPressed records one key press. It is safe to call from any goroutine.
func (s *Sampler) KeyPressed() {
	s.mu.Lock()
	s.keys++
	s.mu.Unlock()
}

// Update closes one interval and returns the new estimate. The event is published outside the sampler's lock.
func (s *Sampler) Update() uint8 {
	s.mu.Lock()
	s.counter++
	v := s.keys / CharsPerWord * uint(time.Minute/UpdateInterval) / s.counter
	if v > 0xFF {
		v = 0xFF
	}
	next := uint8(v)
	changed := next != s.state
	s.state = next
	if s.counter >= ResetIntervals {
		s.counter = 0
		s.keys = 0
	}
	s.mu.Unlock()

	if changed && s.pub != nil {
		s.pub.Publish(event.Event{Kind: event.KindWPMChanged, Payload: event.WPMChanged{State: next}})
	}
	return next
}

// State returns the last estimate.
func (s *Sampler) State() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run calls Update every UpdateInterval until ctx is done.
func (s *Sampler) Run(ctx context.Context) {
	t := time.NewTicker(UpdateInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Update()
		}
	}
}
