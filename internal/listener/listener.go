// Package listener fuses the typing speed and indicator event streams into one snapshot and fans it out to every
// registered widget.
package listener

import (
	"sync"

	"github.com/ajanata/dongle/internal/event"
)

// Fused is the combined input snapshot. Each event updates only its own field; the other keeps its last value.
type Fused struct {
	Speed           uint
	IndicatorActive bool
}

// Listener is a widget that reacts to the fused snapshot. Update reports whether the widget changed what it shows.
type Listener interface {
	Update(f Fused) bool
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(f Fused) bool

func (fn ListenerFunc) Update(f Fused) bool { return fn(f) }

type Logger interface {
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
}

// Registry owns the fused snapshot and the widgets that observe it. Registration is append-only; widgets live as
// long as the registry.
type Registry struct {
	mu        sync.Mutex
	mask      uint8
	state     Fused
	listeners []Listener
	log       Logger
}

// NewRegistry creates a registry that treats any bit in mask as "indicator active". A nil logger discards output.
func NewRegistry(mask uint8, log Logger) *Registry {
	return &Registry{
		mask: mask,
		log:  log,
	}
}

// Register appends l. Registering the same listener twice makes it observe every update twice.
func (r *Registry) Register(l Listener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// State returns the current snapshot.
func (r *Registry) State() Fused {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// HandleSpeed records a new typing speed and re-evaluates every listener.
func (r *Registry) HandleSpeed(speed uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Speed = speed
	r.notify()
}

// HandleIndicators extracts the indicator flag from a raw HID bitmask and re-evaluates every listener. Bits outside
// the mask are ignored.
func (r *Registry) HandleIndicators(bits uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.IndicatorActive = bits&r.mask != 0
	r.notify()
}

// notify must be called with r.mu held so every listener sees the same snapshot and events cannot interleave.
func (r *Registry) notify() {
	changed := 0
	for _, l := range r.listeners {
		if l.Update(r.state) {
			changed++
		}
	}
	if r.log != nil {
		r.log.Debugf("fused speed=%d indicator=%t: %d/%d widgets changed", r.state.Speed, r.state.IndicatorActive, changed, len(r.listeners))
	}
}

// Subscribe hooks the registry up to both event kinds on bus.
func (r *Registry) Subscribe(bus event.Bus) error {
	if err := bus.Subscribe(event.KindWPMChanged, r.handle); err != nil {
		return err
	}
	return bus.Subscribe(event.KindIndicatorsChanged, r.handle)
}

func (r *Registry) handle(e event.Event) {
	switch p := e.Payload.(type) {
	case event.WPMChanged:
		r.HandleSpeed(uint(p.State))
		return
	case *event.WPMChanged:
		if p != nil {
			r.HandleSpeed(uint(p.State))
			return
		}
	case event.IndicatorsChanged:
		r.HandleIndicators(p.Indicators)
		return
	case *event.IndicatorsChanged:
		if p != nil {
			r.HandleIndicators(p.Indicators)
			return
		}
	}
	if r.log != nil {
		r.log.Warnf("ignoring %s event with payload %T", e.Kind, e.Payload)
	}
}
