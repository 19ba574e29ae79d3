// Package event defines the events the status screen reacts to and the bus they arrive on.
package event

import (
	"errors"
	"sync"
)

// Kind identifies an event type.
type Kind uint8

const (
	// KindWPMChanged carries a new typing speed sample.
	// Payload: WPMChanged
	KindWPMChanged Kind = iota + 1
	// KindIndicatorsChanged carries the host's new HID indicator (keyboard LED) bitmask.
	// Payload: IndicatorsChanged
	KindIndicatorsChanged
)

func (k Kind) String() string {
	switch k {
	case KindWPMChanged:
		return "wpm_changed"
	case KindIndicatorsChanged:
		return "indicators_changed"
	default:
		return "INVALID"
	}
}

// HID keyboard LED bits as reported by the host.
const (
	IndicatorNumLock    uint8 = 1 << 0
	IndicatorCapsLock   uint8 = 1 << 1
	IndicatorScrollLock uint8 = 1 << 2
	IndicatorCompose    uint8 = 1 << 3
	IndicatorKana       uint8 = 1 << 4
)

type WPMChanged struct {
	State uint8
}

type IndicatorsChanged struct {
	Indicators uint8
}

type Event struct {
	Kind    Kind
	Payload any
}

// Handler is invoked synchronously by the bus for every event of the kind it subscribed to.
type Handler func(Event)

// Bus is the subscription side of an event bus.
type Bus interface {
	Subscribe(kind Kind, h Handler) error
}

// Publisher is the producing side of an event bus.
type Publisher interface {
	Publish(e Event)
}

// Dispatcher is an in-process Bus. Handlers are invoked in subscription order on the publishing goroutine.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind][]Handler)}
}

func (d *Dispatcher) Subscribe(kind Kind, h Handler) error {
	if h == nil {
		return errors.New("nil handler")
	}
	if kind == 0 {
		return errors.New("invalid event kind")
	}
	d.mu.Lock()
	d.handlers[kind] = append(d.handlers[kind], h)
	d.mu.Unlock()
	return nil
}

// Publish delivers e to every handler subscribed to its kind. Events nobody subscribed to are dropped.
func (d *Dispatcher) Publish(e Event) {
	d.mu.RLock()
	hs := d.handlers[e.Kind]
	d.mu.RUnlock()
	for _, h := range hs {
		h(e)
	}
}

// HandlerCount returns the number of handlers subscribed to kind.
func (d *Dispatcher) HandlerCount(kind Kind) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[kind])
}
