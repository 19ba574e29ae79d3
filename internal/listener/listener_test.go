package listener

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ajanata/dongle/internal/event"
)

type recorder struct {
	mu   sync.Mutex
	seen []Fused
}

func (r *recorder) Update(f Fused) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, f)
	return true
}

func (r *recorder) last() Fused {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[len(r.seen)-1]
}

type fakeBus struct {
	handlers map[event.Kind][]event.Handler
	err      error
}

func (b *fakeBus) Subscribe(kind event.Kind, h event.Handler) error {
	if b.err != nil {
		return b.err
	}
	if b.handlers == nil {
		b.handlers = map[event.Kind][]event.Handler{}
	}
	b.handlers[kind] = append(b.handlers[kind], h)
	return nil
}

func (b *fakeBus) emit(e event.Event) {
	for _, h := range b.handlers[e.Kind] {
		h(e)
	}
}

type captureLog struct {
	warnings []string
}

func (l *captureLog) Debugf(string, ...any) {}
func (l *captureLog) Warnf(format string, v ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func TestRegistryFieldsAreIndependent(t *testing.T) {
	reg := NewRegistry(event.IndicatorCapsLock, nil)
	rec := &recorder{}
	reg.Register(rec)

	reg.HandleSpeed(42)
	if got := rec.last(); got != (Fused{Speed: 42}) {
		t.Errorf("expected speed 42 without indicator, got %+v", got)
	}

	reg.HandleIndicators(event.IndicatorCapsLock | event.IndicatorNumLock)
	if got := rec.last(); got != (Fused{Speed: 42, IndicatorActive: true}) {
		t.Errorf("expected stale speed retained, got %+v", got)
	}

	reg.HandleSpeed(3)
	if got := rec.last(); got != (Fused{Speed: 3, IndicatorActive: true}) {
		t.Errorf("expected stale indicator retained, got %+v", got)
	}
	if reg.State() != rec.last() {
		t.Errorf("registry state %+v differs from delivered %+v", reg.State(), rec.last())
	}
}

func TestRegistryMaskIgnoresOtherBits(t *testing.T) {
	reg := NewRegistry(event.IndicatorCapsLock, nil)
	for bits := 0; bits < 256; bits++ {
		reg.HandleIndicators(uint8(bits))
		want := bits&int(event.IndicatorCapsLock) != 0
		if reg.State().IndicatorActive != want {
			t.Fatalf("bits %#02x: expected %t", bits, want)
		}
	}
}

func TestRegistryEveryListenerSeesEveryEvent(t *testing.T) {
	reg := NewRegistry(event.IndicatorCapsLock, nil)
	a, b := &recorder{}, &recorder{}
	reg.Register(a)
	reg.Register(b)
	reg.Register(a)
	if reg.Len() != 3 {
		t.Errorf("expected 3 registrations, got %d", reg.Len())
	}

	reg.HandleSpeed(10)
	if len(a.seen) != 2 || len(b.seen) != 1 {
		t.Errorf("expected duplicate registration to deliver twice: a=%d b=%d", len(a.seen), len(b.seen))
	}
	if a.last() != b.last() {
		t.Errorf("listeners saw different snapshots: %+v vs %+v", a.last(), b.last())
	}
}

func TestRegistryNoUpdateBeforeEvents(t *testing.T) {
	reg := NewRegistry(event.IndicatorCapsLock, nil)
	rec := &recorder{}
	reg.Register(rec)
	if len(rec.seen) != 0 {
		t.Errorf("registration alone should not deliver, got %d", len(rec.seen))
	}
}

func TestRegistrySubscribe(t *testing.T) {
	log := &captureLog{}
	reg := NewRegistry(event.IndicatorCapsLock, log)
	rec := &recorder{}
	reg.Register(rec)

	bus := &fakeBus{}
	if err := reg.Subscribe(bus); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(bus.handlers[event.KindWPMChanged]) != 1 || len(bus.handlers[event.KindIndicatorsChanged]) != 1 {
		t.Fatalf("expected one handler per kind, got %v", bus.handlers)
	}

	bus.emit(event.Event{Kind: event.KindWPMChanged, Payload: &event.WPMChanged{State: 80}})
	bus.emit(event.Event{Kind: event.KindIndicatorsChanged, Payload: event.IndicatorsChanged{Indicators: event.IndicatorCapsLock}})
	if got := rec.last(); got != (Fused{Speed: 80, IndicatorActive: true}) {
		t.Errorf("unexpected state %+v", got)
	}

	bus.emit(event.Event{Kind: event.KindWPMChanged, Payload: "garbage"})
	bus.emit(event.Event{Kind: event.KindWPMChanged, Payload: (*event.WPMChanged)(nil)})
	if len(rec.seen) != 2 {
		t.Errorf("bad payloads should not notify, got %d updates", len(rec.seen))
	}
	if len(log.warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", log.warnings)
	}
}

func TestRegistrySubscribeError(t *testing.T) {
	reg := NewRegistry(event.IndicatorCapsLock, nil)
	if err := reg.Subscribe(&fakeBus{err: fmt.Errorf("bus closed")}); err == nil {
		t.Error("expected subscribe error")
	}
}

func TestRegistryConcurrentEvents(t *testing.T) {
	reg := NewRegistry(event.IndicatorCapsLock, nil)
	var mu sync.Mutex
	count := 0
	reg.Register(ListenerFunc(func(Fused) bool {
		mu.Lock()
		count++
		mu.Unlock()
		return false
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			reg.HandleSpeed(uint(i))
		}(i)
		go func(i int) {
			defer wg.Done()
			reg.HandleIndicators(uint8(i))
		}(i)
	}
	wg.Wait()
	if count != 16 {
		t.Errorf("expected 16 deliveries, got %d", count)
	}
}
