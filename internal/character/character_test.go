package character

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/ajanata/dongle/internal/anim"
	"github.com/ajanata/dongle/internal/event"
	"github.com/ajanata/dongle/internal/listener"
)

type fakeTarget struct {
	frames   []image.Image
	duration time.Duration
	repeat   int
	starts   int
}

func (f *fakeTarget) SetFrames(frames []image.Image) { f.frames = frames }
func (f *fakeTarget) SetDuration(d time.Duration)    { f.duration = d }
func (f *fakeTarget) SetRepeat(n int)                { f.repeat = n }
func (f *fakeTarget) Start()                         { f.starts++ }

func testSequences() Sequences {
	frame := image.NewRGBA(image.Rect(0, 0, 1, 1))
	n := func(k int) []image.Image {
		fs := make([]image.Image, k)
		for i := range fs {
			fs[i] = frame
		}
		return fs
	}
	tap := n(2)
	return Sequences{
		StateIdle:  {Frames: n(4), FrameTime: IdleFrameTime},
		StateSlow:  {Frames: tap, FrameTime: SlowFrameTime},
		StateMid:   {Frames: tap, FrameTime: MidFrameTime},
		StateFast:  {Frames: tap, FrameTime: FastFrameTime},
		StateSmash: {Frames: n(10), FrameTime: SmashFrameTime},
	}
}

func TestSelectThresholds(t *testing.T) {
	tests := []struct {
		speed uint
		want  State
	}{
		{0, StateIdle},
		{4, StateIdle},
		{5, StateSlow},
		{39, StateSlow},
		{40, StateMid},
		{69, StateMid},
		{70, StateFast},
		{255, StateFast},
	}
	for _, tt := range tests {
		if got := Select(listener.Fused{Speed: tt.speed}); got != tt.want {
			t.Errorf("speed %d: expected %s, got %s", tt.speed, tt.want, got)
		}
	}
}

func TestSelectIndicatorDominates(t *testing.T) {
	for _, speed := range []uint{0, 4, 5, 39, 40, 69, 70, 255, math.MaxUint} {
		if got := Select(listener.Fused{Speed: speed, IndicatorActive: true}); got != StateSmash {
			t.Errorf("speed %d with indicator: expected smash, got %s", speed, got)
		}
	}
}

func TestWidgetInitialState(t *testing.T) {
	w := New(&fakeTarget{}, testSequences())
	if w.State() != StateNone {
		t.Errorf("expected none before any update, got %s", w.State())
	}
}

func TestWidgetIdempotent(t *testing.T) {
	target := &fakeTarget{}
	w := New(target, testSequences())

	if !w.Update(listener.Fused{Speed: 10}) {
		t.Fatal("first update should change state")
	}
	if w.Update(listener.Fused{Speed: 20}) {
		t.Error("same state should not report a change")
	}
	if target.starts != 1 {
		t.Errorf("expected exactly 1 start, got %d", target.starts)
	}

	w.Update(listener.Fused{Speed: 50})
	w.Update(listener.Fused{Speed: 55})
	w.Update(listener.Fused{Speed: 50, IndicatorActive: true})
	w.Update(listener.Fused{Speed: 0, IndicatorActive: true})
	if target.starts != 3 {
		t.Errorf("expected 3 starts, got %d", target.starts)
	}
	if w.State() != StateSmash {
		t.Errorf("expected smash, got %s", w.State())
	}
}

func TestWidgetConfiguresTarget(t *testing.T) {
	target := &fakeTarget{}
	w := New(target, testSequences())

	w.Update(listener.Fused{Speed: 0})
	if len(target.frames) != 4 || target.duration != time.Second || target.repeat != anim.RepeatInfinite {
		t.Errorf("idle: unexpected target %d frames, %v, repeat %d", len(target.frames), target.duration, target.repeat)
	}

	w.Update(listener.Fused{Speed: 100})
	if len(target.frames) != 2 || target.duration != 200*time.Millisecond {
		t.Errorf("fast: unexpected target %d frames, %v", len(target.frames), target.duration)
	}

	w.Update(listener.Fused{IndicatorActive: true})
	if len(target.frames) != 10 || target.duration != 600*time.Millisecond {
		t.Errorf("smash: unexpected target %d frames, %v", len(target.frames), target.duration)
	}
}

func TestLoadSequences(t *testing.T) {
	seqs, err := LoadSequences()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	expected := map[State]time.Duration{
		StateIdle:  time.Second,
		StateSlow:  400 * time.Millisecond,
		StateMid:   300 * time.Millisecond,
		StateFast:  200 * time.Millisecond,
		StateSmash: 600 * time.Millisecond,
	}
	for s, d := range expected {
		if got := seqs[s].Duration(); got != d {
			t.Errorf("%s: expected loop of %v, got %v", s, d, got)
		}
	}
}

func TestRegistryFansOutToAllWidgets(t *testing.T) {
	bus := event.NewDispatcher()
	reg := listener.NewRegistry(event.IndicatorCapsLock, nil)
	if err := reg.Subscribe(bus); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	t1, t2 := &fakeTarget{}, &fakeTarget{}
	w1, w2 := New(t1, testSequences()), New(t2, testSequences())
	reg.Register(w1)
	reg.Register(w2)

	bus.Publish(event.Event{Kind: event.KindWPMChanged, Payload: event.WPMChanged{State: 45}})
	if w1.State() != StateMid || w2.State() != StateMid {
		t.Errorf("expected both mid, got %s and %s", w1.State(), w2.State())
	}

	bus.Publish(event.Event{Kind: event.KindIndicatorsChanged, Payload: event.IndicatorsChanged{Indicators: 0xFF}})
	if w1.State() != StateSmash || w2.State() != StateSmash {
		t.Errorf("expected both smash, got %s and %s", w1.State(), w2.State())
	}

	// caps off again: the stale speed of 45 still applies
	bus.Publish(event.Event{Kind: event.KindIndicatorsChanged, Payload: event.IndicatorsChanged{Indicators: event.IndicatorNumLock}})
	if w1.State() != StateMid || w2.State() != StateMid {
		t.Errorf("expected both back to mid, got %s and %s", w1.State(), w2.State())
	}
	if t1.starts != 3 || t2.starts != 3 {
		t.Errorf("expected 3 starts each, got %d and %d", t1.starts, t2.starts)
	}
}
