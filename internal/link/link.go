// Package link is the byte protocol between the receiving keyboard half and the screen. Every frame is four bytes:
//
//	[Header, kind, value, checksum]
//
// where checksum is kind+value, wrapping.
package link

import (
	"errors"
	"strconv"

	"github.com/ajanata/dongle/internal/event"
)

const (
	Header    byte = 0xAA
	FrameSize      = 4
)

// Encode builds the frame for e. The payload must match the kind; pointer payloads are accepted.
func Encode(e event.Event) ([FrameSize]byte, error) {
	var (
		v  byte
		ok bool
	)
	switch e.Kind {
	case event.KindWPMChanged:
		switch p := e.Payload.(type) {
		case event.WPMChanged:
			v, ok = p.State, true
		case *event.WPMChanged:
			if p != nil {
				v, ok = p.State, true
			}
		}
	case event.KindIndicatorsChanged:
		switch p := e.Payload.(type) {
		case event.IndicatorsChanged:
			v, ok = p.Indicators, true
		case *event.IndicatorsChanged:
			if p != nil {
				v, ok = p.Indicators, true
			}
		}
	default:
		return [FrameSize]byte{}, errors.New("cannot encode event kind " + strconv.Itoa(int(e.Kind)))
	}
	if !ok {
		return [FrameSize]byte{}, errors.New("bad payload for " + e.Kind.String())
	}
	k := byte(e.Kind)
	return [FrameSize]byte{Header, k, v, k + v}, nil
}

// Decoder reassembles frames from a byte stream. Bytes before a header, and frames with a bad checksum or unknown
// kind, are dropped; decoding picks up again at the next header.
type Decoder struct {
	buf     [FrameSize]byte
	n       int
	dropped uint
}

// Feed adds one byte and returns the event if it completed a valid frame.
func (d *Decoder) Feed(b byte) (event.Event, bool) {
	if d.n == 0 && b != Header {
		d.dropped++
		return event.Event{}, false
	}
	d.buf[d.n] = b
	d.n++
	if d.n < FrameSize {
		return event.Event{}, false
	}
	d.n = 0

	kind, v, sum := d.buf[1], d.buf[2], d.buf[3]
	if kind+v != sum {
		d.dropped += FrameSize
		d.resync()
		return event.Event{}, false
	}
	switch event.Kind(kind) {
	case event.KindWPMChanged:
		return event.Event{Kind: event.KindWPMChanged, Payload: event.WPMChanged{State: v}}, true
	case event.KindIndicatorsChanged:
		return event.Event{Kind: event.KindIndicatorsChanged, Payload: event.IndicatorsChanged{Indicators: v}}, true
	}
	d.dropped += FrameSize
	return event.Event{}, false
}

// resync keeps the tail of a rejected frame from its first header byte onwards, so a frame that began inside it is
// not lost.
func (d *Decoder) resync() {
	for i := 1; i < FrameSize; i++ {
		if d.buf[i] != Header {
			continue
		}
		n := copy(d.buf[:], d.buf[i:])
		d.n = n
		d.dropped -= uint(n)
		return
	}
}

// Dropped returns the number of bytes discarded so far.
func (d *Decoder) Dropped() uint {
	return d.dropped
}
