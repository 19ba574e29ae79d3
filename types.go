package dongle

import (
	"tinygo.org/x/drivers"
)

type Display interface {
	drivers.Displayer

	// CanUpdateNow indicates that the device is able to take a new frame right now. This is useful if the device is
	// driven by a DMA transfer, and the previous transfer has not yet completed. Displays should still support Display
	// being called before they are ready to update; in this case, they should block until the next update is possible.
	CanUpdateNow() bool
}

type Blinker interface {
	Low()
	High()
}

// screenState indicates what the screen is showing.
type screenState uint8

const (
	screenStateBoot screenState = iota
	screenStateRunning
	screenStateBlank
)

func (s screenState) String() string {
	switch s {
	case screenStateBoot:
		return "boot"
	case screenStateRunning:
		return "running"
	case screenStateBlank:
		return "blank"
	default:
		return "INVALID"
	}
}
