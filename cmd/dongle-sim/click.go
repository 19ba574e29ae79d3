package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	clickTone  = 1760
	clickTime  = 15 * time.Millisecond
)

// clicker plays a short tick for every simulated key press.
type clicker struct {
	enabled bool
}

// newClicker opens the speaker. Audio is optional; the returned error says why the clicker is silent.
func newClicker() (*clicker, error) {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/20))
	if err != nil {
		return &clicker{}, err
	}
	return &clicker{enabled: true}, nil
}

func (c *clicker) KeyPressed() {
	if c == nil || !c.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, clickTone)
	if err != nil {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(sampleRate.N(clickTime), sine),
		Base:     2,
		Volume:   -3,
	})
}
