package anim

import (
	"github.com/charmbracelet/harmonica"
)

// Easing maps linear progress in [0, 1] to eased progress. Curves must return 0 at 0 and 1 at 1 but may overshoot
// in between.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

// EaseInOut is a cubic ease-in-out: slow at both ends, fastest in the middle.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Spring returns a curve shaped like a damped spring settling onto its target. The spring is simulated once for
// fps steps and sampled from a lookup table afterwards, so evaluating the curve is cheap. The last sample is
// pinned to 1 so a ramp always lands on its end value.
func Spring(fps int, frequency, damping float64) Easing {
	if fps < 2 {
		fps = 2
	}
	s := harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
	lut := make([]float64, fps+1)
	var pos, vel float64
	for i := 1; i < len(lut); i++ {
		pos, vel = s.Update(pos, vel, 1)
		lut[i] = pos
	}
	lut[len(lut)-1] = 1

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		f := t * float64(len(lut)-1)
		i := int(f)
		frac := f - float64(i)
		return lut[i] + (lut[i+1]-lut[i])*frac
	}
}
