// Command experiment prints the start of the pseudo-random sequence and the particle field it seeds, for checking
// a seed or tick count against the firmware on a device.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/ajanata/dongle"
	"github.com/ajanata/dongle/internal/particle"
	"github.com/ajanata/dongle/internal/prng"
)

func main() {
	seed := flag.Uint("seed", prng.DefaultSeed, "seed")
	values := flag.Int("n", 5, "raw values to print")
	ticks := flag.Int("ticks", 0, "ticks to run before printing the field")
	flag.Parse()

	src := prng.New(uint32(*seed))
	for i := 0; i < *values; i++ {
		fmt.Printf("%2d: %d\n", i, src.Next())
	}

	cfg := dongle.DefaultConfig()
	f := particle.New(240, 135, prng.New(uint32(*seed)))
	f.Init(cfg.ParticleCount)
	for i := 0; i < *ticks; i++ {
		f.Tick()
	}

	fmt.Printf("\nafter %d ticks (%s):\n", *ticks, cfg.ParticlePeriod*time.Duration(*ticks))
	for i, p := range f.Particles() {
		glow := ""
		if p.Brightness > particle.GlowThreshold {
			glow = " glow"
		}
		fmt.Printf("%2d: x=%6.2f y=%6.2f vx=%+.2f vy=%+.2f b=%3d%s\n", i, p.X, p.Y, p.VX, p.VY, p.Brightness, glow)
	}
}
