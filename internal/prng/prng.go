// Package prng provides the deterministic pseudo-random source used to seed simulations.
package prng

// DefaultSeed is the seed the status screen uses at startup. There is no external entropy, so every boot
// produces the same particle field.
const DefaultSeed = 12345

const (
	multiplier = 1103515245
	increment  = 12345
	mask       = 1<<31 - 1
)

// Source is a linear congruential generator: seed = (seed*1103515245 + 12345) mod 2^31.
// It is not safe for concurrent use.
type Source struct {
	seed uint32
}

func New(seed uint32) *Source {
	return &Source{seed: seed}
}

// Next advances the generator and returns the new seed, which is always in [0, 2^31).
func (s *Source) Next() uint32 {
	// uint32 multiplication wraps mod 2^32, and 2^31 divides 2^32, so masking afterwards is the same as
	// reducing the full product mod 2^31.
	s.seed = (s.seed*multiplier + increment) & mask
	return s.seed
}

// Intn returns Next() % n. n must be positive.
func (s *Source) Intn(n int) int {
	return int(s.Next() % uint32(n))
}

// Seed returns the current generator state.
func (s *Source) Seed() uint32 { return s.seed }
