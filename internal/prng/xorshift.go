package prng

// Source is a 32-bit xorshift generator. The kernel reseeds one of these on
// every initialize, so identical seeds reproduce identical agent
// trajectories bit for bit.
type Source struct {
	state uint32
}

// New returns a Source seeded with the low 32 bits of seed. Zero is a fixed
// point of the xorshift step, so a zero seed becomes 1; every other seed is
// used as given.
func New(seed uint32) *Source {
	if seed == 0 {
		seed = 1
	}
	return &Source{state: seed}
}

// Uint32 advances the generator and returns the new state.
func (s *Source) Uint32() uint32 {
	x := s.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.state = x
	return x
}

// Float returns the next value in [0, 1).
func (s *Source) Float() float64 {
	return float64(s.Uint32()) * (1.0 / 4294967296.0)
}

// FloatRange returns the next value in [lo, hi).
func (s *Source) FloatRange(lo, hi float64) float64 {
	return lo + s.Float()*(hi-lo)
}
