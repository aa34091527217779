package game

import "math/rand/v2"

// Random provides random numbers and can be replaced in tests.
type Random interface {
	// IntN returns a random int in [0, n).
	IntN(n int) int
}

type pcgRandom struct {
	r *rand.Rand
}

// NewRandom returns a deterministic source; equal seeds replay equal games.
func NewRandom(seed uint64) Random {
	return &pcgRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcgRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return p.r.IntN(n)
}

type systemRandom struct{}

// SystemRandom draws from the runtime's global source.
func SystemRandom() Random {
	return systemRandom{}
}

func (systemRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}
