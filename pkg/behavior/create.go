package behavior

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// NewRand returns a PCG generator seeded with seed, for reproducible flocks.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededRand returns a generator seeded from the wall clock.
func NewTimeSeededRand() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

// CreateFlock creates p.BoidsNumber boids with positions drawn uniformly in
// [LeftBound, RightBound) x [BottomBound, UpperBound). Each velocity has a
// speed drawn uniformly in [MinimumVelocity, MaximumVelocity) and a uniform
// heading, so the flock starts inside the speed band.
// The random source is injected, pass NewRand(seed) in tests.
func CreateFlock(p *RunningParameters, rng *rand.Rand) (Flock, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid running parameters: %w", err)
	}
	uniform := func(low, high float64) float64 {
		return low + rng.Float64()*(high-low)
	}

	flock := make(Flock, 0, p.BoidsNumber)
	for range p.BoidsNumber {
		position := geometry.Vector2D{
			X: uniform(p.LeftBound, p.RightBound),
			Y: uniform(p.BottomBound, p.UpperBound),
		}
		velocity := geometry.NewVectorPolar(
			uniform(p.MinimumVelocity, p.MaximumVelocity),
			uniform(-math.Pi, math.Pi),
		)
		flock = append(flock, NewBoid(position, velocity))
	}
	return flock, nil
}
