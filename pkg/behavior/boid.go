package behavior

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
//
// A Boid is a plain value: a position and a velocity. It holds no reference to
// other boids, every interaction is computed from a snapshot of the Flock.
// Two boids are equal when both vectors are equal, so == works on Boid.
type Boid struct {
	position geometry.Vector2D
	velocity geometry.Vector2D
}

// NewBoid creates a boid from its position and velocity vectors.
func NewBoid(position, velocity geometry.Vector2D) Boid {
	return Boid{position: position, velocity: velocity}
}

// NewBoidXY creates a boid from the four scalar components.
func NewBoidXY(rx, ry, vx, vy float64) Boid {
	return NewBoid(geometry.Vector2D{X: rx, Y: ry}, geometry.Vector2D{X: vx, Y: vy})
}

// Position returns the boid position.
func (b Boid) Position() geometry.Vector2D { return b.position }

// SetPosition replaces the boid position.
func (b *Boid) SetPosition(r geometry.Vector2D) { b.position = r }

// Velocity returns the boid velocity.
func (b Boid) Velocity() geometry.Vector2D { return b.velocity }

// SetVelocity replaces the boid velocity.
func (b *Boid) SetVelocity(v geometry.Vector2D) { b.velocity = v }

// String implements fmt.Stringer.
func (b Boid) String() string {
	return fmt.Sprintf("r=%s v=%s", b.position, b.velocity)
}

// Flock is the ordered collection of every boid of a run.
// The index is the only handle that relates a boid across ticks.
type Flock []Boid

// Clone returns a copy of the flock that shares no memory with f.
func (f Flock) Clone() Flock {
	if f == nil {
		return nil
	}
	out := make(Flock, len(f))
	copy(out, f)
	return out
}

// Distance gives the cartesian distance between the positions of two boids.
func Distance(b1, b2 Boid) float64 {
	return geometry.Distance(b1.position, b2.position)
}

// Neighborhood returns the members of flock strictly closer than radius to
// reference. The reference itself is part of the result when it belongs to
// flock, at distance 0. The result never aliases flock.
func Neighborhood(flock Flock, reference Boid, radius float64) Flock {
	neighborhood := make(Flock, 0, len(flock))
	for _, current := range flock {
		if Distance(reference, current) < radius {
			neighborhood = append(neighborhood, current)
		}
	}
	return neighborhood
}

// CenterOfMass returns the mean position of the flock without reference:
// (sum(positions) - reference.position) / (n - 1).
// reference is expected to be a member of flock. It panics when len(flock) <= 1.
func CenterOfMass(flock Flock, reference Boid) geometry.Vector2D {
	n := len(flock)
	if n <= 1 {
		panic(fmt.Sprintf("behavior: center of mass needs at least 2 boids, got %d", n))
	}
	var sum geometry.Vector2D
	for _, current := range flock {
		sum.AddAssign(current.position)
	}
	return sum.Sub(reference.position).Mul(1 / float64(n-1))
}
