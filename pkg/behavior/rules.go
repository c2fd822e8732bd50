package behavior

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Separation steers the boid away from every member of flock closer than ds:
// -s * sum(member.position - boid.position).
// It scans the whole flock with its own radius ds, independently of the
// neighborhood radius used by Alignment and Cohesion. The boid itself
// contributes a null offset. Returns the zero vector when nothing is close.
func Separation(boid Boid, flock Flock, s, ds float64) geometry.Vector2D {
	var sum geometry.Vector2D
	for _, current := range flock {
		if Distance(boid, current) < ds {
			sum.AddAssign(current.position.Sub(boid.position))
		}
	}
	return sum.Neg().Mul(s)
}

// Alignment steers the boid toward the mean velocity of the other members of
// flock: a * ((sum(velocities) - boid.velocity)/(n-1) - boid.velocity).
// boid is expected to be a member of flock. It panics when len(flock) <= 1.
func Alignment(boid Boid, flock Flock, a float64) geometry.Vector2D {
	n := len(flock)
	if n <= 1 {
		panic(fmt.Sprintf("behavior: alignment needs at least 2 boids, got %d", n))
	}
	var sum geometry.Vector2D
	for _, current := range flock {
		sum.AddAssign(current.velocity)
	}
	mean := sum.Sub(boid.velocity).Mul(1 / float64(n-1))
	return geometry.Scale(a, mean.Sub(boid.velocity))
}

// Cohesion steers the boid toward the center of mass of the other members of
// flock: c * (CenterOfMass(flock, boid) - boid.position).
// It panics when len(flock) <= 1.
func Cohesion(boid Boid, flock Flock, c float64) geometry.Vector2D {
	return geometry.Scale(c, CenterOfMass(flock, boid).Sub(boid.position))
}
