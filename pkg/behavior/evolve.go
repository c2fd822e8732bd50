package behavior

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvolveBoid computes the state of boid after dt seconds, reading only the
// prior-tick snapshot. It is a pure function: same inputs, same output.
//
//  1. the position moves by velocity*dt
//  2. when the radius-D neighborhood holds another boid, separation (against
//     the whole snapshot, radius Ds), alignment and cohesion (against the
//     neighborhood) are added to the velocity
//  3. the moved position is wrapped toroidally
//  4. the new velocity is clamped into the speed band
func EvolveBoid(snapshot Flock, boid Boid, dt float64, p *RunningParameters) (Boid, error) {
	newPosition := boid.position.Add(boid.velocity.Mul(dt))
	newVelocity := boid.velocity

	neighborhood := Neighborhood(snapshot, boid, p.D)
	if len(neighborhood) > 1 {
		separation := Separation(boid, snapshot, p.S, p.Ds)
		alignment := Alignment(boid, neighborhood, p.A)
		cohesion := Cohesion(boid, neighborhood, p.C)
		newVelocity.AddAssign(separation.Add(alignment).Add(cohesion))
	}

	clamped, err := LimitSpeed(newVelocity, p)
	if err != nil {
		return boid, err
	}
	return NewBoid(TeleportToroidally(newPosition, p), clamped), nil
}

// EvolveFlock advances the whole flock by one tick of dt seconds.
// Every boid is evolved from the same frozen snapshot into a new collection,
// which then replaces *flock. No boid ever sees another boid's new state.
// On error *flock is left untouched.
func EvolveFlock(flock *Flock, dt float64, p *RunningParameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid running parameters: %w", err)
	}
	snapshot := *flock
	evolved := make(Flock, len(snapshot))
	for i, boid := range snapshot {
		next, err := EvolveBoid(snapshot, boid, dt, p)
		if err != nil {
			return fmt.Errorf("evolving boid %d: %w", i, err)
		}
		evolved[i] = next
	}
	*flock = evolved
	return nil
}

// EvolveFlockParallel has the same contract and output as EvolveFlock, with
// boids evolved concurrently by at most workers goroutines (GOMAXPROCS when
// workers <= 0). Each goroutine writes only its own slot of the new flock.
func EvolveFlockParallel(ctx context.Context, flock *Flock, dt float64, p *RunningParameters, workers int) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid running parameters: %w", err)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	snapshot := *flock
	evolved := make(Flock, len(snapshot))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, boid := range snapshot {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			next, err := EvolveBoid(snapshot, boid, dt, p)
			if err != nil {
				return fmt.Errorf("evolving boid %d: %w", i, err)
			}
			evolved[i] = next
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	*flock = evolved
	return nil
}
