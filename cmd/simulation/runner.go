package main

import (
	"context"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
)

// stepper advances a flock one tick at a time. *simulation.Swarm is one.
type stepper interface {
	Step(ctx context.Context, dt time.Duration) error
	Snapshot() behavior.Flock
}

// parallelRunner evolves the flock in process with a bounded pool of
// goroutines, without any actor system.
type parallelRunner struct {
	flock   behavior.Flock
	params  *behavior.RunningParameters
	workers int
}

func newParallelRunner(p *behavior.RunningParameters, seed uint64, workers int) (*parallelRunner, error) {
	flock, err := behavior.CreateFlock(p, behavior.NewRand(seed))
	if err != nil {
		return nil, err
	}
	params := *p
	return &parallelRunner{flock: flock, params: &params, workers: workers}, nil
}

func (r *parallelRunner) Step(ctx context.Context, dt time.Duration) error {
	return behavior.EvolveFlockParallel(ctx, &r.flock, dt.Seconds(), r.params, r.workers)
}

func (r *parallelRunner) Snapshot() behavior.Flock {
	return r.flock.Clone()
}
