package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/durationpb"
)

var (
	// ErrSwarmStopped is returned by Step once Stop has been called.
	ErrSwarmStopped = errors.New("swarm is stopped")
	// ErrFlockSize is returned when an initial flock does not hold BoidsNumber boids.
	ErrFlockSize = errors.New("flock size does not match boids number")
)

const defaultAskTimeout = 2 * time.Second

// tickFrame is the state shared by the boid actors during one tick.
// snapshot and params are read only; each actor writes its own slot of
// proposed and errs.
type tickFrame struct {
	snapshot behavior.Flock
	proposed behavior.Flock
	errs     []error
	params   *behavior.RunningParameters
}

// Swarm runs a flock with one goakt actor per boid.
// Each Step evolves every boid from the same frozen snapshot and swaps the
// whole flock once all actors have replied.
type Swarm struct {
	system     actor.ActorSystem
	logger     log.Logger
	askTimeout time.Duration

	mu      sync.Mutex
	pids    []*actor.PID
	flock   behavior.Flock
	params  *behavior.RunningParameters
	stopped bool

	frame     atomic.Pointer[tickFrame]
	snapshots chan behavior.Flock

	// --- Benchmark Stats ---
	tickCount   int
	askCount    int
	lastLogTime time.Time
}

type swarmOptions struct {
	seed       *uint64
	flock      behavior.Flock
	logger     log.Logger
	askTimeout time.Duration
}

// Option configures NewSwarm.
type Option func(*swarmOptions)

// WithSeed makes the initial random flock reproducible.
func WithSeed(seed uint64) Option {
	return func(o *swarmOptions) { o.seed = &seed }
}

// WithFlock starts the swarm from flock instead of a random one.
func WithFlock(flock behavior.Flock) Option {
	return func(o *swarmOptions) { o.flock = flock.Clone() }
}

// WithLogger sets the logger of the actor system, log.DiscardLogger by default.
func WithLogger(logger log.Logger) Option {
	return func(o *swarmOptions) { o.logger = logger }
}

// WithAskTimeout bounds how long Step waits for each boid actor.
func WithAskTimeout(timeout time.Duration) Option {
	return func(o *swarmOptions) { o.askTimeout = timeout }
}

// NewSwarm validates params, creates the flock, starts an actor system and
// spawns one actor per boid.
func NewSwarm(ctx context.Context, params *behavior.RunningParameters, opts ...Option) (*Swarm, error) {
	o := swarmOptions{logger: log.DiscardLogger, askTimeout: defaultAskTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid running parameters: %w", err)
	}
	p := *params

	flock := o.flock
	if flock == nil {
		rng := behavior.NewTimeSeededRand()
		if o.seed != nil {
			rng = behavior.NewRand(*o.seed)
		}
		var err error
		if flock, err = behavior.CreateFlock(&p, rng); err != nil {
			return nil, err
		}
	} else if len(flock) != p.BoidsNumber {
		return nil, fmt.Errorf("%w: %d boids for boidsNumber %d", ErrFlockSize, len(flock), p.BoidsNumber)
	}

	system, err := actor.NewActorSystem("FlockWorld", actor.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	s := &Swarm{
		system:      system,
		logger:      o.logger,
		askTimeout:  o.askTimeout,
		flock:       flock,
		params:      &p,
		snapshots:   make(chan behavior.Flock, 1),
		lastLogTime: time.Now(),
	}
	if err := s.spawnBoids(ctx, len(flock)); err != nil {
		_ = system.Stop(ctx)
		return nil, err
	}
	s.logger.Infof("Swarm started with %d boids in a %gx%g world", len(flock), p.Width(), p.Height())
	return s, nil
}

// spawnBoids makes sure at least n boid actors exist. Extra actors left by a
// smaller Restart stay idle and are reused when the flock grows again.
func (s *Swarm) spawnBoids(ctx context.Context, n int) error {
	for i := len(s.pids); i < n; i++ {
		name := fmt.Sprintf("boid-%03d", i)
		pid, err := s.system.Spawn(ctx, name, newBoidActor(i, &s.frame))
		if err != nil {
			return fmt.Errorf("failed to spawn %s: %w", name, err)
		}
		s.pids = append(s.pids, pid)
	}
	return nil
}

// Step advances the flock by dt. On error the current flock is kept.
func (s *Swarm) Step(ctx context.Context, dt time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSwarmStopped
	}

	n := len(s.flock)
	frame := &tickFrame{
		snapshot: s.flock,
		proposed: make(behavior.Flock, n),
		errs:     make([]error, n),
		params:   s.params,
	}
	s.frame.Store(frame)
	defer s.frame.Store(nil)

	tick := durationpb.New(dt)
	g, ctx := errgroup.WithContext(ctx)
	for _, pid := range s.pids[:n] {
		g.Go(func() error {
			if _, err := actor.Ask(ctx, pid, tick, s.askTimeout); err != nil {
				return fmt.Errorf("ask %s: %w", pid.Name(), err)
			}
			return nil
		})
	}
	s.askCount += n
	if err := g.Wait(); err != nil {
		return fmt.Errorf("tick aborted: %w", err)
	}
	if err := errors.Join(frame.errs...); err != nil {
		return fmt.Errorf("tick aborted: %w", err)
	}

	s.flock = frame.proposed
	s.tickCount++
	s.pushSnapshot()
	s.logBenchmarks()
	return nil
}

func (s *Swarm) pushSnapshot() {
	// keep only the latest snapshot for a slow reader
	select {
	case <-s.snapshots:
	default:
	}
	select {
	case s.snapshots <- s.flock.Clone():
	default:
	}
}

func (s *Swarm) logBenchmarks() {
	if time.Since(s.lastLogTime) >= time.Second {
		s.logger.Infof("📊 TICK RATE: %d/sec (Asks: %d) | Boids: %d", s.tickCount, s.askCount, len(s.flock))
		s.tickCount = 0
		s.askCount = 0
		s.lastLogTime = time.Now()
	}
}

// Snapshot returns a copy of the current flock.
func (s *Swarm) Snapshot() behavior.Flock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flock.Clone()
}

// Snapshots delivers the flock after each successful Step.
// A reader that falls behind only sees the latest one.
func (s *Swarm) Snapshots() <-chan behavior.Flock {
	return s.snapshots
}

// Parameters returns a copy of the parameters used by the next Step.
func (s *Swarm) Parameters() *behavior.RunningParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.params
	return &p
}

// SetParameters validates p and uses it from the next Step on.
// A new BoidsNumber only takes effect on Restart.
func (s *Swarm) SetParameters(p *behavior.RunningParameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid running parameters: %w", err)
	}
	cp := *p
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = &cp
	return nil
}

// Restart replaces the flock with a new random one of BoidsNumber boids,
// drawn from a generator seeded with seed.
func (s *Swarm) Restart(ctx context.Context, seed uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSwarmStopped
	}
	flock, err := behavior.CreateFlock(s.params, behavior.NewRand(seed))
	if err != nil {
		return err
	}
	if err := s.spawnBoids(ctx, len(flock)); err != nil {
		return err
	}
	s.flock = flock
	s.logger.Infof("Swarm restarted with %d boids (seed %d)", len(flock), seed)
	return nil
}

// Stop shuts the actor system down. The swarm cannot be stepped afterwards.
func (s *Swarm) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	s.logger.Info("Swarm is shutting down...")
	return s.system.Stop(ctx)
}
