// Command simulation runs a flock without display and prints its statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/stats"
	"github.com/tochemey/goakt/v3/log"
)

var (
	configFlag  = flag.String("config", "", "parameters file (.json or .toml), defaults when empty")
	seedFlag    = flag.Uint64("seed", 1, "random seed of the initial flock")
	ticksFlag   = flag.Int("ticks", 600, "number of ticks to run")
	everyFlag   = flag.Int("every", 60, "print the statistics every N ticks")
	dtFlag      = flag.Duration("dt", 16*time.Millisecond, "simulated time of one tick")
	verboseFlag = flag.Bool("v", false, "log actor system events")
	workersFlag = flag.Int("workers", 0, "evolve in process with this many goroutines instead of one actor per boid, 0 keeps the actors, negative uses GOMAXPROCS")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *ticksFlag < 0 || *everyFlag < 1 {
		return fmt.Errorf("ticks must be positive and every at least 1, got %d and %d", *ticksFlag, *everyFlag)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params, err := simulation.LoadParameters(*configFlag)
	if err != nil {
		return err
	}

	var runner stepper
	if *workersFlag != 0 {
		if runner, err = newParallelRunner(params, *seedFlag, *workersFlag); err != nil {
			return err
		}
	} else {
		var logger log.Logger = log.DiscardLogger
		if *verboseFlag {
			logger = log.New(log.InfoLevel, os.Stderr)
		}
		swarm, err := simulation.NewSwarm(ctx, params, simulation.WithSeed(*seedFlag), simulation.WithLogger(logger))
		if err != nil {
			return err
		}
		defer swarm.Stop(context.Background())
		runner = swarm
	}

	report := func(tick int) {
		fmt.Printf("--- tick %d ---\n", tick)
		summary, err := stats.Compute(runner.Snapshot())
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(summary.Report(params))
	}

	report(0)
	for tick := 1; tick <= *ticksFlag; tick++ {
		if err := runner.Step(ctx, *dtFlag); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		if tick%*everyFlag == 0 {
			report(tick)
		}
	}
	return nil
}
