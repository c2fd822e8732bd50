package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/terminal"
	"github.com/tochemey/goakt/v3/log"
)

var (
	configFlag = flag.String("config", "", "parameters file (.json or .toml), defaults when empty")
	seedFlag   = flag.Uint64("seed", 0, "random seed of the initial flock, time based when 0")
	tickFlag   = flag.Duration("tick", 50*time.Millisecond, "simulated time and wall time between two frames")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params, err := simulation.LoadParameters(*configFlag)
	if err != nil {
		return err
	}

	// the screen owns stdout, actors log nowhere
	opts := []simulation.Option{simulation.WithLogger(log.DiscardLogger)}
	if *seedFlag != 0 {
		opts = append(opts, simulation.WithSeed(*seedFlag))
	}
	swarm, err := simulation.NewSwarm(ctx, params, opts...)
	if err != nil {
		return err
	}
	defer swarm.Stop(context.Background())

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	if err := terminal.Run(ctx, screen, swarm, *tickFlag); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
