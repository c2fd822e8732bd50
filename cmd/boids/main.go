package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation/view"
	"github.com/tochemey/goakt/v3/log"
)

var (
	configFlag = flag.String("config", "", "parameters file (.json or .toml), defaults when empty")
	seedFlag   = flag.Uint64("seed", 0, "random seed of the initial flock, time based when 0")
	widthFlag  = flag.Int("width", 1760, "window width in pixels")
	heightFlag = flag.Int("height", 0, "window height in pixels, follows the world aspect ratio when 0")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	params, err := simulation.LoadParameters(*configFlag)
	if err != nil {
		stdlog.Fatal(err)
	}

	opts := []simulation.Option{simulation.WithLogger(log.New(log.InfoLevel, os.Stdout))}
	if *seedFlag != 0 {
		opts = append(opts, simulation.WithSeed(*seedFlag))
	}
	swarm, err := simulation.NewSwarm(ctx, params, opts...)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer swarm.Stop(ctx)

	height := *heightFlag
	if height <= 0 {
		height = int(float64(*widthFlag) * params.Height() / params.Width())
	}
	ebiten.SetWindowSize(*widthFlag, height)
	ebiten.SetWindowTitle("Boids")

	game := view.NewGame(ctx, swarm, *widthFlag, height)
	if err := ebiten.RunGame(game); err != nil {
		stdlog.Fatal(err)
	}
}
