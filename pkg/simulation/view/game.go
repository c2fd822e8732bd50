// Package view shows a running swarm in an ebiten window, with a parameter
// panel and a statistics overlay.
package view

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/stats"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

// reportInterval is how often the statistics overlay is recomputed.
const reportInterval = 2 * time.Second

// Pre-rendered sprite for fast batched drawing, built on first Draw
var (
	spriteOnce sync.Once
	boidSprite *ebiten.Image
)

type Game struct {
	ctx   context.Context
	swarm *simulation.Swarm

	width, height int
	viewport      geometry.Viewport
	lastFlock     behavior.Flock
	params        *behavior.RunningParameters

	// UI Controls
	panel *ui.UIPanel

	// Widget references for easy access
	widgetSeparation         *ui.Slider
	widgetAlignment          *ui.Slider
	widgetCohesion           *ui.Slider
	widgetSeparationDistance *ui.Slider
	widgetNeighborhood       *ui.Slider
	widgetPause              *ui.Checkbox
	widgetShowNeighborhood   *ui.Checkbox
	restartRequested         bool

	// Statistics overlay
	report     []string
	lastReport time.Time

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// NewGame wires a running swarm to a width x height window.
func NewGame(ctx context.Context, swarm *simulation.Swarm, width, height int) *Game {
	p := swarm.Parameters()

	// Initialize UI Panel with the steering parameters
	panel := ui.NewUIPanel(10, 10, 240, math.Min(420, float64(height)-20))

	panel.AddSection("Steering Weights")
	widgetSeparation := panel.AddSlider("Separation", 0, 2, p.S)
	widgetAlignment := panel.AddSlider("Alignment", 0, 2, p.A)
	widgetCohesion := panel.AddSlider("Cohesion", 0, 0.2, p.C)
	panel.EndSection()

	panel.AddSection("Interaction Radii")
	widgetSeparationDistance := panel.AddSlider("Separation Distance", 0, 10, p.Ds)
	widgetNeighborhood := panel.AddSlider("Neighborhood", 0, 40, p.D)
	panel.EndSection()

	g := &Game{
		ctx:                      ctx,
		swarm:                    swarm,
		width:                    width,
		height:                   height,
		viewport:                 worldViewport(p, width, height),
		lastFlock:                swarm.Snapshot(),
		params:                   p,
		panel:                    panel,
		widgetSeparation:         widgetSeparation,
		widgetAlignment:          widgetAlignment,
		widgetCohesion:           widgetCohesion,
		widgetSeparationDistance: widgetSeparationDistance,
		widgetNeighborhood:       widgetNeighborhood,
	}

	panel.AddSection("Run")
	g.widgetPause = panel.AddCheckbox("Pause", false)
	g.widgetShowNeighborhood = panel.AddCheckbox("Show Neighborhood", false)
	panel.AddButton("Restart", func() { g.restartRequested = true })
	panel.EndSection()

	g.refreshReport(time.Now())
	return g
}

func worldViewport(p *behavior.RunningParameters, width, height int) geometry.Viewport {
	return geometry.NewViewport(p.LeftBound, p.RightBound, p.BottomBound, p.UpperBound, float64(width), float64(height))
}

// sliderParameters returns the current parameters with the slider values,
// and whether any of them changed.
func (g *Game) sliderParameters() (*behavior.RunningParameters, bool) {
	p := g.params.
		WithWeights(g.widgetSeparation.Value, g.widgetAlignment.Value, g.widgetCohesion.Value).
		WithRadii(g.widgetSeparationDistance.Value, g.widgetNeighborhood.Value)
	return p, *p != *g.params
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Hidden = !g.panel.Hidden
	}
	g.panel.Update()

	// 2. Push slider values to the swarm
	if p, changed := g.sliderParameters(); changed {
		if err := g.swarm.SetParameters(p); err != nil {
			return err
		}
		g.params = p
	}

	if g.restartRequested {
		g.restartRequested = false
		if err := g.swarm.Restart(g.ctx, uint64(time.Now().UnixNano())); err != nil {
			return err
		}
		g.lastFlock = g.swarm.Snapshot()
	}

	// 3. Trigger Simulation Step, one tick per frame
	if !g.widgetPause.Value {
		dt := time.Second / time.Duration(ebiten.TPS())
		if err := g.swarm.Step(g.ctx, dt); err != nil {
			return fmt.Errorf("simulation step failed: %w", err)
		}
	}

	// 4. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.swarm.Snapshots():
		g.lastFlock = snap
	default:
		// Use previous state if new one isn't ready
	}

	if time.Since(g.lastReport) >= reportInterval {
		g.refreshReport(time.Now())
	}
	return nil
}

func (g *Game) refreshReport(now time.Time) {
	g.lastReport = now
	summary, err := stats.Compute(g.lastFlock)
	if err != nil {
		g.report = []string{err.Error()}
		return
	}
	g.report = summary.Lines(g.params)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()
	spriteOnce.Do(initSprites)

	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	// 1. Draw all boids from the last known snapshot
	for _, b := range g.lastFlock {
		x, y := g.viewport.Project(b.Position())
		if g.widgetShowNeighborhood.Value {
			vector.StrokeCircle(
				screen,
				float32(x), float32(y),
				float32(g.params.D*g.viewport.ScaleX()),
				1,
				color.RGBA{R: 50, G: 100, B: 255, A: 50},
				true,
			)
		}
		op := &ebiten.DrawImageOptions{}
		// Center the sprite
		w, h := boidSprite.Bounds().Dx(), boidSprite.Bounds().Dy()
		op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
		// The sprite faces "Up", add Pi/2 to align it with the heading
		op.GeoM.Rotate(g.viewport.Heading(b.Velocity()) + math.Pi/2)
		op.GeoM.Translate(x, y)
		screen.DrawImage(boidSprite, op)
	}

	// 2. Draw UI Panel
	g.panel.Draw(screen)

	// 3. Statistics, bottom left
	ebitenutil.DebugPrintAt(screen, strings.Join(g.report, "\n"), 10, g.height-16*len(g.report)-10)

	// Display performance stats on the right side
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\nTotal:  %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		g.updateAvg+g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, g.width-150, 10)
}

func (g *Game) Layout(w, h int) (int, int) { return g.width, g.height }

func initSprites() {
	// --- Boid Sprite Design (Sleek Arrow/Jet) ---
	design := []string{
		"...C...",
		"..CWC..",
		"..CBC..",
		".BBBBB.",
		"D.B.B.D",
		"..Y.Y..",
	}

	palette := map[rune]color.RGBA{
		'C': {R: 0, G: 255, B: 255, A: 255},   // Cyan Tip
		'W': {R: 255, G: 255, B: 255, A: 255}, // White Cockpit/Shine
		'B': {R: 0, G: 100, B: 255, A: 255},   // Main Blue Body
		'D': {R: 0, G: 0, B: 150, A: 255},     // Dark Blue Wings
		'Y': {R: 255, G: 200, B: 0, A: 255},   // Yellow Engine Ports
	}

	boidSprite = generateSprite(design, palette)
}

// generateSprite converts an ASCII grid into an Ebiten image
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := len(design[0])
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}
