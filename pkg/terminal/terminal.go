// Package terminal renders a flock in a text terminal with tcell.
package terminal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/stats"
)

// headingGlyphs holds one arrow per octant, counterclockwise from east.
var headingGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

const restingGlyph = '·'

var (
	boidStyle   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// Glyph returns the arrow closest to the direction of v, a dot when v is
// too small to have a meaningful direction.
func Glyph(v geometry.Vector2D) rune {
	if v.ApproxEqual(geometry.Zero) {
		return restingGlyph
	}
	octant := int(math.Round(v.Angle() / (math.Pi / 4)))
	return headingGlyphs[(octant+8)%8]
}

// Cell returns the screen cell of a world position, the last row being
// reserved for the status line.
func Cell(vp geometry.Viewport, r geometry.Vector2D) (col, row int) {
	x, y := vp.Project(r)
	col = min(max(int(math.Floor(x)), 0), int(vp.Width)-1)
	row = min(max(int(math.Floor(y)), 0), int(vp.Height)-1)
	return col, row
}

// Render draws the flock on screen with status on the bottom line.
func Render(screen tcell.Screen, flock behavior.Flock, p *behavior.RunningParameters, status string) {
	w, h := screen.Size()
	screen.Clear()
	if w < 1 || h < 2 {
		screen.Show()
		return
	}
	vp := geometry.NewViewport(p.LeftBound, p.RightBound, p.BottomBound, p.UpperBound, float64(w), float64(h-1))
	for _, b := range flock {
		col, row := Cell(vp, b.Position())
		screen.SetContent(col, row, Glyph(b.Velocity()), nil, boidStyle)
	}
	drawText(screen, 0, h-1, w, status, statusStyle)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		screen.SetContent(col, y, ' ', nil, style)
	}
}

type command int

const (
	commandNone command = iota
	commandQuit
	commandPause
	commandRestart
)

func keyCommand(ev *tcell.EventKey) command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return commandQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return commandQuit
		case ' ':
			return commandPause
		case 'r', 'R':
			return commandRestart
		}
	}
	return commandNone
}

// statusLine summarizes the run for the bottom line of the screen.
func statusLine(flock behavior.Flock, ticks int, paused bool) string {
	state := "running"
	if paused {
		state = "paused"
	}
	line := fmt.Sprintf(" %d boids | tick %d | %s", len(flock), ticks, state)
	if summary, err := stats.Compute(flock); err == nil {
		line += fmt.Sprintf(" | dist %.2f±%.2f | speed %.2f±%.2f",
			summary.MeanDistance, summary.SigmaDistance, summary.MeanSpeed, summary.SigmaSpeed)
	}
	return line + " | q quit, space pause, r restart"
}

// Run steps the swarm every tick and redraws it until the user quits or
// ctx is done. The caller owns screen and must Init and Fini it.
func Run(ctx context.Context, screen tcell.Screen, swarm *simulation.Swarm, tick time.Duration) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	flock := swarm.Snapshot()
	ticks := 0
	paused := false
	Render(screen, flock, swarm.Parameters(), statusLine(flock, ticks, paused))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch keyCommand(ev) {
				case commandQuit:
					return nil
				case commandPause:
					paused = !paused
				case commandRestart:
					if err := swarm.Restart(ctx, uint64(time.Now().UnixNano())); err != nil {
						return err
					}
					flock = swarm.Snapshot()
					ticks = 0
				}
			}
		case <-ticker.C:
			if paused {
				break
			}
			if err := swarm.Step(ctx, tick); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("simulation step failed: %w", err)
			}
			flock = swarm.Snapshot()
			ticks++
		}
		Render(screen, flock, swarm.Parameters(), statusLine(flock, ticks, paused))
	}
}
