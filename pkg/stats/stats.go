// Package stats computes read-only summaries of a flock: how spread out the
// boids are and how fast they move.
package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// ErrTooFewAgents is returned by Compute when the flock cannot yield a
// standard deviation.
var ErrTooFewAgents = errors.New("at least 3 agents are needed for flock statistics")

// Agent is anything exposing a position and a velocity, behavior.Boid included.
type Agent interface {
	Position() geometry.Vector2D
	Velocity() geometry.Vector2D
}

// pairs walks every unordered pair (i < j) once.
func pairs[A Agent](agents []A, fn func(d float64)) {
	for i := range agents {
		for j := i + 1; j < len(agents); j++ {
			fn(agents[i].Position().DistanceTo(agents[j].Position()))
		}
	}
}

// MeanDistance is the mean of the n(n-1)/2 pairwise distances. It panics
// when fewer than 2 agents are given.
func MeanDistance[A Agent](agents []A) float64 {
	n := len(agents)
	if n < 2 {
		panic("stats: MeanDistance needs at least 2 agents")
	}
	var sum float64
	pairs(agents, func(d float64) { sum += d })
	return sum / float64(n*(n-1)/2)
}

// DistanceStdDev is the spread of the pairwise distances around mean.
// The correction term weighs mean by the agent count n rather than the pair
// count; the result is floored at 0.
func DistanceStdDev[A Agent](agents []A, mean float64) float64 {
	n := float64(len(agents))
	if n < 3 {
		panic("stats: DistanceStdDev needs at least 3 agents")
	}
	var sumSquares float64
	pairs(agents, func(d float64) { sumSquares += d * d })
	p := n * (n - 1) / 2
	return sqrtFloor(sumSquares/(p-1) - n*mean*mean/(n-1))
}

// MeanSpeed is the mean velocity magnitude. It panics on an empty slice.
func MeanSpeed[A Agent](agents []A) float64 {
	if len(agents) == 0 {
		panic("stats: MeanSpeed needs at least 1 agent")
	}
	var sum float64
	for _, a := range agents {
		sum += a.Velocity().Len()
	}
	return sum / float64(len(agents))
}

// SpeedStdDev is the sample standard deviation of the velocity magnitudes.
func SpeedStdDev[A Agent](agents []A, mean float64) float64 {
	n := float64(len(agents))
	if n < 2 {
		panic("stats: SpeedStdDev needs at least 2 agents")
	}
	var sumSquares float64
	for _, a := range agents {
		sumSquares += a.Velocity().LenSqr()
	}
	return sqrtFloor(sumSquares/(n-1) - n*mean*mean/(n-1))
}

func sqrtFloor(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

// Summary holds the statistics of one flock snapshot.
type Summary struct {
	Agents        int
	MeanDistance  float64
	SigmaDistance float64
	MeanSpeed     float64
	SigmaSpeed    float64
}

// Compute gathers every statistic of agents in one Summary.
func Compute[A Agent](agents []A) (Summary, error) {
	if len(agents) < 3 {
		return Summary{}, fmt.Errorf("%w: got %d", ErrTooFewAgents, len(agents))
	}
	s := Summary{Agents: len(agents)}
	s.MeanDistance = MeanDistance(agents)
	s.SigmaDistance = DistanceStdDev(agents, s.MeanDistance)
	s.MeanSpeed = MeanSpeed(agents)
	s.SigmaSpeed = SpeedStdDev(agents, s.MeanSpeed)
	return s, nil
}

// Report renders the summary together with the steering weights of p,
// one value per line.
func (s Summary) Report(p *behavior.RunningParameters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mean Distance:  %f  +/-  %f\n", s.MeanDistance, s.SigmaDistance)
	fmt.Fprintf(&b, "Mean Velocity:   %f  +/-  %f\n", s.MeanSpeed, s.SigmaSpeed)
	fmt.Fprintf(&b, "Boids Number:   %d\n", p.BoidsNumber)
	fmt.Fprintf(&b, "Separation Parameter:   %f\n", p.S)
	fmt.Fprintf(&b, "Alignment Parameter:   %f\n", p.A)
	fmt.Fprintf(&b, "Cohesion Parameter:   %f", p.C)
	return b.String()
}

// Lines splits Report into lines for renderers that draw one row at a time.
func (s Summary) Lines(p *behavior.RunningParameters) []string {
	return strings.Split(s.Report(p), "\n")
}
