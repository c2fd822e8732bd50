package behavior

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

var (
	// ErrEmptyFlock is returned when a run is configured with no boid.
	ErrEmptyFlock = errors.New("boids number must be at least 1")
	// ErrInvalidBounds is returned when the world rectangle is empty or not finite.
	ErrInvalidBounds = errors.New("world bounds are invalid")
	// ErrNegativeRadius is returned when d or d_s is negative or NaN.
	ErrNegativeRadius = errors.New("interaction radius must be a non negative number")
	// ErrInvalidSpeedBand is returned when the velocity band is negative, empty
	// or narrower than one doubling (MaximumVelocity < 2*MinimumVelocity).
	// Without such a band the speed clamp has no fixed point.
	ErrInvalidSpeedBand = errors.New("speed band must satisfy 0 <= minimum velocity and 2*minimum <= maximum")
)

// RunningParameters controls the physics constants of one simulation run.
// It is owned by the caller and never modified by this package: pass a pointer
// and use the With* helpers to derive a new set between ticks.
type RunningParameters struct {
	BoidsNumber int `json:"boidsNumber" toml:"boidsNumber"`

	S float64 `json:"separation" toml:"separation"` // Separation weight
	A float64 `json:"alignment" toml:"alignment"`   // Alignment weight
	C float64 `json:"cohesion" toml:"cohesion"`     // Cohesion weight

	Ds float64 `json:"separationDistance" toml:"separationDistance"`     // Separation activation radius, expected < D
	D  float64 `json:"neighborhoodDistance" toml:"neighborhoodDistance"` // Neighborhood radius

	LeftBound   float64 `json:"leftBound" toml:"leftBound"`
	RightBound  float64 `json:"rightBound" toml:"rightBound"`
	UpperBound  float64 `json:"upperBound" toml:"upperBound"`
	BottomBound float64 `json:"bottomBound" toml:"bottomBound"`

	MaximumVelocity float64 `json:"maximumVelocity" toml:"maximumVelocity"`
	MinimumVelocity float64 `json:"minimumVelocity" toml:"minimumVelocity"`
}

// DefaultParameters returns the parameters of the reference simulation.
func DefaultParameters() *RunningParameters {
	return &RunningParameters{
		BoidsNumber:     120,
		S:               0.5,
		A:               0.6,
		C:               0.02,
		Ds:              1,
		D:               9,
		LeftBound:       0,
		RightBound:      176,
		UpperBound:      99,
		BottomBound:     0,
		MaximumVelocity: 80,
		MinimumVelocity: 20,
	}
}

// Width is the horizontal extent of the world.
func (p *RunningParameters) Width() float64 { return p.RightBound - p.LeftBound }

// Height is the vertical extent of the world.
func (p *RunningParameters) Height() float64 { return p.UpperBound - p.BottomBound }

// Validate checks every precondition of the core and joins all violations.
func (p *RunningParameters) Validate() error {
	var errs []error
	if p.BoidsNumber < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrEmptyFlock, p.BoidsNumber))
	}
	lowerLeft := geometry.NewVector(p.LeftBound, p.BottomBound)
	upperRight := geometry.NewVector(p.RightBound, p.UpperBound)
	if !lowerLeft.IsFinite() || !upperRight.IsFinite() ||
		p.LeftBound >= p.RightBound || p.BottomBound >= p.UpperBound {
		errs = append(errs, fmt.Errorf("%w: x in [%g, %g], y in [%g, %g]",
			ErrInvalidBounds, p.LeftBound, p.RightBound, p.BottomBound, p.UpperBound))
	}
	if !(p.D >= 0) || !(p.Ds >= 0) {
		errs = append(errs, fmt.Errorf("%w: d=%g d_s=%g", ErrNegativeRadius, p.D, p.Ds))
	}
	if !finite(p.S, p.A, p.C) {
		errs = append(errs, fmt.Errorf("steering weights must be finite: s=%g a=%g c=%g", p.S, p.A, p.C))
	}
	if !finite(p.MinimumVelocity, p.MaximumVelocity) ||
		p.MinimumVelocity < 0 || p.MinimumVelocity > p.MaximumVelocity ||
		// halving and doubling can only land in a band at least one octave wide
		(p.MinimumVelocity > 0 && p.MaximumVelocity < 2*p.MinimumVelocity) {
		errs = append(errs, fmt.Errorf("%w: got [%g, %g]",
			ErrInvalidSpeedBand, p.MinimumVelocity, p.MaximumVelocity))
	}
	return errors.Join(errs...)
}

// WithWeights returns a copy of p with new separation, alignment and cohesion weights.
func (p *RunningParameters) WithWeights(s, a, c float64) *RunningParameters {
	out := *p
	out.S, out.A, out.C = s, a, c
	return &out
}

// WithRadii returns a copy of p with new separation and neighborhood radii.
func (p *RunningParameters) WithRadii(ds, d float64) *RunningParameters {
	out := *p
	out.Ds, out.D = ds, d
	return &out
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
