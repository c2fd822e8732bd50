package behavior

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestSeparation(t *testing.T) {
	flock := fiveBoids()

	tests := []struct {
		name   string
		flock  Flock
		boid   Boid
		s, ds  float64
		expect geometry.Vector2D
	}{
		{"Pair", Flock{NewBoidXY(1, 3, 0, 0), NewBoidXY(2, 4, 0, 0)}, NewBoidXY(1, 3, 0, 0), 1, 7, geometry.Vector2D{X: -1, Y: -1}},
		{"First of five", flock, flock[0], 1, 7, geometry.Vector2D{X: -6, Y: -2}},
		{"Second of five", flock, flock[1], 1, 7, geometry.Vector2D{X: 4, Y: -2}},
		{"Weighted", flock, flock[0], 0.5, 7, geometry.Vector2D{X: -3, Y: -1}},
		// only boid 4 at distance sqrt(2) is closer than 1.5
		{"Tight radius", flock, flock[0], 1, 1.5, geometry.Vector2D{X: 1, Y: 1}},
		{"Nobody close", flock, flock[2], 1, 0.5, geometry.Vector2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Separation(tt.boid, tt.flock, tt.s, tt.ds)
			if !approxVector(got, tt.expect) {
				t.Errorf("Separation = %v; want %v", got, tt.expect)
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	flock := fiveBoids()

	tests := []struct {
		name   string
		boid   Boid
		a      float64
		expect geometry.Vector2D
	}{
		{"First", flock[0], 1, geometry.Vector2D{X: -1, Y: -1}},
		{"Second", flock[1], 1, geometry.Vector2D{X: -1, Y: -1}},
		// mean of others is (2, 2)/4 = (0.5, 0.5)
		{"Fourth", flock[3], 1, geometry.Vector2D{X: 1.5, Y: 1.5}},
		{"Weighted", flock[3], 2, geometry.Vector2D{X: 3, Y: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Alignment(tt.boid, flock, tt.a)
			if !approxVector(got, tt.expect) {
				t.Errorf("Alignment = %v; want %v", got, tt.expect)
			}
		})
	}
}

func TestCohesion(t *testing.T) {
	flock := fiveBoids()

	tests := []struct {
		name   string
		boid   Boid
		c      float64
		expect geometry.Vector2D
	}{
		{"First", flock[0], 1, geometry.Vector2D{X: 1.5, Y: 0.5}},
		{"Second", flock[1], 1, geometry.Vector2D{X: -1, Y: 0.5}},
		{"Weighted", flock[0], 0.1, geometry.Vector2D{X: 0.15, Y: 0.05}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cohesion(tt.boid, flock, tt.c)
			if !approxVector(got, tt.expect) {
				t.Errorf("Cohesion = %v; want %v", got, tt.expect)
			}
		})
	}
}

func TestAlignmentCohesion_PanicOnLonelyBoid(t *testing.T) {
	b := NewBoidXY(0, 0, 1, 1)
	rules := map[string]func(){
		"Alignment":      func() { Alignment(b, Flock{b}, 1) },
		"Cohesion":       func() { Cohesion(b, Flock{b}, 1) },
		"Alignment nil":  func() { Alignment(b, nil, 1) },
		"Cohesion empty": func() { Cohesion(b, Flock{}, 1) },
	}
	for name, rule := range rules {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s should panic with fewer than 2 boids", name)
				}
			}()
			rule()
		})
	}
}

func TestRules_DoNotModifyInputs(t *testing.T) {
	flock := fiveBoids()
	before := flock.Clone()
	Separation(flock[0], flock, 1, 7)
	Alignment(flock[0], flock, 1)
	Cohesion(flock[0], flock, 1)
	for i := range flock {
		if flock[i] != before[i] {
			t.Errorf("boid %d changed from %v to %v", i, before[i], flock[i])
		}
	}
}
