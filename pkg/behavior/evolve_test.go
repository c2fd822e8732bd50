package behavior

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// unitParameters is a [0,10]x[0,10] world with unit weights, d_s = 5, d = 1
// and a speed band of [2, 10].
func unitParameters() *RunningParameters {
	return &RunningParameters{
		BoidsNumber:     5,
		S:               1,
		A:               1,
		C:               1,
		Ds:              5,
		D:               1,
		LeftBound:       0,
		RightBound:      10,
		UpperBound:      10,
		BottomBound:     0,
		MaximumVelocity: 10,
		MinimumVelocity: 2,
	}
}

func checkFlock(t *testing.T, got Flock, want []Boid) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("flock has %d boids; want %d", len(got), len(want))
	}
	for i := range want {
		if !approxVector(got[i].Position(), want[i].Position()) {
			t.Errorf("boid %d position = %v; want %v", i, got[i].Position(), want[i].Position())
		}
		if !approxVector(got[i].Velocity(), want[i].Velocity()) {
			t.Errorf("boid %d velocity = %v; want %v", i, got[i].Velocity(), want[i].Velocity())
		}
	}
}

func TestEvolveBoid(t *testing.T) {
	// a neighborhood radius that covers the whole world
	p := unitParameters().WithRadii(5, 100)

	tests := []struct {
		name  string
		flock Flock
		want  Boid
	}{
		{
			name: "Crowded",
			flock: Flock{
				NewBoidXY(1, 2, 2, 1),
				NewBoidXY(3, 2, 3, 1),
				NewBoidXY(3, 5, 1, 2),
				NewBoidXY(4, 2, -4, 0),
				NewBoidXY(0, 1, -3, -1),
			},
			want: NewBoidXY(1.4, 2.2, -5.25, -1),
		},
		{
			name: "Wrapped below",
			flock: Flock{
				NewBoidXY(6.5, -7.5, 7, 7),
				NewBoidXY(1, -3, 5, 0),
				NewBoidXY(4, -6, 1, -1),
				NewBoidXY(4.2, 4.2, 4, -3),
				NewBoidXY(12.2, 2, 2, -2),
			},
			want: NewBoidXY(7.9, 3.9, 4.35, 3.8),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvolveBoid(tt.flock, tt.flock[0], 0.2, p)
			if err != nil {
				t.Fatalf("EvolveBoid: %v", err)
			}
			checkFlock(t, Flock{got}, []Boid{tt.want})
		})
	}
}

func TestEvolveBoid_Pure(t *testing.T) {
	p := unitParameters().WithRadii(5, 100)
	flock := Flock{
		NewBoidXY(1, 2, 2, 1),
		NewBoidXY(3, 2, 3, 1),
		NewBoidXY(3, 5, 1, 2),
	}
	before := flock.Clone()
	first, err1 := EvolveBoid(flock, flock[1], 0.2, p)
	second, err2 := EvolveBoid(flock, flock[1], 0.2, p)
	if err1 != nil || err2 != nil {
		t.Fatalf("EvolveBoid errors: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("two evaluations differ: %v vs %v", first, second)
	}
	if !slices.Equal(flock, before) {
		t.Errorf("EvolveBoid modified its snapshot")
	}
}

func TestEvolveFlock(t *testing.T) {
	t.Run("Isolated boids only move and clamp", func(t *testing.T) {
		flock := Flock{
			NewBoidXY(1, 2, 1, 1),
			NewBoidXY(3, 2, 1, 3),
			NewBoidXY(3, 5, 2, 1),
			NewBoidXY(4, 2, -1, -1),
			NewBoidXY(0, 1, 0, 1),
			NewBoidXY(1, 7, -1, -3),
		}
		if err := EvolveFlock(&flock, 0.2, unitParameters()); err != nil {
			t.Fatalf("EvolveFlock: %v", err)
		}
		checkFlock(t, flock, []Boid{
			NewBoidXY(1.2, 2.2, 2, 2),
			NewBoidXY(3.2, 2.6, 1, 3),
			NewBoidXY(3.4, 5.2, 2, 1),
			NewBoidXY(3.8, 1.8, -2, -2),
			NewBoidXY(0, 1.2, 0, 2),
			NewBoidXY(0.8, 6.4, -1, -3),
		})
	})

	t.Run("Separation radius larger than neighborhood", func(t *testing.T) {
		// d_s = 5 would catch neighbors, but nobody is within d = 1:
		// the steering rules stay off and only the boundary policy applies.
		flock := Flock{
			NewBoidXY(6.5, -7.5, 7, 7),
			NewBoidXY(1, -3, 5, 0),
			NewBoidXY(4, -6, 1, -1),
			NewBoidXY(4.2, 4.2, 4, -3),
			NewBoidXY(12.2, 2, 2, -2),
		}
		if err := EvolveFlock(&flock, 0.2, unitParameters()); err != nil {
			t.Fatalf("EvolveFlock: %v", err)
		}
		checkFlock(t, flock, []Boid{
			NewBoidXY(7.9, 3.9, 7, 7),
			NewBoidXY(2, 7, 5, 0),
			NewBoidXY(4.2, 3.8, 2, -2),
			NewBoidXY(5, 3.6, 4, -3),
			NewBoidXY(2.6, 1.6, 2, -2),
		})
	})

	t.Run("Single boid keeps its velocity", func(t *testing.T) {
		flock := Flock{NewBoidXY(5, 5, 3, 4)}
		p := unitParameters().WithRadii(5, 100)
		if err := EvolveFlock(&flock, 0.5, p); err != nil {
			t.Fatalf("EvolveFlock: %v", err)
		}
		checkFlock(t, flock, []Boid{NewBoidXY(6.5, 7, 3, 4)})
	})

	t.Run("Empty flock", func(t *testing.T) {
		var flock Flock
		if err := EvolveFlock(&flock, 0.5, unitParameters()); err != nil {
			t.Fatalf("EvolveFlock: %v", err)
		}
		if len(flock) != 0 {
			t.Errorf("empty flock grew to %d boids", len(flock))
		}
	})
}

func TestEvolveFlock_InvalidParametersLeaveFlockUntouched(t *testing.T) {
	flock := fiveBoids()
	before := flock.Clone()
	p := unitParameters()
	p.MinimumVelocity = 20

	err := EvolveFlock(&flock, 0.2, p)
	if !errors.Is(err, ErrInvalidSpeedBand) {
		t.Fatalf("expected ErrInvalidSpeedBand, got %v", err)
	}
	if !slices.Equal(flock, before) {
		t.Errorf("flock changed after a failed tick")
	}
}

func TestEvolveFlock_ClampErrorAbortsTick(t *testing.T) {
	// two boids with opposite velocities, alignment cancels both to zero
	flock := Flock{NewBoidXY(1, 1, 1, 0), NewBoidXY(1.5, 1, -1, 0)}
	p := unitParameters().WithWeights(0, 0.5, 0).WithRadii(0, 5)
	before := flock.Clone()

	err := EvolveFlock(&flock, 0.1, p)
	if !errors.Is(err, ErrSpeedNotConverged) {
		t.Fatalf("expected ErrSpeedNotConverged, got %v", err)
	}
	if !slices.Equal(flock, before) {
		t.Errorf("flock changed after a failed tick")
	}
}

// randomFlock builds a dense flock where every rule is active.
func randomFlock(t testing.TB, seed uint64, n int) (Flock, *RunningParameters) {
	t.Helper()
	p := DefaultParameters()
	p.BoidsNumber = n
	p.RightBound, p.UpperBound = 40, 30
	p.Ds, p.D = 3, 12
	flock, err := CreateFlock(p, NewRand(seed))
	if err != nil {
		t.Fatalf("CreateFlock: %v", err)
	}
	return flock, p
}

func TestEvolveFlock_SimultaneousUpdate(t *testing.T) {
	flock, p := randomFlock(t, 11, 80)
	frozen := flock.Clone()
	const dt = 1.0 / 60

	// evolve every boid independently, in reverse order, against the frozen snapshot
	expected := make(Flock, len(frozen))
	for i := len(frozen) - 1; i >= 0; i-- {
		next, err := EvolveBoid(frozen, frozen[i], dt, p)
		if err != nil {
			t.Fatalf("EvolveBoid(%d): %v", i, err)
		}
		expected[i] = next
	}

	if err := EvolveFlock(&flock, dt, p); err != nil {
		t.Fatalf("EvolveFlock: %v", err)
	}
	if !slices.Equal(flock, expected) {
		t.Errorf("EvolveFlock differs from independent evolution against the frozen snapshot")
	}
}

func TestEvolveFlockParallel(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		sequential, p := randomFlock(t, 23, 100)
		parallel := sequential.Clone()
		for tick := 0; tick < 20; tick++ {
			if err := EvolveFlock(&sequential, 0.01, p); err != nil {
				t.Fatalf("EvolveFlock: %v", err)
			}
			if err := EvolveFlockParallel(context.Background(), &parallel, 0.01, p, workers); err != nil {
				t.Fatalf("EvolveFlockParallel(workers=%d): %v", workers, err)
			}
		}
		if !slices.Equal(sequential, parallel) {
			t.Errorf("workers=%d: parallel evolution differs from sequential", workers)
		}
	}
}

func TestEvolveFlockParallel_Cancelled(t *testing.T) {
	flock, p := randomFlock(t, 5, 50)
	before := flock.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := EvolveFlockParallel(ctx, &flock, 0.01, p, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !slices.Equal(flock, before) {
		t.Errorf("flock changed after a cancelled tick")
	}
}

func TestEvolveFlock_StaysInsideWorld(t *testing.T) {
	flock, p := randomFlock(t, 3, 60)
	for tick := 0; tick < 200; tick++ {
		if err := EvolveFlock(&flock, 1.0/60, p); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if len(flock) != p.BoidsNumber {
			t.Fatalf("tick %d: flock size changed to %d", tick, len(flock))
		}
		for i, b := range flock {
			r, speed := b.Position(), b.Velocity().Len()
			if r.X < p.LeftBound || r.X > p.RightBound || r.Y < p.BottomBound || r.Y > p.UpperBound {
				t.Fatalf("tick %d: boid %d left the world at %v", tick, i, r)
			}
			if speed < p.MinimumVelocity || speed > p.MaximumVelocity {
				t.Fatalf("tick %d: boid %d speed %v outside the band", tick, i, speed)
			}
		}
	}
}

func TestCreateFlock(t *testing.T) {
	p := DefaultParameters()

	flock, err := CreateFlock(p, NewRand(42))
	if err != nil {
		t.Fatalf("CreateFlock: %v", err)
	}
	if len(flock) != p.BoidsNumber {
		t.Fatalf("len(flock) = %d; want %d", len(flock), p.BoidsNumber)
	}
	for i, b := range flock {
		r, v := b.Position(), b.Velocity()
		if r.X < p.LeftBound || r.X >= p.RightBound || r.Y < p.BottomBound || r.Y >= p.UpperBound {
			t.Errorf("boid %d position %v outside the world", i, r)
		}
		// NewVectorPolar rounds near zero components, allow for it
		if speed := v.Len(); speed < p.MinimumVelocity-1e-9 || speed > p.MaximumVelocity+1e-9 {
			t.Errorf("boid %d speed %v outside the band [%v, %v]", i, speed, p.MinimumVelocity, p.MaximumVelocity)
		}
	}

	again, err := CreateFlock(p, NewRand(42))
	if err != nil {
		t.Fatalf("CreateFlock: %v", err)
	}
	if !slices.Equal(flock, again) {
		t.Error("same seed should create the same flock")
	}
	other, _ := CreateFlock(p, NewRand(43))
	if slices.Equal(flock, other) {
		t.Error("different seeds should create different flocks")
	}
}

func TestCreateFlock_SpreadsHeadings(t *testing.T) {
	p := DefaultParameters()
	p.BoidsNumber = 400
	flock, err := CreateFlock(p, NewRand(5))
	if err != nil {
		t.Fatalf("CreateFlock: %v", err)
	}
	var quadrants [4]int
	for _, b := range flock {
		v := b.Velocity()
		switch {
		case v.X >= 0 && v.Y >= 0:
			quadrants[0]++
		case v.X < 0 && v.Y >= 0:
			quadrants[1]++
		case v.X < 0:
			quadrants[2]++
		default:
			quadrants[3]++
		}
	}
	for q, n := range quadrants {
		if n < 50 {
			t.Errorf("quadrant %d holds %d of %d headings: %v", q, n, p.BoidsNumber, quadrants)
		}
	}
}

func TestCreateFlock_InvalidParameters(t *testing.T) {
	p := DefaultParameters()
	p.BoidsNumber = 0
	if _, err := CreateFlock(p, NewRand(1)); !errors.Is(err, ErrEmptyFlock) {
		t.Errorf("expected ErrEmptyFlock, got %v", err)
	}
}

func BenchmarkEvolveFlock(b *testing.B) {
	flock, p := randomFlock(b, 1, 120)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := EvolveFlock(&flock, 1.0/60, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvolveFlockParallel(b *testing.B) {
	flock, p := randomFlock(b, 1, 120)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := EvolveFlockParallel(ctx, &flock, 1.0/60, p, 0); err != nil {
			b.Fatal(err)
		}
	}
}
