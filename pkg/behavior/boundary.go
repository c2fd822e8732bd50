package behavior

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// maxClampIterations bounds the halving/doubling loop of LimitSpeed. Each
// iteration changes the exponent of the norm by one, 2100 covers the whole
// float64 range (subnormals included).
const maxClampIterations = 2100

// ErrSpeedNotConverged is returned by LimitSpeed when no power of two brings
// the velocity inside the band: zero or non finite velocity, or a band too
// narrow to be hit by halving/doubling.
var ErrSpeedNotConverged = errors.New("velocity could not be brought inside the speed band")

// TeleportToroidally wraps a position that left the world back in from the
// opposite edge. Each axis is checked independently and at most once: a point
// delta past the upper bound lands at lower + delta, a point delta below the
// lower bound lands at upper - delta. Points exactly on a bound are unchanged.
// It assumes a step never crosses more than one world width, which holds when
// velocity*dt is small compared to the world.
func TeleportToroidally(r geometry.Vector2D, p *RunningParameters) geometry.Vector2D {
	if r.Y > p.UpperBound {
		r.Y = p.BottomBound + math.Abs(r.Y-p.UpperBound)
	}
	if r.Y < p.BottomBound {
		r.Y = p.UpperBound - math.Abs(r.Y-p.BottomBound)
	}
	if r.X > p.RightBound {
		r.X = p.LeftBound + math.Abs(r.X-p.RightBound)
	}
	if r.X < p.LeftBound {
		r.X = p.RightBound - math.Abs(r.X-p.LeftBound)
	}
	return r
}

// LimitSpeed halves the velocity while its norm is above MaximumVelocity and
// doubles it while its norm is below MinimumVelocity, until the norm lies in
// [MinimumVelocity, MaximumVelocity]. The direction is preserved, the result is
// a positive power of two times v.
//
// The band is reachable from any finite non zero velocity only when
// MaximumVelocity >= 2*MinimumVelocity, which Validate enforces. It returns
// ErrInvalidSpeedBand when MinimumVelocity > MaximumVelocity and
// ErrSpeedNotConverged when the loop cannot reach the band.
func LimitSpeed(v geometry.Vector2D, p *RunningParameters) (geometry.Vector2D, error) {
	if p.MinimumVelocity > p.MaximumVelocity {
		return v, fmt.Errorf("%w: got [%g, %g]", ErrInvalidSpeedBand, p.MinimumVelocity, p.MaximumVelocity)
	}
	if !v.IsFinite() {
		return v, fmt.Errorf("%w: velocity %s is not finite", ErrSpeedNotConverged, v)
	}
	for range maxClampIterations {
		speed := v.Len()
		switch {
		case speed > p.MaximumVelocity:
			v = v.Mul(0.5)
		case speed < p.MinimumVelocity:
			if speed == 0 {
				return v, fmt.Errorf("%w: null velocity with minimum %g", ErrSpeedNotConverged, p.MinimumVelocity)
			}
			v = v.Mul(2)
		default:
			return v, nil
		}
	}
	return v, fmt.Errorf("%w: velocity %s after %d iterations", ErrSpeedNotConverged, v, maxClampIterations)
}
