package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by ApproxEqual and by NewVectorPolar to snap
// values that are zero up to rounding.
const (
	Epsilon = 1e-9
)

// Vector2D represents a 2D vector or point in cartesian space.
// We use public fields (X, Y) because they are fundamental data, not internal state.
// It is a value type: every operation returns a new Vector2D, only the *Assign
// variants modify their receiver.
type Vector2D struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Zero is the null vector.
var Zero = Vector2D{}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D from polar coordinates.
// theta is in radians.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	// Handle standard floating point precision issues near zero
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Neg returns the opposite vector.
func (v Vector2D) Neg() Vector2D {
	return Vector2D{-v.X, -v.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Scale is Mul with the scalar written first: Scale(k, v) == v.Mul(k).
func Scale(scalar float64, v Vector2D) Vector2D {
	return v.Mul(scalar)
}

// Div scales the vector by 1/scalar.
// A zero scalar follows IEEE-754: the components become ±Inf, or NaN for a
// zero component.
func (v Vector2D) Div(scalar float64) Vector2D {
	return Vector2D{v.X / scalar, v.Y / scalar}
}

// AddAssign adds other to v in place.
func (v *Vector2D) AddAssign(other Vector2D) {
	v.X += other.X
	v.Y += other.Y
}

// SubAssign subtracts other from v in place.
func (v *Vector2D) SubAssign(other Vector2D) {
	v.X -= other.X
	v.Y -= other.Y
}

// MulAssign scales v in place.
func (v *Vector2D) MulAssign(scalar float64) {
	v.X *= scalar
	v.Y *= scalar
}

// DivAssign divides v in place, with the same IEEE-754 behavior as Div.
func (v *Vector2D) DivAssign(scalar float64) {
	v.X /= scalar
	v.Y /= scalar
}

// ---------------------------------------------------------------------
// Vector2D Products
// ---------------------------------------------------------------------

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Use it for comparisons, it avoids the square root.
func (v Vector2D) LenSqr() float64 {
	return v.Dot(v)
}

// Len calculates the euclidean norm sqrt(v·v).
// Every distance in the simulation goes through this, so all of them derive
// from the same inner product.
func (v Vector2D) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// Distance calculates the Euclidean distance between v1 and v2, i.e. |v2 - v1|.
func Distance(v1, v2 Vector2D) float64 {
	return v2.Sub(v1).Len()
}

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return Distance(v, other)
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Equal reports exact equality of both components, the same as ==.
// Values in the simulation are copied, never re-derived, so exact comparison is
// what callers want; use ApproxEqual for computed results.
func (v Vector2D) Equal(other Vector2D) bool {
	return v.X == other.X && v.Y == other.Y
}

// NotEqual is the negation of Equal.
func (v Vector2D) NotEqual(other Vector2D) bool {
	return !v.Equal(other)
}

// ApproxEqual checks if two vectors are equal within Epsilon on each axis.
func (v Vector2D) ApproxEqual(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
