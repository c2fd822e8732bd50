package geometry

// Viewport maps the world rectangle [MinX, MaxX] x [MinY, MaxY] onto a
// screen of Width x Height units. World y grows upward, screen y downward.
type Viewport struct {
	MinX, MaxX    float64
	MinY, MaxY    float64
	Width, Height float64
}

// NewViewport returns the viewport of a world onto a w x h screen.
func NewViewport(minX, maxX, minY, maxY, w, h float64) Viewport {
	return Viewport{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY, Width: w, Height: h}
}

// ScaleX is the number of screen units per world unit horizontally.
func (vp Viewport) ScaleX() float64 { return vp.Width / (vp.MaxX - vp.MinX) }

// ScaleY is the number of screen units per world unit vertically.
func (vp Viewport) ScaleY() float64 { return vp.Height / (vp.MaxY - vp.MinY) }

// Project returns the screen coordinates of the world point v.
func (vp Viewport) Project(v Vector2D) (x, y float64) {
	x = (v.X - vp.MinX) * vp.ScaleX()
	y = (vp.MaxY - v.Y) * vp.ScaleY()
	return x, y
}

// Heading is the screen angle of a world direction, in radians,
// clockwise from the screen x axis as drawing libraries expect.
func (vp Viewport) Heading(direction Vector2D) float64 {
	return Vector2D{X: direction.X * vp.ScaleX(), Y: -direction.Y * vp.ScaleY()}.Angle()
}
