package telescope

import "math"

// Point is a 2D position in metres. Within a station it is an antenna
// offset from the station origin; in a layout it can also be an absolute
// tangent-plane position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rotate returns the point rotated counter-clockwise by rad radians about
// the origin.
func (p Point) Rotate(rad float64) Point {
	sin, cos := math.Sincos(rad)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Add returns the point translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the point translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Near reports whether p and q coincide within tol in both coordinates.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
