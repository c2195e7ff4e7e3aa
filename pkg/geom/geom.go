// Package geom defines the value types shared by the tangency solver and the
// gasket generator: points in the plane and circles with signed radii.
//
// # Signed Radii
//
// A circle with a negative radius encloses the circles it is tangent to. Its
// curvature 1/r is negative, which is the convention Descartes' Circle
// Theorem needs for internally tangent circles. With signed radii, two
// circles are tangent exactly when the distance between their centers equals
// |r1 + r2|; this single rule covers both external and internal tangency.
//
// All types are plain values and safe to copy and share between goroutines.
package geom

import (
	"fmt"
	"math"
)

// Point is a location in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Len returns the Euclidean norm of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool { return isFinite(p.X) && isFinite(p.Y) }

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Circle is one element of a tangency packing.
type Circle struct {
	Center Point
	// Radius is signed; negative marks a circle enclosing its neighbours.
	Radius float64
	// Depth is the generation level the circle was produced at: 0 for the
	// seed circles and their two Soddy circles, L for recursion level L.
	// Tools that tag circles by remaining recursion stage instead can
	// convert with stage = maxDepth - Depth. It carries no geometric meaning.
	Depth int
}

// NewCircle returns a depth-0 circle.
func NewCircle(center Point, radius float64) Circle {
	return Circle{Center: center, Radius: radius}
}

// Curvature returns the signed curvature 1/Radius.
func (c Circle) Curvature() float64 { return 1 / c.Radius }

// Size returns the absolute radius.
func (c Circle) Size() float64 { return math.Abs(c.Radius) }

// Encloses reports whether c is an enclosing (negatively curved) circle.
func (c Circle) Encloses() bool { return c.Radius < 0 }

// IsValid reports whether c has a finite center and a finite, non-zero radius.
func (c Circle) IsValid() bool {
	return c.Center.IsFinite() && isFinite(c.Radius) && c.Radius != 0
}

// WithDepth returns a copy of c tagged with depth d.
func (c Circle) WithDepth(d int) Circle {
	c.Depth = d
	return c
}

// TangencyResidual returns how far c and o are from being tangent, relative
// to the larger of the two sizes: | |c1-c2| - |r1+r2| | / max(|r1|, |r2|).
// Zero means exactly tangent.
func (c Circle) TangencyResidual(o Circle) float64 {
	d := c.Center.Dist(o.Center)
	want := math.Abs(c.Radius + o.Radius)
	scale := math.Max(c.Size(), o.Size())
	if scale == 0 {
		return math.Inf(1)
	}
	return math.Abs(d-want) / scale
}

// TangentTo reports whether c and o are tangent within relative tolerance tol.
func (c Circle) TangentTo(o Circle, tol float64) bool {
	return c.TangencyResidual(o) <= tol
}

func (c Circle) String() string {
	return fmt.Sprintf("circle{center=%v r=%g depth=%d}", c.Center, c.Radius, c.Depth)
}

// Collinear reports whether a, b and c lie on a common line, using a
// tolerance relative to the squared extent of the triangle.
func Collinear(a, b, c Point, tol float64) bool {
	ab, ac := b.Sub(a), c.Sub(a)
	cross := ab.X*ac.Y - ab.Y*ac.X
	scale := math.Max(ab.Len(), ac.Len())
	return math.Abs(cross) <= tol*scale*scale
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
