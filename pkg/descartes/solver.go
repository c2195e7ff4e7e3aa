package descartes

import (
	"fmt"
	"math"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
)

// Tolerance is the relative tolerance used to detect a vanishing curvature
// sum and a singular center system.
const Tolerance = 1e-12

// Branch selects one of the two Descartes roots.
type Branch int

const (
	// Inner takes k4 = Σk - 2·sqrt(...): the enclosing (or larger) solution.
	Inner Branch = iota
	// Outer takes k4 = Σk + 2·sqrt(...): the circle nested in the gap.
	Outer
)

// String returns the lowercase branch name.
func (b Branch) String() string {
	switch b {
	case Inner:
		return "inner"
	case Outer:
		return "outer"
	default:
		return fmt.Sprintf("branch(%d)", int(b))
	}
}

// sign returns the sign applied to the square-root term.
func (b Branch) sign() float64 {
	if b == Outer {
		return 1
	}
	return -1
}

// SolveRadius returns the radius of a circle tangent to three mutually
// tangent circles with the given strictly positive radii. The result is
// negative when the solution encloses the three circles.
//
// The function is symmetric in r1, r2 and r3.
func SolveRadius(r1, r2, r3 float64, b Branch) (float64, error) {
	for i, r := range [3]float64{r1, r2, r3} {
		if !(r > 0) || math.IsInf(r, 0) {
			return 0, errors.New(errors.ErrCodeDegenerateInput, "radius r%d must be positive and finite, got %g", i+1, r)
		}
	}
	k4, err := SolveCurvature(1/r1, 1/r2, 1/r3, b)
	if err != nil {
		return 0, err
	}
	return 1 / k4, nil
}

// SolveCurvature is the signed-curvature form of [SolveRadius]. One of the
// curvatures may be negative (an enclosing circle); zero and non-finite
// curvatures are rejected, as are two or more negative ones.
func SolveCurvature(k1, k2, k3 float64, b Branch) (float64, error) {
	negatives := 0
	for i, k := range [3]float64{k1, k2, k3} {
		if k == 0 || math.IsNaN(k) || math.IsInf(k, 0) {
			return 0, errors.New(errors.ErrCodeDegenerateInput, "curvature k%d must be finite and non-zero, got %g", i+1, k)
		}
		if k < 0 {
			negatives++
		}
	}
	if negatives > 1 {
		return 0, errors.New(errors.ErrCodeDegenerateInput, "at most one enclosing circle allowed, got %d", negatives)
	}

	scale := math.Abs(k1) + math.Abs(k2) + math.Abs(k3)
	radicand := k1*k2 + k2*k3 + k3*k1
	if radicand < 0 {
		// Rounding can push an exactly-zero radicand slightly negative.
		if radicand < -Tolerance*scale*scale {
			return 0, errors.New(errors.ErrCodeDegenerateInput, "circles are not mutually tangent (k1k2+k2k3+k3k1 = %g)", radicand)
		}
		radicand = 0
	}

	k4 := k1 + k2 + k3 + b.sign()*2*math.Sqrt(radicand)
	if math.Abs(k4) <= Tolerance*scale {
		return 0, errors.New(errors.ErrCodeDegenerateInput, "%s solution has zero curvature (infinite radius)", b)
	}
	return k4, nil
}

// SolveCenter returns the center of the circle with radius r4 tangent to c1,
// c2 and c3. It fails with NO_UNIQUE_SOLUTION when the three centers are
// collinear.
func SolveCenter(c1, c2, c3 geom.Circle, r4 float64) (geom.Point, error) {
	x1, y1, r1 := c1.Center.X, c1.Center.Y, c1.Radius
	x2, y2, r2 := c2.Center.X, c2.Center.Y, c2.Radius
	x3, y3, r3 := c3.Center.X, c3.Center.Y, c3.Radius

	a1 := 2 * (x2 - x1)
	b1 := 2 * (y2 - y1)
	d1 := x2*x2 - x1*x1 + y2*y2 - y1*y1 + (r1+r4)*(r1+r4) - (r2+r4)*(r2+r4)

	a2 := 2 * (x3 - x1)
	b2 := 2 * (y3 - y1)
	d2 := x3*x3 - x1*x1 + y3*y3 - y1*y1 + (r1+r4)*(r1+r4) - (r3+r4)*(r3+r4)

	det := a1*b2 - a2*b1
	scale := math.Max(math.Max(math.Abs(a1), math.Abs(b1)), math.Max(math.Abs(a2), math.Abs(b2)))
	if scale == 0 || math.Abs(det) <= Tolerance*scale*scale {
		return geom.Point{}, errors.New(errors.ErrCodeNoUniqueSolution,
			"centers %v, %v, %v are collinear", c1.Center, c2.Center, c3.Center)
	}

	return geom.Point{
		X: (d1*b2 - d2*b1) / det,
		Y: (a1*d2 - a2*d1) / det,
	}, nil
}

// SolveCircle returns the circle tangent to the mutually tangent circles c1,
// c2 and c3 on branch b. The result has depth 0; callers tag it.
func SolveCircle(c1, c2, c3 geom.Circle, b Branch) (geom.Circle, error) {
	k4, err := SolveCurvature(c1.Curvature(), c2.Curvature(), c3.Curvature(), b)
	if err != nil {
		return geom.Circle{}, err
	}
	return circleWithCurvature(c1, c2, c3, k4)
}

// SolveBoth returns the solutions on both branches.
func SolveBoth(c1, c2, c3 geom.Circle) (inner, outer geom.Circle, err error) {
	if inner, err = SolveCircle(c1, c2, c3, Inner); err != nil {
		return geom.Circle{}, geom.Circle{}, err
	}
	if outer, err = SolveCircle(c1, c2, c3, Outer); err != nil {
		return geom.Circle{}, geom.Circle{}, err
	}
	return inner, outer, nil
}

// Reflect returns the circle tangent to a, b and c other than opposite,
// which must itself be tangent to all three. Its curvature follows from
// Vieta's formula on the Descartes quadratic: k' = 2(ka + kb + kc) - ko.
func Reflect(a, b, c, opposite geom.Circle) (geom.Circle, error) {
	ka, kb, kc := a.Curvature(), b.Curvature(), c.Curvature()
	ko := opposite.Curvature()
	k := 2*(ka+kb+kc) - ko

	scale := math.Abs(ka) + math.Abs(kb) + math.Abs(kc) + math.Abs(ko)
	if math.IsNaN(k) || math.Abs(k) <= Tolerance*scale {
		return geom.Circle{}, errors.New(errors.ErrCodeDegenerateInput, "reflected circle has zero curvature (infinite radius)")
	}
	return circleWithCurvature(a, b, c, k)
}

func circleWithCurvature(c1, c2, c3 geom.Circle, k4 float64) (geom.Circle, error) {
	r4 := 1 / k4
	center, err := SolveCenter(c1, c2, c3, r4)
	if err != nil {
		return geom.Circle{}, err
	}
	return geom.Circle{Center: center, Radius: r4}, nil
}
