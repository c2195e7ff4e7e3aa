package gasket

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
)

// seedTolerance is the relative size below which a base radius counts as zero.
const seedTolerance = 1e-12

// BaseCircles returns three mutually tangent circles centered at the seed
// points. Each radius follows from the pairwise distances:
//
//	r1 = (d12 + d13 − d23) / 2
//	r2 = (d12 + d23 − d13) / 2
//	r3 = (d13 + d23 − d12) / 2
//
// so that r1+r2 = d12, r1+r3 = d13 and r2+r3 = d23. Collinear or coincident
// seeds give a zero radius and fail with INVALID_SEED.
func BaseCircles(seed [3]geom.Point) (c1, c2, c3 geom.Circle, err error) {
	for i, p := range seed {
		if !p.IsFinite() {
			return c1, c2, c3, errors.New(errors.ErrCodeInvalidSeed, "seed point %d %v is not finite", i+1, p)
		}
	}

	d12 := seed[0].Dist(seed[1])
	d13 := seed[0].Dist(seed[2])
	d23 := seed[1].Dist(seed[2])

	radii := [3]float64{
		(d12 + d13 - d23) / 2,
		(d12 + d23 - d13) / 2,
		(d13 + d23 - d12) / 2,
	}
	scale := math.Max(d12, math.Max(d13, d23))
	for i, r := range radii {
		if scale == 0 || r <= seedTolerance*scale {
			return c1, c2, c3, errors.New(errors.ErrCodeInvalidSeed,
				"seed points %v, %v, %v do not form a triangle (r%d = %g)", seed[0], seed[1], seed[2], i+1, r)
		}
	}

	return geom.NewCircle(seed[0], radii[0]),
		geom.NewCircle(seed[1], radii[1]),
		geom.NewCircle(seed[2], radii[2]),
		nil
}

// RandomSeed returns three points drawn uniformly from the square
// [-radius, radius]².
func RandomSeed(rng *rand.Rand, radius float64) [3]geom.Point {
	var seed [3]geom.Point
	for i := range seed {
		seed[i] = geom.Pt(
			(rng.Float64()*2-1)*radius,
			(rng.Float64()*2-1)*radius,
		)
	}
	return seed
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
