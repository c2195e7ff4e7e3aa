// Package gasket builds Apollonian gasket packings of mutually tangent
// circles to a bounded recursion depth.
//
// # Overview
//
// A gasket starts from three mutually tangent base circles. The two circles
// tangent to all three (the small nested Soddy circle and the large
// enclosing one) are solved with [descartes.SolveCircle]. Every pair of base
// circles together with either Soddy circle forms a generating triple, six
// in total, and each triple is filled recursively: a new circle tangent to
// the triple is solved and paired with two members of the triple to form
// three child triples at the next level.
//
// # Basic Usage
//
// Derive base circles from three seed points with [BaseCircles], or do both
// steps at once with [Build]:
//
//	seed := [3]geom.Point{geom.Pt(0, 0), geom.Pt(6, 0), geom.Pt(2, 5)}
//	g, err := gasket.Build(seed, gasket.Options{MaxDepth: 3})
//	if err != nil {
//	    return err
//	}
//	for _, c := range g.Circles {
//	    fmt.Println(c.Center, c.Radius, c.Depth)
//	}
//
// # Policies
//
// A [Policy] selects how each generating triple is filled:
//
//   - [PolicyOuter]: one circle per step from the Outer Descartes root
//   - [PolicyBoth]: both Descartes roots per step, each recursed
//   - [PolicyReflect]: the Vieta reflection of the circle opposite the
//     triple, which never revisits a circle already in the packing
//
// [ExpectedCount] gives the exact number of circles each policy emits for a
// given depth. The count grows as 3ⁿ (6ⁿ for [PolicyBoth]), so depth is
// capped at [MaxDepthLimit] and the expected count at [Options.MaxCircles].
//
// # Failure
//
// Generation is all-or-nothing. A degenerate triple anywhere in the
// recursion (zero curvature sum, collinear centers) aborts the call and no
// partial gasket is returned. [GenerateWithRetry] re-samples random seeds
// until one generates cleanly.
//
// # Output
//
// Circles are returned in discovery order and tagged with their generation
// level. Gasket values are not modified after generation and may be shared
// between goroutines.
package gasket
