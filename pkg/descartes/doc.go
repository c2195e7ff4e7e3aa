// Package descartes solves for circles tangent to three mutually tangent
// circles.
//
// # Descartes' Circle Theorem
//
// Four mutually tangent circles with signed curvatures k1..k4 satisfy
//
//	(k1 + k2 + k3 + k4)² = 2(k1² + k2² + k3² + k4²)
//
// Solved for the fourth curvature:
//
//	k4 = k1 + k2 + k3 ± 2·sqrt(k1·k2 + k2·k3 + k3·k1)
//
// The two roots are selected with a [Branch]. [Outer] takes the plus sign
// and yields the small circle nested in the gap between the three. [Inner]
// takes the minus sign and usually yields the circle enclosing all three
// (negative curvature, hence negative radius); for some inputs it yields a
// second, positively curved gap circle instead. Check the sign of the
// returned radius rather than relying on the branch name.
//
// # Center
//
// Once the radius r4 is known, each tangency constraint
// |p4 - p_i| = r_i + r4 is squared and the first is subtracted from the
// other two, leaving a 2×2 linear system in p4 that is solved with Cramer's
// rule ([SolveCenter]). Signed radii make the same equations cover internal
// tangency with an enclosing circle.
//
// # Errors
//
// Failures are coded errors from the errors package:
// DEGENERATE_INPUT for non-positive radii or a zero curvature sum, and
// NO_UNIQUE_SOLUTION when the three centers are collinear. All functions are
// pure and safe for concurrent use.
package descartes
