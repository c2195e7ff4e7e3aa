package gasket

import "math"

// Stats summarizes a gasket.
type Stats struct {
	Circles    int
	Tangencies int
	// ByDepth[d] is the number of circles tagged with level d.
	ByDepth   []int
	Enclosing int
	// MinSize and MaxSize are absolute radii.
	MinSize     float64
	MaxSize     float64
	MaxResidual float64
}

// Stats computes summary statistics over all circles and tangencies.
func (g *Gasket) Stats() Stats {
	s := Stats{
		Circles:     len(g.Circles),
		Tangencies:  len(g.Tangencies),
		MaxResidual: g.MaxResidual(),
	}
	if len(g.Circles) == 0 {
		return s
	}

	s.MinSize = math.Inf(1)
	for _, c := range g.Circles {
		for c.Depth >= len(s.ByDepth) {
			s.ByDepth = append(s.ByDepth, 0)
		}
		s.ByDepth[c.Depth]++
		if c.Encloses() {
			s.Enclosing++
		}
		s.MinSize = math.Min(s.MinSize, c.Size())
		s.MaxSize = math.Max(s.MaxSize, c.Size())
	}
	return s
}

// MaxResidual returns the largest relative tangency residual over all
// recorded tangencies. It is zero for a gasket without tangencies.
func (g *Gasket) MaxResidual() float64 {
	var worst float64
	for _, t := range g.Tangencies {
		if t.A < 0 || t.B < 0 || t.A >= len(g.Circles) || t.B >= len(g.Circles) {
			return math.Inf(1)
		}
		worst = math.Max(worst, g.Circles[t.A].TangencyResidual(g.Circles[t.B]))
	}
	return worst
}
