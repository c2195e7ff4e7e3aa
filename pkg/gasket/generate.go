package gasket

import (
	"fmt"

	"github.com/matzehuels/gasket/pkg/descartes"
	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
)

// Tangency records that the circles at indices A and B of Gasket.Circles are
// tangent by construction. A < B always.
type Tangency struct {
	A, B int
}

// Gasket is the result of a generation.
type Gasket struct {
	// Circles in discovery order: the three base circles, the nested Soddy
	// circle, the enclosing Soddy circle, then recursion output depth-first.
	Circles []geom.Circle

	// Tangencies lists the circle pairs known to touch.
	Tangencies []Tangency

	MaxDepth int
	Policy   Policy
}

// Len returns the number of circles.
func (g *Gasket) Len() int { return len(g.Circles) }

// AtDepth returns the circles tagged with generation level d.
func (g *Gasket) AtDepth(d int) []geom.Circle {
	var out []geom.Circle
	for _, c := range g.Circles {
		if c.Depth == d {
			out = append(out, c)
		}
	}
	return out
}

// node is a circle together with its index in the output.
type node struct {
	c geom.Circle
	i int
}

type generator struct {
	opts Options
	g    *Gasket
}

func (gen *generator) emit(c geom.Circle, level int, tangent ...node) node {
	n := node{c: c.WithDepth(level), i: len(gen.g.Circles)}
	gen.g.Circles = append(gen.g.Circles, n.c)
	for _, t := range tangent {
		gen.g.Tangencies = append(gen.g.Tangencies, Tangency{A: t.i, B: n.i})
	}
	return n
}

// Generate fills the gaps between three mutually tangent circles to
// opts.MaxDepth levels. The base circles must have positive radii; they are
// not checked for tangency.
//
// On any solver failure the error is returned with its code intact and no
// gasket is produced.
func Generate(c1, c2, c3 geom.Circle, opts Options) (*Gasket, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i, c := range [3]geom.Circle{c1, c2, c3} {
		if !c.IsValid() || c.Radius <= 0 {
			return nil, errors.New(errors.ErrCodeDegenerateInput, "base circle %d must have a finite positive radius, got %v", i+1, c)
		}
	}

	nested, err := descartes.SolveCircle(c1, c2, c3, descartes.Outer)
	if err != nil {
		return nil, fmt.Errorf("nested soddy circle: %w", err)
	}
	enclosing, err := descartes.SolveCircle(c1, c2, c3, descartes.Inner)
	if err != nil {
		return nil, fmt.Errorf("enclosing soddy circle: %w", err)
	}

	gen := &generator{
		opts: opts,
		g: &Gasket{
			Circles:    make([]geom.Circle, 0, ExpectedCount(opts.MaxDepth, opts.Policy)),
			Tangencies: make([]Tangency, 0, 3*ExpectedCount(opts.MaxDepth, opts.Policy)),
			MaxDepth:   opts.MaxDepth,
			Policy:     opts.Policy,
		},
	}

	b1 := gen.emit(c1, 0)
	b2 := gen.emit(c2, 0, b1)
	b3 := gen.emit(c3, 0, b1, b2)
	in := gen.emit(nested, 0, b1, b2, b3)
	out := gen.emit(enclosing, 0, b1, b2, b3)

	triples := [6][4]node{
		{b1, b2, in, b3},
		{b1, b2, out, b3},
		{b1, b3, in, b2},
		{b1, b3, out, b2},
		{b2, b3, in, b1},
		{b2, b3, out, b1},
	}
	for _, t := range triples {
		if err := gen.recurse(t[0], t[1], t[2], t[3], opts.MaxDepth); err != nil {
			return nil, err
		}
	}
	return gen.g, nil
}

// recurse fills triple (a, b, c). opp is the other circle tangent to all
// three that is already in the packing; only PolicyReflect reads it.
func (gen *generator) recurse(a, b, c, opp node, depth int) error {
	if depth == 0 {
		return nil
	}
	level := gen.opts.MaxDepth - depth + 1

	switch gen.opts.Policy {
	case PolicyBoth:
		c4, c5, err := descartes.SolveBoth(a.c, b.c, c.c)
		if err != nil {
			return fmt.Errorf("level %d: %w", level, err)
		}
		d := gen.emit(c4, level, a, b, c)
		e := gen.emit(c5, level, a, b, c)
		if err := gen.children(a, b, c, d, depth); err != nil {
			return err
		}
		return gen.children(a, b, c, e, depth)

	case PolicyReflect:
		c4, err := descartes.Reflect(a.c, b.c, c.c, opp.c)
		if err != nil {
			return fmt.Errorf("level %d: %w", level, err)
		}
		return gen.children(a, b, c, gen.emit(c4, level, a, b, c), depth)

	default:
		c4, err := descartes.SolveCircle(a.c, b.c, c.c, descartes.Outer)
		if err != nil {
			return fmt.Errorf("level %d: %w", level, err)
		}
		return gen.children(a, b, c, gen.emit(c4, level, a, b, c), depth)
	}
}

// children recurses on the three triples formed by d and two members of
// (a, b, c). The member d replaces is the new triple's opposite circle.
func (gen *generator) children(a, b, c, d node, depth int) error {
	if err := gen.recurse(a, b, d, c, depth-1); err != nil {
		return err
	}
	if err := gen.recurse(a, d, c, b, depth-1); err != nil {
		return err
	}
	return gen.recurse(d, b, c, a, depth-1)
}

// Build derives base circles from seed and generates a gasket from them.
func Build(seed [3]geom.Point, opts Options) (*Gasket, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c1, c2, c3, err := BaseCircles(seed)
	if err != nil {
		return nil, err
	}
	return Generate(c1, c2, c3, opts)
}
