package io

import (
	"math"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/gasket"
	"github.com/matzehuels/gasket/pkg/geom"
)

// FormatVersion is the document version written by this package.
const FormatVersion = 1

// Document is the serialized form of a gasket.
type Document struct {
	Version    int           `json:"version"`
	Policy     gasket.Policy `json:"policy"`
	MaxDepth   int           `json:"max_depth"`
	Seed       []geom.Point  `json:"seed,omitempty"`
	Circles    []Circle      `json:"circles"`
	Tangencies [][2]int      `json:"tangencies"`
}

// Circle is one serialized circle.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Depth  int     `json:"depth"`
}

// NewDocument converts g into a document. seed may be nil.
func NewDocument(g *gasket.Gasket, seed []geom.Point) *Document {
	doc := &Document{
		Version:    FormatVersion,
		Policy:     g.Policy,
		MaxDepth:   g.MaxDepth,
		Seed:       seed,
		Circles:    make([]Circle, len(g.Circles)),
		Tangencies: make([][2]int, len(g.Tangencies)),
	}
	for i, c := range g.Circles {
		doc.Circles[i] = Circle{X: c.Center.X, Y: c.Center.Y, Radius: c.Radius, Depth: c.Depth}
	}
	for i, t := range g.Tangencies {
		doc.Tangencies[i] = [2]int{t.A, t.B}
	}
	return doc
}

// Validate checks the document structure.
func (d *Document) Validate() error {
	if d.Version != FormatVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %d (want %d)", d.Version, FormatVersion)
	}
	if d.MaxDepth < 0 || d.MaxDepth > gasket.MaxDepthLimit {
		return errors.New(errors.ErrCodeInvalidFormat, "max_depth %d out of range", d.MaxDepth)
	}
	if len(d.Seed) != 0 && len(d.Seed) != 3 {
		return errors.New(errors.ErrCodeInvalidFormat, "seed must have 3 points, got %d", len(d.Seed))
	}
	for i, c := range d.Circles {
		if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "circle %d: invalid radius %g", i, c.Radius)
		}
		if c.Depth < 0 || c.Depth > d.MaxDepth {
			return errors.New(errors.ErrCodeInvalidFormat, "circle %d: depth %d out of range [0, %d]", i, c.Depth, d.MaxDepth)
		}
	}
	for i, t := range d.Tangencies {
		if t[0] < 0 || t[0] >= t[1] || t[1] >= len(d.Circles) {
			return errors.New(errors.ErrCodeInvalidFormat, "tangency %d: invalid pair %v", i, t)
		}
	}
	return nil
}

// Gasket converts the document back into a gasket.
func (d *Document) Gasket() (*gasket.Gasket, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	g := &gasket.Gasket{
		Circles:    make([]geom.Circle, len(d.Circles)),
		Tangencies: make([]gasket.Tangency, len(d.Tangencies)),
		MaxDepth:   d.MaxDepth,
		Policy:     d.Policy,
	}
	for i, c := range d.Circles {
		g.Circles[i] = geom.Circle{Center: geom.Pt(c.X, c.Y), Radius: c.Radius, Depth: c.Depth}
	}
	for i, t := range d.Tangencies {
		g.Tangencies[i] = gasket.Tangency{A: t[0], B: t[1]}
	}
	return g, nil
}

// SeedPoints returns the seed as an array, and false when the document has
// no seed.
func (d *Document) SeedPoints() ([3]geom.Point, bool) {
	var seed [3]geom.Point
	if len(d.Seed) != 3 {
		return seed, false
	}
	copy(seed[:], d.Seed)
	return seed, true
}
