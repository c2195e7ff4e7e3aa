package io

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/gasket"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Detailed adds center coordinates to node labels.
	Detailed bool
}

// ToDOT converts the tangency graph of g to Graphviz DOT source. Nodes are
// named c0, c1, ... in discovery order and carry their depth and signed
// radius. Enclosing circles are drawn dashed.
func ToDOT(g *gasket.Gasket, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("policy=%s depth=%d", g.Policy, g.MaxDepth))
	buf.WriteString("  node [shape=circle, fontsize=10];\n")
	buf.WriteString("\n")

	for i, c := range g.Circles {
		label := fmt.Sprintf("d%d r=%.4g", c.Depth, c.Radius)
		if opts.Detailed {
			label += fmt.Sprintf("\n(%.4g, %.4g)", c.Center.X, c.Center.Y)
		}
		attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("depth=%d", c.Depth)}
		if c.Encloses() {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  c%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, t := range g.Tangencies {
		fmt.Fprintf(&buf, "  c%d -- c%d;\n", t.A, t.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ValidateDOT parses dot with Graphviz and reports INVALID_FORMAT if it is
// not well-formed DOT.
func ValidateDOT(ctx context.Context, dot []byte) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	return g.Close()
}
