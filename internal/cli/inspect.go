package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gasket/pkg/gasket"
	pkgio "github.com/matzehuels/gasket/pkg/io"
)

// residualWarning is the max residual above which inspect flags a document
// as numerically suspect.
const residualWarning = 1e-6

// inspectCommand creates the inspect command for summarizing a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var checkDOT bool

	cmd := &cobra.Command{
		Use:   "inspect [gasket.json]",
		Short: "Summarize a gasket document",
		Long: `Summarize a gasket document written by 'gasket generate'.

Prints the policy and depth the gasket was generated with, circle counts per
depth, the range of radii and the largest tangency residual. With
--check-dot the tangency graph is also exported to DOT and parsed with
Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], checkDOT)
		},
	}

	cmd.Flags().BoolVar(&checkDOT, "check-dot", false, "verify the DOT export parses with Graphviz")

	return cmd
}

// inspection is what inspect reports about a document.
type inspection struct {
	Policy   gasket.Policy
	MaxDepth int
	Seeded   bool
	Stats    gasket.Stats
}

// inspectDocument rebuilds the gasket held by doc and computes its stats.
func inspectDocument(doc *pkgio.Document) (*gasket.Gasket, inspection, error) {
	g, err := doc.Gasket()
	if err != nil {
		return nil, inspection{}, err
	}
	return g, inspection{
		Policy:   doc.Policy,
		MaxDepth: doc.MaxDepth,
		Seeded:   len(doc.Seed) == 3,
		Stats:    g.Stats(),
	}, nil
}

func (c *CLI) runInspect(ctx context.Context, path string, checkDOT bool) error {
	logger := loggerFromContext(ctx)

	doc, err := pkgio.ImportJSON(path)
	if err != nil {
		return err
	}
	g, info, err := inspectDocument(doc)
	if err != nil {
		return err
	}
	logger.Debug("loaded document", "path", path, "circles", info.Stats.Circles)

	s := info.Stats
	fmt.Println(StyleTitle.Render(path))
	printKeyValue("policy", info.Policy.String())
	printKeyValue("max depth", strconv.Itoa(info.MaxDepth))
	printKeyValue("circles", strconv.Itoa(s.Circles))
	printKeyValue("tangencies", strconv.Itoa(s.Tangencies))
	printKeyValue("enclosing", strconv.Itoa(s.Enclosing))
	if s.Circles > 0 {
		printKeyValue("radii", fmt.Sprintf("%.6g .. %.6g", s.MinSize, s.MaxSize))
	}
	printKeyValue("residual", fmt.Sprintf("%.3g", s.MaxResidual))
	if !info.Seeded {
		printDetail("no seed points recorded")
	}

	printNewline()
	for d, n := range s.ByDepth {
		printKeyValue("depth "+strconv.Itoa(d), StyleNumber.Render(strconv.Itoa(n)))
	}

	if s.MaxResidual > residualWarning {
		printNewline()
		printWarning("max tangency residual %.3g exceeds %.0e", s.MaxResidual, residualWarning)
	}

	if checkDOT {
		dot := pkgio.ToDOT(g, pkgio.DOTOptions{})
		if err := pkgio.ValidateDOT(ctx, []byte(dot)); err != nil {
			printError("DOT export does not parse")
			return err
		}
		printNewline()
		printSuccess("DOT export parses (%d bytes)", len(dot))
	}
	return nil
}
