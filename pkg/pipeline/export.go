package pipeline

import (
	"fmt"

	"github.com/matzehuels/gasket/pkg/gasket"
	pkgio "github.com/matzehuels/gasket/pkg/io"
)

// Export serializes g in the requested formats. document is the JSON
// document of g, reused as the "json" artifact.
func Export(g *gasket.Gasket, document []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			artifacts[format] = document
		case FormatDOT:
			dot := pkgio.ToDOT(g, pkgio.DOTOptions{Detailed: opts.Detailed})
			artifacts[format] = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
	}

	return artifacts, nil
}
