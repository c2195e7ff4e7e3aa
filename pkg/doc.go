// Package pkg provides the core libraries for Gasket, an Apollonian gasket
// generator.
//
// # Overview
//
// An Apollonian gasket starts from three mutually tangent circles. Each
// triple of tangent circles has exactly two circles tangent to all three,
// given by Descartes' circle theorem. Repeatedly filling the curvilinear
// triangles between tangent circles yields the gasket. The pkg directory is
// organized into four main areas:
//
//  1. [geom], [descartes] - Geometry and the Descartes solver
//  2. [gasket] - Seed handling and recursive generation
//  3. [io] - JSON documents and Graphviz DOT export
//  4. [pipeline], [cache], [store] - Orchestration, caching and persistence
//
// # Architecture
//
// The typical data flow through Gasket:
//
//	Three seed points (or an RNG seed)
//	         ↓
//	    [gasket] package (base circles + recursion via [descartes])
//	         ↓
//	    [io] package (JSON document, DOT tangency graph)
//	         ↓
//	    [cache] / [store] (reuse and persist results)
//
// # Quick Start
//
// Generate a gasket and serialize it:
//
//	import (
//	    "github.com/matzehuels/gasket/pkg/gasket"
//	    "github.com/matzehuels/gasket/pkg/geom"
//	    pkgio "github.com/matzehuels/gasket/pkg/io"
//	)
//
//	seed := [3]geom.Point{geom.Pt(0, 0), geom.Pt(6, 0), geom.Pt(2, 5)}
//	g, err := gasket.Build(seed, gasket.Options{MaxDepth: 5, Policy: gasket.PolicyOuter})
//	if err != nil {
//	    return err
//	}
//	data, err := pkgio.MarshalGasket(g, seed[:])
//
// # Main Packages
//
// [geom] - Points and signed-radius circles. A negative radius marks the
// enclosing circle of a gasket.
//
// [descartes] - Solves the fourth tangent circle of a triple: radius via the
// curvature form of Descartes' theorem, center via the complex form.
//
// [gasket] - Builds base circles from seed points, recurses with the outer,
// both or reflect policy, and retries degenerate random seeds.
//
// [io] - Versioned JSON documents and DOT export of the tangency graph.
//
// [pipeline] - Generate → export orchestration with caching, used by the CLI
// and the HTTP API so both behave the same.
//
// [cache] - Result caches: null, file, Redis and MongoDB.
//
// [store] - Saved runs: memory, file, Redis and MongoDB.
//
// [config] - TOML configuration shared by the CLI and server.
//
// [errors] - Coded errors (DEGENERATE_INPUT, NO_UNIQUE_SOLUTION, ...) and
// input validators.
//
// [observability] - Hooks for metrics; [observability/prom] backs them with
// Prometheus.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/gasket/...    # Specific package
//	go test -run Example        # Examples only
//
// MongoDB tests run only when GASKET_TEST_MONGO_URI is set.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/geom
// [descartes]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/descartes
// [gasket]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/gasket
// [io]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/gasket/pkg/observability/prom
package pkg
