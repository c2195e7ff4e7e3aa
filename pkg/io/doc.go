// Package io provides JSON import and export for gaskets and a Graphviz DOT
// view of their tangency graph.
//
// # JSON Format
//
// A gasket is stored as a versioned document:
//
//	{
//	  "version": 1,
//	  "policy": "outer",
//	  "max_depth": 2,
//	  "seed": [{"x": 0, "y": 0}, {"x": 6, "y": 0}, {"x": 2, "y": 5}],
//	  "circles": [
//	    {"x": 0, "y": 0, "radius": 2.49, "depth": 0},
//	    ...
//	  ],
//	  "tangencies": [[0, 1], [0, 2], ...]
//	}
//
// Circles appear in discovery order. Radii are signed: the enclosing Soddy
// circle has a negative radius. Each tangency is a pair of indices into
// circles with the smaller index first. The seed is omitted for gaskets
// generated from explicit circles.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the version, every circle and every
// tangency index, failing with INVALID_FORMAT. Convert a document back to a
// gasket with [Document.Gasket].
//
// # Export
//
// Use [ExportJSON] to write a document to a file, [WriteJSON] to write to any
// io.Writer, or [MarshalGasket] for bytes. Output is indented and
// deterministic for a given gasket, so it can be hashed for cache keys.
//
// # DOT
//
// [ToDOT] emits an undirected graph with one node per circle and one edge
// per tangency. [ValidateDOT] parses DOT source with Graphviz to check that
// it is well formed. Neither function lays out or draws anything.
package io
