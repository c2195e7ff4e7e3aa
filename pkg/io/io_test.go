package io

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/gasket"
	"github.com/matzehuels/gasket/pkg/geom"
)

var testSeed = [3]geom.Point{geom.Pt(0, 0), geom.Pt(6, 0), geom.Pt(2, 5)}

func buildTestGasket(t *testing.T, depth int) *gasket.Gasket {
	t.Helper()
	g, err := gasket.Build(testSeed, gasket.Options{MaxDepth: depth, Policy: gasket.PolicyReflect})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func TestJSONRoundTrip(t *testing.T) {
	g := buildTestGasket(t, 2)

	data, err := MarshalGasket(g, testSeed[:])
	if err != nil {
		t.Fatalf("MarshalGasket() error: %v", err)
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error: %v", err)
	}
	back, err := doc.Gasket()
	if err != nil {
		t.Fatalf("Gasket() error: %v", err)
	}

	if back.Len() != g.Len() || len(back.Tangencies) != len(g.Tangencies) {
		t.Fatalf("round trip size = (%d, %d), want (%d, %d)",
			back.Len(), len(back.Tangencies), g.Len(), len(g.Tangencies))
	}
	for i := range g.Circles {
		if back.Circles[i] != g.Circles[i] {
			t.Errorf("circle %d = %v, want %v", i, back.Circles[i], g.Circles[i])
		}
	}
	if back.Policy != gasket.PolicyReflect || back.MaxDepth != 2 {
		t.Errorf("metadata = (%s, %d)", back.Policy, back.MaxDepth)
	}
	seed, ok := doc.SeedPoints()
	if !ok || seed != testSeed {
		t.Errorf("SeedPoints() = %v, %v", seed, ok)
	}
}

func TestWriteJSONFields(t *testing.T) {
	g := buildTestGasket(t, 0)
	var buf bytes.Buffer
	if err := WriteJSON(NewDocument(g, nil), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"version": 1`, `"policy": "reflect"`, `"max_depth": 0`, `"radius"`, `"tangencies"`} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteJSON() output missing %s", want)
		}
	}
	if strings.Contains(out, `"seed"`) {
		t.Error("WriteJSON() should omit an empty seed")
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"version":`},
		{"wrong version", `{"version":2,"policy":"outer","max_depth":0,"circles":[],"tangencies":[]}`},
		{"unknown policy", `{"version":1,"policy":"spiral","max_depth":0,"circles":[],"tangencies":[]}`},
		{"zero radius", `{"version":1,"policy":"outer","max_depth":0,"circles":[{"x":0,"y":0,"radius":0,"depth":0}],"tangencies":[]}`},
		{"depth above max", `{"version":1,"policy":"outer","max_depth":0,"circles":[{"x":0,"y":0,"radius":1,"depth":1}],"tangencies":[]}`},
		{"dangling tangency", `{"version":1,"policy":"outer","max_depth":0,"circles":[{"x":0,"y":0,"radius":1,"depth":0}],"tangencies":[[0,1]]}`},
		{"unordered tangency", `{"version":1,"policy":"outer","max_depth":0,"circles":[{"x":0,"y":0,"radius":1,"depth":0},{"x":2,"y":0,"radius":1,"depth":0}],"tangencies":[[1,0]]}`},
		{"short seed", `{"version":1,"policy":"outer","max_depth":0,"seed":[{"x":0,"y":0}],"circles":[],"tangencies":[]}`},
		{"unknown field", `{"version":1,"policy":"outer","max_depth":0,"circles":[],"tangencies":[],"extra":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadJSON() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	g := buildTestGasket(t, 1)
	path := filepath.Join(t.TempDir(), "gasket.json")

	if err := ExportJSON(NewDocument(g, testSeed[:]), path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	doc, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if len(doc.Circles) != g.Len() {
		t.Errorf("ImportJSON() circles = %d, want %d", len(doc.Circles), g.Len())
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportJSON(missing) error = %v, want not-exist", err)
	}
}

func TestToDOT(t *testing.T) {
	g := buildTestGasket(t, 1)
	dot := ToDOT(g, DOTOptions{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() tangency graph must be undirected")
	}
	if got := strings.Count(dot, " -- "); got != len(g.Tangencies) {
		t.Errorf("ToDOT() edges = %d, want %d", got, len(g.Tangencies))
	}
	if !strings.Contains(dot, "c0 -- c1;") {
		t.Error("ToDOT() output missing base tangency c0 -- c1")
	}
	if !strings.Contains(dot, "style=dashed") {
		t.Error("ToDOT() output should mark the enclosing circle dashed")
	}
	if strings.Contains(dot, "\\n(") {
		t.Error("ToDOT() non-detailed labels should not include centers")
	}

	detailed := ToDOT(g, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "\\n(") {
		t.Error("ToDOT() detailed labels should include centers")
	}
}

func TestValidateDOT(t *testing.T) {
	ctx := context.Background()
	g := buildTestGasket(t, 1)

	if err := ValidateDOT(ctx, []byte(ToDOT(g, DOTOptions{Detailed: true}))); err != nil {
		t.Errorf("ValidateDOT(ToDOT) error: %v", err)
	}
	if err := ValidateDOT(ctx, []byte("graph G { c0 -- ")); err == nil {
		t.Error("ValidateDOT() should reject truncated input")
	}
}
