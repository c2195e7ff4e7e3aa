package gasket

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
)

// asymmetric avoids the collinear triples a mirror-symmetric seed produces.
var asymmetric = [3]geom.Point{geom.Pt(0, 0), geom.Pt(6, 0), geom.Pt(2, 5)}

func TestBaseCircles(t *testing.T) {
	c1, c2, c3, err := BaseCircles([3]geom.Point{geom.Pt(-3, 0), geom.Pt(3, 0), geom.Pt(0, 4)})
	if err != nil {
		t.Fatalf("BaseCircles() error: %v", err)
	}
	want := [3]float64{3, 3, 2}
	for i, c := range []geom.Circle{c1, c2, c3} {
		if math.Abs(c.Radius-want[i]) > 1e-12 {
			t.Errorf("r%d = %v, want %v", i+1, c.Radius, want[i])
		}
	}
}

func TestBaseCirclesSumConsistent(t *testing.T) {
	rng := NewRand(1)
	for i := 0; i < 100; i++ {
		seed := RandomSeed(rng, 10)
		c1, c2, c3, err := BaseCircles(seed)
		if errors.Is(err, errors.ErrCodeInvalidSeed) {
			continue
		}
		if err != nil {
			t.Fatalf("BaseCircles() error: %v", err)
		}
		pairs := []struct {
			a, b geom.Circle
		}{{c1, c2}, {c1, c3}, {c2, c3}}
		for _, p := range pairs {
			if p.a.Radius <= 0 {
				t.Fatalf("non-positive radius %v", p.a.Radius)
			}
			d := p.a.Center.Dist(p.b.Center)
			if math.Abs(p.a.Radius+p.b.Radius-d) > 1e-9*d {
				t.Errorf("r_a + r_b = %v, want distance %v", p.a.Radius+p.b.Radius, d)
			}
		}
	}
}

func TestBaseCirclesInvalid(t *testing.T) {
	tests := []struct {
		name string
		seed [3]geom.Point
	}{
		{"collinear", [3]geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(4, 0)}},
		{"coincident", [3]geom.Point{geom.Pt(1, 1), geom.Pt(1, 1), geom.Pt(1, 1)}},
		{"two equal", [3]geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(3, 4)}},
		{"nan", [3]geom.Point{geom.Pt(math.NaN(), 0), geom.Pt(2, 0), geom.Pt(0, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := BaseCircles(tt.seed)
			if !errors.Is(err, errors.ErrCodeInvalidSeed) {
				t.Errorf("BaseCircles() error = %v, want %s", err, errors.ErrCodeInvalidSeed)
			}
		})
	}
}

func TestExpectedCount(t *testing.T) {
	tests := []struct {
		n    int
		p    Policy
		want int
	}{
		{0, PolicyOuter, 5},
		{1, PolicyOuter, 11},
		{2, PolicyOuter, 29},
		{3, PolicyOuter, 83},
		{3, PolicyReflect, 83},
		{0, PolicyBoth, 5},
		{1, PolicyBoth, 17},
		{2, PolicyBoth, 89},
		{3, PolicyBoth, 521},
		{-1, PolicyOuter, -1},
	}
	for _, tt := range tests {
		if got := ExpectedCount(tt.n, tt.p); got != tt.want {
			t.Errorf("ExpectedCount(%d, %s) = %d, want %d", tt.n, tt.p, got, tt.want)
		}
	}
}

func TestGenerateCounts(t *testing.T) {
	for _, p := range []Policy{PolicyOuter, PolicyBoth, PolicyReflect} {
		for n := 0; n <= 3; n++ {
			g, err := Build(asymmetric, Options{MaxDepth: n, Policy: p})
			if err != nil {
				t.Fatalf("Build(depth=%d, %s) error: %v", n, p, err)
			}
			if got, want := g.Len(), ExpectedCount(n, p); got != want {
				t.Errorf("Build(depth=%d, %s) = %d circles, want %d", n, p, got, want)
			}
			if got, want := len(g.Tangencies), 9+3*(g.Len()-5); got != want {
				t.Errorf("Build(depth=%d, %s) = %d tangencies, want %d", n, p, got, want)
			}
			if g.MaxDepth != n || g.Policy != p {
				t.Errorf("gasket metadata = (%d, %s), want (%d, %s)", g.MaxDepth, g.Policy, n, p)
			}
		}
	}
}

func TestGenerateDepthZero(t *testing.T) {
	g, err := Build(asymmetric, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if g.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", g.Len())
	}
	for i, c := range g.Circles {
		if c.Depth != 0 {
			t.Errorf("circle %d depth = %d, want 0", i, c.Depth)
		}
	}
	if g.Circles[3].Radius <= 0 {
		t.Errorf("nested soddy radius = %v, want positive", g.Circles[3].Radius)
	}
	if g.Circles[4].Radius >= 0 {
		t.Errorf("enclosing soddy radius = %v, want negative", g.Circles[4].Radius)
	}
}

func TestGenerateDepthTags(t *testing.T) {
	g, err := Build(asymmetric, Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	s := g.Stats()
	want := []int{5, 6, 18}
	if len(s.ByDepth) != len(want) {
		t.Fatalf("ByDepth = %v, want %v", s.ByDepth, want)
	}
	for d := range want {
		if s.ByDepth[d] != want[d] {
			t.Errorf("ByDepth[%d] = %d, want %d", d, s.ByDepth[d], want[d])
		}
		if len(g.AtDepth(d)) != want[d] {
			t.Errorf("AtDepth(%d) = %d circles, want %d", d, len(g.AtDepth(d)), want[d])
		}
	}
	// The first recursion circle fills the gap of (c1, c2, nested).
	if g.Circles[5].Depth != 1 || g.Circles[6].Depth != 2 {
		t.Errorf("discovery order depths = %d, %d, want 1, 2", g.Circles[5].Depth, g.Circles[6].Depth)
	}

	// remaining-stage tags: base and Soddy circles at MaxDepth, deepest at 0
	for i, c := range g.Circles {
		stage := 2 - c.Depth
		if stage < 0 || stage > 2 || (i < 5 && stage != 2) {
			t.Errorf("circle %d stage = %d", i, stage)
		}
	}
}

func TestGenerateTangent(t *testing.T) {
	for _, p := range []Policy{PolicyOuter, PolicyBoth, PolicyReflect} {
		g, err := Build(asymmetric, Options{MaxDepth: 3, Policy: p})
		if err != nil {
			t.Fatalf("Build(%s) error: %v", p, err)
		}
		if res := g.MaxResidual(); res > 1e-9 {
			t.Errorf("Build(%s) max residual = %g", p, res)
		}
		for i, c := range g.Circles {
			if !c.IsValid() {
				t.Errorf("Build(%s) circle %d invalid: %v", p, i, c)
			}
		}
	}
}

func TestGenerateReflectDistinct(t *testing.T) {
	g, err := Build(asymmetric, Options{MaxDepth: 3, Policy: PolicyReflect})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	for i := range g.Circles {
		for j := i + 1; j < len(g.Circles); j++ {
			a, b := g.Circles[i], g.Circles[j]
			if a.Center.Dist(b.Center)+math.Abs(a.Radius-b.Radius) < 1e-9 {
				t.Fatalf("circles %d and %d coincide: %v", i, j, a)
			}
		}
	}
}

func TestGenerateSymmetricSeedFails(t *testing.T) {
	seed := [3]geom.Point{geom.Pt(-3, 0), geom.Pt(3, 0), geom.Pt(0, 4)}

	g, err := Build(seed, Options{MaxDepth: 0})
	if err != nil {
		t.Fatalf("Build(depth=0) error: %v", err)
	}
	if math.Abs(g.Circles[3].Radius-0.4) > 1e-12 || math.Abs(g.Circles[4].Radius+6) > 1e-12 {
		t.Errorf("soddy radii = %v, %v, want 0.4, -6", g.Circles[3].Radius, g.Circles[4].Radius)
	}

	g, err = Build(seed, Options{MaxDepth: 1})
	if !errors.Is(err, errors.ErrCodeNoUniqueSolution) {
		t.Errorf("Build(depth=1) error = %v, want %s", err, errors.ErrCodeNoUniqueSolution)
	}
	if g != nil {
		t.Errorf("Build(depth=1) returned a partial gasket with %d circles", g.Len())
	}
}

func TestGenerateInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative depth", Options{MaxDepth: -1}, errors.ErrCodeInvalidDepth},
		{"depth above limit", Options{MaxDepth: MaxDepthLimit + 1}, errors.ErrCodeInvalidDepth},
		{"count above limit", Options{MaxDepth: 3, MaxCircles: 10}, errors.ErrCodeInvalidDepth},
		{"both at limit", Options{MaxDepth: MaxDepthLimit, Policy: PolicyBoth}, errors.ErrCodeInvalidDepth},
		{"unknown policy", Options{Policy: Policy(9)}, errors.ErrCodeInvalidPolicy},
		{"negative max circles", Options{MaxCircles: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(asymmetric, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGenerateInvalidBase(t *testing.T) {
	c := geom.NewCircle(geom.Pt(0, 0), 1)
	_, err := Generate(c, geom.NewCircle(geom.Pt(2, 0), 0), c, Options{})
	if !errors.Is(err, errors.ErrCodeDegenerateInput) {
		t.Errorf("Generate() error = %v, want %s", err, errors.ErrCodeDegenerateInput)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyOuter, false},
		{"outer", PolicyOuter, false},
		{"BOTH", PolicyBoth, false},
		{" reflect ", PolicyReflect, false},
		{"inner", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	var p Policy
	if err := p.UnmarshalText([]byte("reflect")); err != nil || p != PolicyReflect {
		t.Errorf("UnmarshalText() = %s, %v", p, err)
	}
	if b, err := PolicyBoth.MarshalText(); err != nil || string(b) != "both" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
	if _, err := Policy(9).MarshalText(); err == nil {
		t.Error("MarshalText() of unknown policy should fail")
	}
}

func TestGenerateWithRetry(t *testing.T) {
	g, seed, err := GenerateWithRetry(context.Background(), NewRand(42), 10, 0, Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("GenerateWithRetry() error: %v", err)
	}
	if g.Len() != ExpectedCount(2, PolicyOuter) {
		t.Errorf("Len() = %d, want %d", g.Len(), ExpectedCount(2, PolicyOuter))
	}
	for i, p := range seed {
		if g.Circles[i].Center != p {
			t.Errorf("base circle %d center = %v, want seed %v", i, g.Circles[i].Center, p)
		}
		if math.Abs(p.X) > 10 || math.Abs(p.Y) > 10 {
			t.Errorf("seed point %v outside radius", p)
		}
	}

	again, seed2, err := GenerateWithRetry(context.Background(), NewRand(42), 10, 0, Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("GenerateWithRetry() second run error: %v", err)
	}
	if seed2 != seed || again.Len() != g.Len() {
		t.Error("same rng seed should reproduce the same gasket")
	}
}

func TestGenerateWithRetryFuncSuccessSkipsCallback(t *testing.T) {
	calls := 0
	_, _, err := GenerateWithRetryFunc(context.Background(), NewRand(42), 10, 0, Options{MaxDepth: 1},
		func(int, error) { calls++ })
	if err != nil {
		t.Fatalf("GenerateWithRetryFunc() error: %v", err)
	}
	if calls != 0 {
		t.Errorf("onRetry called %d times for a usable first seed", calls)
	}
}

func TestGenerateWithRetryErrors(t *testing.T) {
	ctx := context.Background()

	if _, _, err := GenerateWithRetry(ctx, NewRand(1), 10, 3, Options{MaxDepth: -1}); !errors.Is(err, errors.ErrCodeInvalidDepth) {
		t.Errorf("invalid depth: error = %v", err)
	}
	if _, _, err := GenerateWithRetry(ctx, NewRand(1), 0, 3, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero radius: error = %v", err)
	}
	if _, _, err := GenerateWithRetry(ctx, NewRand(1), 10, -1, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative attempts: error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := GenerateWithRetry(cancelled, NewRand(1), 10, 3, Options{}); !stderrors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: error = %v, want context.Canceled", err)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := (&Gasket{}).Stats()
	if s.Circles != 0 || s.MaxResidual != 0 || s.ByDepth != nil {
		t.Errorf("Stats() of empty gasket = %+v", s)
	}
}

func TestStats(t *testing.T) {
	g, err := Build(asymmetric, Options{MaxDepth: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	s := g.Stats()
	if s.Circles != 11 || s.Enclosing != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.MaxSize != g.Circles[4].Size() {
		t.Errorf("MaxSize = %v, want enclosing size %v", s.MaxSize, g.Circles[4].Size())
	}
	if s.MinSize <= 0 || s.MinSize >= s.MaxSize {
		t.Errorf("MinSize = %v out of range", s.MinSize)
	}
}
