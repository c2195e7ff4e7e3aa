// Package pipeline provides the generate → export pipeline for gasket.
//
// This package implements the complete pipeline that is used by the CLI and
// the HTTP API. By centralizing this logic, both entry points share the same
// defaults, validation and caching behavior.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: Derive the base circles from a seed and fill the gasket
//  2. Export: Serialize the gasket in the requested formats (JSON, DOT)
//
// Each stage is cached independently. The generate stage is keyed by the
// seed (or the RNG inputs for random seeds), depth and policy; the export
// stage is keyed by the hash of the serialized gasket and the format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Points:   []geom.Point{geom.Pt(0, 0), geom.Pt(6, 0), geom.Pt(2, 5)},
//	    MaxDepth: 4,
//	    Policy:   "reflect",
//	    Formats:  []string{"json", "dot"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dot := result.Artifacts["dot"]
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gasket/pkg/cache"
	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/gasket"
	"github.com/matzehuels/gasket/pkg/geom"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultRadius is the half-width of the square random seeds are drawn from.
	DefaultRadius = 10.0

	// DefaultSeed is the default RNG seed for reproducible random gaskets.
	DefaultSeed = uint64(42)
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
//
// MaxDepth has no default: zero is a valid depth that emits only the base
// and Soddy circles. Callers pick their own default.
type Options struct {
	// Seed options. Points and Random are mutually exclusive; with neither
	// set, a random seed is drawn. A zero Seed selects DefaultSeed, so
	// callers taking a seed from users check it with
	// errors.ValidateRNGSeed first.
	Points   []geom.Point `json:"points,omitempty"`
	Random   bool         `json:"random,omitempty"`
	Seed     uint64       `json:"seed,omitempty"`
	Radius   float64      `json:"radius,omitempty"`
	Attempts int          `json:"attempts,omitempty"`

	// Generate options
	MaxDepth   int    `json:"max_depth"`
	Policy     string `json:"policy,omitempty"`
	MaxCircles int    `json:"max_circles,omitempty"`

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	policy    gasket.Policy
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run. It is a fresh UUID for every Execute call,
	// cached or not.
	ID string

	// Gasket is the generated arrangement.
	Gasket *gasket.Gasket

	// Seed holds the three points the base circles were derived from.
	Seed [3]geom.Point

	// Document is the serialized JSON document of the gasket.
	Document []byte

	// GasketHash is the content hash of Document.
	GasketHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Circles      int
	Tangencies   int
	Retries      int
	GenerateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the gasket came from cache
	ExportHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. Empty input yields
// the default format.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatJSON}
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Points) > 0 {
		if o.Random {
			return errors.New(errors.ErrCodeInvalidInput, "seed points and a random seed are mutually exclusive")
		}
		if len(o.Points) != 3 {
			return errors.New(errors.ErrCodeInvalidInput, "need exactly 3 seed points, got %d", len(o.Points))
		}
		for i, p := range o.Points {
			if !p.IsFinite() {
				return errors.New(errors.ErrCodeInvalidInput, "seed point %d is not finite", i)
			}
		}
	} else {
		o.Random = true
	}

	if o.Random {
		if o.Seed == 0 {
			o.Seed = DefaultSeed
		}
		if o.Radius == 0 {
			o.Radius = DefaultRadius
		}
		if !(o.Radius > 0) || math.IsInf(o.Radius, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "seed radius must be positive and finite, got %g", o.Radius)
		}
		if o.Attempts < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "attempts must not be negative, got %d", o.Attempts)
		}
		if o.Attempts == 0 {
			o.Attempts = gasket.DefaultAttempts
		}
	}

	p, err := gasket.ParsePolicy(o.Policy)
	if err != nil {
		return err
	}
	o.policy = p
	o.Policy = p.String()

	if err := o.GasketOptions().Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// GasketOptions returns the generator options.
func (o *Options) GasketOptions() gasket.Options {
	return gasket.Options{
		MaxDepth:   o.MaxDepth,
		Policy:     o.policy,
		MaxCircles: o.MaxCircles,
	}
}

// SeedPoints returns the explicit seed as an array. ok is false for
// random seeds.
func (o *Options) SeedPoints() (seed [3]geom.Point, ok bool) {
	if o.Random || len(o.Points) != 3 {
		return seed, false
	}
	copy(seed[:], o.Points)
	return seed, true
}

// GasketKeyOpts returns cache key options for the generate stage.
func (o *Options) GasketKeyOpts() cache.GasketKeyOpts {
	k := cache.GasketKeyOpts{
		MaxDepth: o.MaxDepth,
		Policy:   o.Policy,
	}
	if seed, ok := o.SeedPoints(); ok {
		for i, p := range seed {
			k.Seed[i] = [2]float64{p.X, p.Y}
		}
		return k
	}
	k.RNGSeed = o.Seed
	k.Radius = o.Radius
	k.Attempts = o.Attempts
	return k
}

// ArtifactKeyOpts returns cache key options for exporting a format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed && format == FormatDOT,
	}
}
