package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gasket/pkg/cache"
	"github.com/matzehuels/gasket/pkg/gasket"
	pkgio "github.com/matzehuels/gasket/pkg/io"
	"github.com/matzehuels/gasket/pkg/observability"
	"github.com/matzehuels/gasket/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	genStart := time.Now()
	gen, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Gasket = gen.Gasket
	result.Seed = gen.Seed
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Circles = gen.Gasket.Len()
	result.Stats.Tangencies = len(gen.Gasket.Tangencies)
	result.Stats.Retries = gen.Retries
	result.CacheInfo.GenerateHit = genHit

	document, err := pkgio.MarshalGasket(gen.Gasket, gen.Seed[:])
	if err != nil {
		return nil, fmt.Errorf("serialize gasket: %w", err)
	}
	result.Document = document
	result.GasketHash = cache.Hash(document)

	r.Logger.Info("generated gasket",
		"circles", result.Stats.Circles,
		"depth", opts.MaxDepth,
		"policy", opts.Policy,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, gen.Gasket, document, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Debug("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// GenerateWithCacheInfo builds the gasket with caching and returns cache hit info.
// The cached value is the gasket's JSON document.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*Generated, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Policy, opts.MaxDepth)
	start := time.Now()

	cacheKey := r.Keyer.GasketKey(opts.GasketKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if gen, ok := r.cachedGasket(ctx, cacheKey); ok {
			hooks.OnGenerateComplete(ctx, opts.Policy, opts.MaxDepth, gen.Gasket.Len(), time.Since(start), nil)
			return gen, true, nil
		}
	}

	gen, err := Generate(ctx, opts)
	if err != nil {
		hooks.OnGenerateComplete(ctx, opts.Policy, opts.MaxDepth, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnGenerateComplete(ctx, opts.Policy, opts.MaxDepth, gen.Gasket.Len(), time.Since(start), nil)

	if data, err := pkgio.MarshalGasket(gen.Gasket, gen.Seed[:]); err == nil {
		r.cacheSet(ctx, "gasket", cacheKey, data, cache.TTLGasket)
	}

	return gen, false, nil
}

// cachedGasket decodes a cached document. Entries that fail to decode are
// treated as misses.
func (r *Runner) cachedGasket(ctx context.Context, key string) (*Generated, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "gasket")
		return nil, false
	}

	doc, err := pkgio.UnmarshalDocument(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "gasket")
		return nil, false
	}
	g, err := doc.Gasket()
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "gasket")
		return nil, false
	}
	seed, ok := doc.SeedPoints()
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "gasket")
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, "gasket")
	return &Generated{Gasket: g, Seed: seed}, true
}

// ExportWithCacheInfo exports artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, g *gasket.Gasket, document []byte, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()

	gasketHash := cache.Hash(document)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(gasketHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	exported, err := Export(g, document, opts)
	if err != nil {
		hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), nil)

	for format, data := range exported {
		cacheKey := r.Keyer.ArtifactKey(gasketHash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
	}

	return exported, false, nil
}

// cacheSet writes a cache entry. Write failures are logged, not returned.
func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Run converts the result into a storable run.
func (res *Result) Run() *store.Run {
	seed := res.Seed
	return store.NewRun(res.ID, res.Document, store.Summary{
		Policy:   res.Gasket.Policy.String(),
		MaxDepth: res.Gasket.MaxDepth,
		Circles:  res.Gasket.Len(),
		Seed:     seed[:],
	})
}
