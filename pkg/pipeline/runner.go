package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skao-tools/arraymodel/pkg/cache"
	"github.com/skao-tools/arraymodel/pkg/datafile"
	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/export"
	"github.com/skao-tools/arraymodel/pkg/plot"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it does not store
// pipeline results, so multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer gets the DefaultKeyer; a nil cache disables caching.
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

// Result contains the outputs of a pipeline run.
type Result struct {
	// Array is the fetched station catalog.
	Array *telescope.Array

	// Layout is the generated layout.
	Layout *telescope.Layout

	// ModelDir is the model directory path, set when the "model" format
	// was requested.
	ModelDir string

	// Artifacts contains serialized outputs keyed by format ("json",
	// "svg", "png"); the "model" format writes a directory instead.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StationCount int
	AntennaCount int
	FetchTime    time.Duration
	GenerateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit bool // Whether the catalog came from cache
}

// Execute runs the complete fetch → generate → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	arr, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Array = arr
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.FetchHit = fetchHit

	r.Logger.Info("fetched station catalog",
		"telescope", opts.Telescope,
		"stations", len(arr.Stations),
		"cached", fetchHit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Generate
	generateStart := time.Now()
	layout, err := r.Generate(arr, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.GenerateTime = time.Since(generateStart)
	result.Stats.StationCount = layout.StationCount()
	result.Stats.AntennaCount = layout.AntennaCount()

	r.Logger.Info("generated layout",
		"stations", layout.StationCount(),
		"antennas_per_station", layout.AntennaCount(),
		"feed_angles", layout.FeedAngles,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Export
	exportStart := time.Now()
	if err := r.Export(layout, opts, result); err != nil {
		return nil, err
	}
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// FetchWithCacheInfo resolves the station catalog with caching and reports
// whether the result came from the cache.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (*telescope.Array, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.CatalogKey(opts.Telescope.String(), cache.CatalogKeyOpts{
		BaseURL: providerBaseURL(opts),
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var arr telescope.Array
			if err := json.Unmarshal(data, &arr); err == nil {
				arr.Telescope = opts.Telescope
				return &arr, true, nil
			}
			// Corrupt entry: fall through to refetch.
		}
	}

	arr, err := opts.Provider.Array(ctx, opts.Telescope)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(arr); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLCatalog)
	}

	return arr, false, nil
}

// Fetch is a convenience wrapper that discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (*telescope.Array, error) {
	arr, _, err := r.FetchWithCacheInfo(ctx, opts)
	return arr, err
}

// Generate loads the antenna template and rotation table and produces the
// layout for the fetched array. Generation is pure computation and fast, so
// it is never cached.
func (r *Runner) Generate(arr *telescope.Array, opts Options) (*telescope.Layout, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}

	tmpl, err := datafile.ReadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	rot, err := datafile.ReadRotations(opts.RotationsPath)
	if err != nil {
		return nil, err
	}

	return telescope.Generate(arr, tmpl, rot, opts.GenerateOptions())
}

// Export writes the requested formats, filling ModelDir and Artifacts on
// the result.
func (r *Runner) Export(layout *telescope.Layout, opts Options, result *Result) error {
	if err := opts.ValidateForExport(); err != nil {
		return err
	}
	if result.Artifacts == nil {
		result.Artifacts = make(map[string][]byte)
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatModel:
			if err := export.WriteModel(layout, opts.OutputDir); err != nil {
				return err
			}
			result.ModelDir = opts.OutputDir
		case FormatJSON:
			data, err := export.MarshalLayout(layout)
			if err != nil {
				return err
			}
			result.Artifacts[FormatJSON] = data
		case FormatSVG:
			result.Artifacts[FormatSVG] = plot.RenderSVG(layout, plot.WithPanels(opts.Panels))
		case FormatPNG:
			data, err := plot.RenderPNG(layout, plot.WithPanels(opts.Panels))
			if err != nil {
				return err
			}
			result.Artifacts[FormatPNG] = data
		}
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// providerBaseURL keys cached catalogs by endpoint so switching catalog
// services never serves another service's entries. Providers without an
// endpoint (the offline file provider) share the empty key; the CLI runs
// those without a cache.
func providerBaseURL(opts Options) string {
	if b, ok := opts.Provider.(interface{ BaseURL() string }); ok {
		return b.BaseURL()
	}
	return ""
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
