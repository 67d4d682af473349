package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/syntree/pkg/cache"
	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeScene    = "scene"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
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

// Execute runs the complete replay → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Replay
	replayStart := time.Now()
	sc, replayHit, err := r.ReplayWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	result.Scene = sc
	result.Stats.ReplayTime = time.Since(replayStart)
	result.Stats.TileCount = len(sc.Tiles)
	result.Stats.LineCount = len(sc.Lines)
	result.CacheInfo.ReplayHit = replayHit

	if data, err := sc.MarshalBinary(); err == nil {
		result.SceneHash = cache.Hash(data)
	}

	r.Logger.Info("replayed script",
		"tiles", result.Stats.TileCount,
		"lines", result.Stats.LineCount,
		"cached", replayHit,
		"duration", result.Stats.ReplayTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ReplayWithCacheInfo replays the script with caching and returns cache hit info.
func (r *Runner) ReplayWithCacheInfo(ctx context.Context, opts Options) (editor.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForReplay(); err != nil {
		return editor.Scene{}, false, err
	}

	cacheKey := r.Keyer.SceneKey(cache.ScriptHash(opts.ScriptData), opts.SceneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var sc editor.Scene
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &sc); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeScene)
			return sc, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeScene)
	}

	sc, _, err := Replay(ctx, opts)
	if err != nil {
		return editor.Scene{}, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, cacheKey, sc, cache.TTLScene); err != nil {
		r.Logger.Warn("cache scene", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeScene, len(sc.Tiles))
	}

	return sc, false, nil
}

// Replay is a convenience wrapper that calls ReplayWithCacheInfo and discards the cache hit info.
func (r *Runner) Replay(ctx context.Context, opts Options) (editor.Scene, error) {
	sc, _, err := r.ReplayWithCacheInfo(ctx, opts)
	return sc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc editor.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	sceneData, err := sc.MarshalBinary()
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			break
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(sc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.artifactTTL()); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc editor.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
