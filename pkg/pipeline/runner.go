package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/errors"
	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/observability"
	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; concurrent identical layouts are computed
// once.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	flight singleflight.Group
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

// Execute runs layout → render with caching.
func (r *Runner) Execute(ctx context.Context, elems []transmission.Element, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{Elements: len(elems)}}

	layoutStart := time.Now()
	sc, hit, err := r.LayoutWithCacheInfo(ctx, elems, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = sc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placements = len(sc.Placements)
	result.Stats.Callouts = len(sc.Callouts)
	result.Stats.Overlaps = len(sc.Overlaps)
	result.CacheInfo.LayoutHit = hit
	if h, err := cache.HashJSON(elems); err == nil {
		result.DefinitionHash = h
	}

	r.Logger.Info("computed layout",
		"placements", len(sc.Placements),
		"callouts", len(sc.Callouts),
		"overlaps", len(sc.Overlaps),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, err
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

// =============================================================================
// Layout
// =============================================================================

// LayoutWithCacheInfo runs the scheme pass with caching and reports whether
// the scene came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, elems []transmission.Element, opts Options) (*scheme.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if err := transmission.Validate(elems); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(elems))
	start := time.Now()

	sc, hit, err := r.layout(ctx, elems, opts)
	stats := observability.LayoutStats{Cached: hit}
	if sc != nil {
		stats.Placements = len(sc.Placements)
		stats.Callouts = len(sc.Callouts)
		stats.Overlaps = len(sc.Overlaps)
	}
	hooks.OnLayoutComplete(ctx, stats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if sc.Warn {
		opts.Logger.Warn("overlapping symbols", "ids", sc.Overlaps, "fingerprint", sc.Fingerprint)
		hooks.OnOverlapWarning(ctx, sc.Fingerprint, sc.Overlaps)
	}
	return sc, hit, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, elems []transmission.Element, opts Options) (*scheme.Scene, error) {
	sc, _, err := r.LayoutWithCacheInfo(ctx, elems, opts)
	return sc, err
}

func (r *Runner) layout(ctx context.Context, elems []transmission.Element, opts Options) (*scheme.Scene, bool, error) {
	if !opts.Cacheable() {
		return scheme.Build(elems, opts.Scheme, opts.View), false, nil
	}

	defHash, err := cache.HashJSON(elems)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash elements")
	}
	keyOpts, err := opts.SceneKeyOpts()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash options")
	}
	cacheKey := r.Keyer.SceneKey(defHash, keyOpts)

	if !opts.Refresh {
		if sc, ok := r.cachedScene(ctx, cacheKey); ok {
			return sc, true, nil
		}
	}

	v, err, _ := r.flight.Do(cacheKey, func() (any, error) {
		sc := scheme.Build(elems, opts.Scheme, opts.View)
		var buf bytes.Buffer
		if err := pkgio.WriteScene(&buf, sc); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLScene); err != nil {
				opts.Logger.Debug("cache write failed", "key", cacheKey, "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, observability.KeyScene, buf.Len())
			}
		}
		return sc, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*scheme.Scene), false, nil
}

func (r *Runner) cachedScene(ctx context.Context, key string) (*scheme.Scene, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, observability.KeyScene)
		return nil, false
	}
	sc, err := pkgio.ReadScene(bytes.NewReader(data))
	if err != nil {
		// Corrupt entry: recompute.
		observability.Cache().OnCacheMiss(ctx, observability.KeyScene)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, observability.KeyScene)
	return sc, true
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders the requested formats with caching and reports
// whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scheme.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, sc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc *scheme.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, sc *scheme.Scene, opts Options) (map[string][]byte, bool, error) {
	sceneHash, err := cache.HashJSON(sc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, observability.KeyArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, observability.KeyArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, sc, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, observability.KeyArtifact, len(data))
	}
	return artifacts, false, nil
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
