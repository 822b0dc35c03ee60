package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/observability"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, skins and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Skins  *skin.Registry
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and skins.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If skins is nil, the built-in registry is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, skins *skin.Registry, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if skins == nil {
		skins = skin.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Skins:  skins,
		Logger: logger,
	}
}

// Execute runs the complete layout → fit → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	sk, err := r.Skins.Get(opts.Skin)
	if err != nil {
		return nil, err
	}
	n := opts.Deck.N()

	result := &Result{
		Skin:      sk.Name,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.CardCount = n

	// Stage 1: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, sk.Name, n)
	lr, layoutHit := r.layoutWithCacheInfo(ctx, logger, sk, n)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, sk.Name, n, result.Stats.LayoutTime, nil)
	result.Descriptor = lr.Descriptor
	result.TitleConfig = lr.Title
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"cards", n,
		"bucket", lr.Descriptor.Bucket,
		"columns", lr.Descriptor.Columns,
		"rows", lr.Descriptor.Rows,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Fit
	fitStart := time.Now()
	observability.Pipeline().OnFitStart(ctx, sk.Name, n)
	frame, frameHit, err := r.FitWithCacheInfo(ctx, sk, lr, opts)
	result.Stats.FitTime = time.Since(fitStart)
	observability.Pipeline().OnFitComplete(ctx, sk.Name, frame.Report.Skipped, result.Stats.FitTime, err)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	result.Frame = frame
	result.Report = frame.Report
	result.CacheInfo.FrameHit = frameHit

	logger.Info("fitted slide",
		"title_px", titleSize(frame),
		"scale", viewportScale(frame),
		"duration", result.Stats.FitTime)

	// Verification
	if opts.Verify {
		verifyStart := time.Now()
		if err := r.Verify(ctx, sk, lr, opts, frame); err != nil {
			return nil, err
		}
		result.Stats.VerifyTime = time.Since(verifyStart)
		logger.Info("verified script", "duration", result.Stats.VerifyTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, frameHash, renderHit, err := r.RenderWithCacheInfo(ctx, sk, lr, frame, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.FrameHash = frameHash
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger resolves the logger of one run: opts.Logger if set, otherwise
// the Runner's.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// loggerFor returns the logger of a run whose options may not have been
// through Execute.
func (r *Runner) loggerFor(opts Options) *log.Logger {
	r.applyLogger(&opts)
	return opts.Logger
}

// cacheGet reads key and reports the outcome to the cache hooks.
func (r *Runner) cacheGet(ctx context.Context, logger *log.Logger, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", "kind", kind, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, kind)
	} else {
		observability.Cache().OnCacheMiss(ctx, kind)
	}
	return data, hit
}

// cacheSet writes key, logging failures. Caching is best effort.
func (r *Runner) cacheSet(ctx context.Context, logger *log.Logger, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}
