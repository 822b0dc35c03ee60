package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deckfit/pkg/buildinfo"
	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/render"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// Render generates one artifact per requested format.
func Render(sk skin.Skin, lr LayoutResult, frame render.Frame, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(format, sk, lr, frame, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(format string, sk skin.Skin, lr LayoutResult, frame render.Frame, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		var jsonOpts []render.JSONOption
		if opts.Boxes {
			jsonOpts = append(jsonOpts, render.WithJSONBoxes())
		}
		data, err = render.RenderJSON(frame, append(jsonOpts, render.WithJSONIndent())...)
	case FormatJS:
		data = Script(sk, lr)
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.EmbedFont {
			svgOpts = append(svgOpts, render.WithEmbeddedFont())
		}
		if opts.Outlines {
			svgOpts = append(svgOpts, render.WithOutlines())
		}
		data = render.RenderSVG(frame, svgOpts...)
	case FormatPNG:
		var pngOpts []render.PNGOption
		if opts.Thumbnail > 0 {
			pngOpts = append(pngOpts, render.WithThumbnail(opts.Thumbnail))
		}
		if opts.Outlines {
			pngOpts = append(pngOpts, render.WithPNGOutlines())
		}
		data, err = render.RenderPNG(frame, pngOpts...)
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// Script emits the standalone fit script for the layout stage result.
func Script(sk skin.Skin, lr LayoutResult) []byte {
	plan := fit.NewPlan(sk.Fit, lr.Title)
	return render.RenderScript(plan.Routine(),
		render.WithScriptHeader("deckfit %s", buildinfo.Get().Short()),
		render.WithScriptHeader("skin %s, %d cards (%s)", sk.Name, lr.Descriptor.CardCount, lr.Descriptor.CardWidthClass))
}

// RenderWithCacheInfo generates artifacts with caching. Each format is looked
// up individually and the missing ones are rendered concurrently. It returns
// the frame hash used for the artifact keys and whether every format came
// from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sk skin.Skin, lr LayoutResult, frame render.Frame, opts Options) (map[string][]byte, string, bool, error) {
	frameData, err := json.Marshal(frame)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)
	logger := r.loggerFor(opts)

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		missing   []string
	)
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if data, hit := r.cacheGet(ctx, logger, "artifact", key); hit {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, frameHash, true, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range missing {
		format := format
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := RenderFormat(format, sk, lr, frame, opts)
			if err != nil {
				return err
			}
			r.cacheSet(gctx, logger, "artifact", r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, frameHash, false, err
	}
	return artifacts, frameHash, false, nil
}
