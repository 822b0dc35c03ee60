package pipeline

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// LayoutResult is the outcome of the layout stage.
type LayoutResult struct {
	Descriptor layout.Descriptor  `json:"descriptor"`
	Title      layout.TitleConfig `json:"title"`
}

// Layout computes the descriptor and title config for n cards under sk.
// It never fails: out-of-range counts fall back to the nearest rule.
func Layout(sk skin.Skin, n int) LayoutResult {
	return LayoutResult{
		Descriptor: sk.Layout(n),
		Title:      sk.TitleConfig(n),
	}
}

// LayoutWithCacheInfo computes the layout stage with caching and reports
// whether it came from cache. The key covers the skin contents, so an edited
// skin file never reuses a stale descriptor.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, sk skin.Skin, n int) (LayoutResult, bool) {
	return r.layoutWithCacheInfo(ctx, r.Logger, sk, n)
}

func (r *Runner) layoutWithCacheInfo(ctx context.Context, logger *log.Logger, sk skin.Skin, n int) (LayoutResult, bool) {
	key := r.Keyer.LayoutKey(sk.Name+"@"+skinHash(sk), n)

	if data, hit := r.cacheGet(ctx, logger, "layout", key); hit {
		var cached LayoutResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true
		}
		// If deserialization fails, fall through to recompute
	}

	lr := Layout(sk, n)
	if data, err := json.Marshal(lr); err == nil {
		r.cacheSet(ctx, logger, "layout", key, data, cache.TTLLayout)
	}
	return lr, false
}

// skinHash identifies the contents of a skin.
func skinHash(sk skin.Skin) string {
	data, err := json.Marshal(sk)
	if err != nil {
		return sk.Name
	}
	return cache.Hash(data)[:16]
}
