// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in deckfit emit events through the registered hooks; nothing is
// recorded unless a consumer installs an implementation at startup. The CLI
// installs [LogHooks] in verbose mode, and a server deployment can install
// a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, skin, n)
//	// ... compute layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, skin, n, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives the start and end of each pipeline stage.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, skin string, cards int)
	OnLayoutComplete(ctx context.Context, skin string, cards int, duration time.Duration, err error)

	// skipped is true when the surface could not be measured.
	OnFitStart(ctx context.Context, skin string, cards int)
	OnFitComplete(ctx context.Context, skin string, skipped bool, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. kind is the stage of the
// entry: "layout", "frame" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// RequestHooks receives HTTP API traffic.
type RequestHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string)
	OnResponse(ctx context.Context, requestID, method, path string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnFitStart(context.Context, string, int)                             {}
func (NoopPipelineHooks) OnFitComplete(context.Context, string, bool, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopRequestHooks ignores every event.
type NoopRequestHooks struct{}

func (NoopRequestHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopRequestHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

// slot holds the installed implementation of one hook interface. Reads are
// lock-free since every pipeline stage and cache call goes through them.
type slot[H any] struct {
	cur  atomic.Pointer[H]
	noop H
}

func newSlot[H any](noop H) *slot[H] {
	s := &slot[H]{noop: noop}
	s.reset()
	return s
}

func (s *slot[H]) get() H { return *s.cur.Load() }

func (s *slot[H]) set(h H) {
	if any(h) == nil {
		return
	}
	s.cur.Store(&h)
}

func (s *slot[H]) reset() {
	noop := s.noop
	s.cur.Store(&noop)
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	requestSlot  = newSlot[RequestHooks](NoopRequestHooks{})
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetRequestHooks installs h. A nil h is ignored.
func SetRequestHooks(h RequestHooks) { requestSlot.set(h) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Request returns the installed request hooks.
func Request() RequestHooks { return requestSlot.get() }

// Reset restores the no-op hooks. Tests that install hooks call it in
// cleanup.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	requestSlot.reset()
}
