package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	tests := []struct {
		name    string
		install func()
		get     func() any
		custom  any
		noop    any
	}{
		{"pipeline", func() { SetPipelineHooks(pipelineHook) }, func() any { return Pipeline() }, pipelineHook, NoopPipelineHooks{}},
		{"cache", func() { SetCacheHooks(cacheHook) }, func() any { return Cache() }, cacheHook, NoopCacheHooks{}},
		{"request", func() { SetRequestHooks(requestHook) }, func() any { return Request() }, requestHook, NoopRequestHooks{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(); got != tt.noop {
				t.Fatalf("default = %T, want %T", got, tt.noop)
			}
			tt.install()
			if got := tt.get(); got != tt.custom {
				t.Errorf("after install = %T, want %T", got, tt.custom)
			}
			Reset()
			if got := tt.get(); got != tt.noop {
				t.Errorf("after Reset = %T, want %T", got, tt.noop)
			}
		})
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	t.Cleanup(Reset)
	SetPipelineHooks(pipelineHook)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	if Pipeline() != PipelineHooks(pipelineHook) {
		t.Error("SetPipelineHooks(nil) replaced the installed hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) replaced the no-op hooks")
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					SetCacheHooks(cacheHook)
					Reset()
				} else {
					Cache().OnCacheHit(ctx, "layout")
				}
			}
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	h.Install()

	if Pipeline() != PipelineHooks(h) || Cache() != CacheHooks(h) || Request() != RequestHooks(h) {
		t.Fatal("Install should register the hooks for every category")
	}

	ctx := context.Background()
	Pipeline().OnLayoutComplete(ctx, "slate", 4, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "artifact")
	Pipeline().OnRenderComplete(ctx, []string{"png"}, time.Millisecond, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"layout complete", "skin=slate", "cache miss", "render failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testRequestHooks struct{ NoopRequestHooks }

var (
	pipelineHook = &testPipelineHooks{}
	cacheHook    = &testCacheHooks{}
	requestHook  = &testRequestHooks{}
)
