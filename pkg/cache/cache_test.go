package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "layout:x", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if data, hit, err := c.Get(ctx, "layout:x"); hit || data != nil || err != nil {
		t.Errorf("Get() = %q, %v, %v; want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, "layout:x"); err != nil {
		t.Errorf("Delete() = %v", err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("deck")) != Hash([]byte("deck")) {
		t.Error("Hash is not deterministic")
	}
	if Hash([]byte("deck")) == Hash([]byte("deck ")) {
		t.Error("Hash collides")
	}
	if n := len(Hash(nil)); n != 64 {
		t.Errorf("len(Hash) = %d, want 64", n)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if k.LayoutKey("paper", 5) != k.LayoutKey("paper", 5) {
		t.Error("LayoutKey should be deterministic")
	}
	if k.LayoutKey("paper", 5) == k.LayoutKey("slate", 5) {
		t.Error("Different skins should produce different layout keys")
	}
	if k.LayoutKey("paper", -3) != k.LayoutKey("paper", 0) {
		t.Error("Negative counts should share the zero-card key")
	}
	if !strings.HasPrefix(k.LayoutKey("paper", 5), "layout:") {
		t.Errorf("LayoutKey prefix unexpected: %s", k.LayoutKey("paper", 5))
	}

	fk1 := k.FrameKey("deck123", FrameKeyOpts{Skin: "paper"})
	fk2 := k.FrameKey("deck123", FrameKeyOpts{Skin: "paper", Measurer: "face"})
	if fk1 == fk2 {
		t.Error("Different FrameKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("frame123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("frame123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	ak3 := k.ArtifactKey("frame123", ArtifactKeyOpts{Format: "png", Thumbnail: 320})
	if ak2 == ak3 {
		t.Error("Thumbnail width should change the artifact key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	tests := []struct {
		name   string
		scoped string
		plain  string
	}{
		{"layout", scoped.LayoutKey("paper", 4), inner.LayoutKey("paper", 4)},
		{"frame", scoped.FrameKey("d", FrameKeyOpts{Skin: "slate"}), inner.FrameKey("d", FrameKeyOpts{Skin: "slate"})},
		{"artifact", scoped.ArtifactKey("f", ArtifactKeyOpts{Format: "js"}), inner.ArtifactKey("f", ArtifactKeyOpts{Format: "js"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.scoped != "staging:"+tt.plain {
				t.Errorf("got %s, want prefix on %s", tt.scoped, tt.plain)
			}
		})
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("paper", 1)
	if key != "prefix:"+NewDefaultKeyer().LayoutKey("paper", 1) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want %q", data, "value")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	fc := c.(*FileCache)

	path := fc.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "broken"); err != nil || hit {
		t.Errorf("corrupt entry = hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if IsRetryable(classify(context.Canceled)) {
		t.Error("context errors should not be retried")
	}
	err := classify(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))
	if !IsRetryable(err) {
		t.Error("connection errors should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("connection errors should wrap ErrNetwork")
	}
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), ""); err == nil {
		t.Error("expected error for empty address")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("Retryable(ErrNetwork) = %v, want retryable wrapping ErrNetwork", err)
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(ErrNetwork) {
		t.Error("unmarked errors are not retryable")
	}
}

func TestBackoffDo(t *testing.T) {
	errFatal := errors.New("WRONGTYPE")
	fast := Backoff{Attempts: 3, Initial: time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"fatal error stops", 5, errFatal, 1, errFatal},
		{"recovers after retry", 1, Retryable(ErrNetwork), 2, nil},
		{"gives up", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestHashKey(t *testing.T) {
	a := hashKey("layout", "aurora", 5)
	if a != hashKey("layout", "aurora", 5) {
		t.Error("hashKey is not deterministic")
	}
	if a == hashKey("layout", "aurora", 6) || a == hashKey("frame", "aurora", 5) {
		t.Error("hashKey collides across inputs")
	}
	if !strings.HasPrefix(a, "layout:") || len(a) != len("layout:")+64 {
		t.Errorf("hashKey = %q, want layout:<64 hex>", a)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	fc := c.(*FileCache)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := fc.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s should be gone after Clear", k)
		}
	}
}
