package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var errTransient = errors.New("transient")

var fastRetry = Backoff{Attempts: 3, Delay: time.Millisecond}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "layout:a", []byte(`{"mode":"flow"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != `{"mode":"flow"}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileCacheExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := os.MkdirAll(filepath.Dir(c.path("bad")), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("bad"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Mode: "flow", Width: 800})
	if !strings.HasPrefix(lk1, "layout:"+keyVersion+":") {
		t.Errorf("LayoutKey = %q, want layout:%s: prefix", lk1, keyVersion)
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{Mode: "flow", Width: 800}) {
		t.Error("LayoutKey should be deterministic")
	}

	distinct := []string{
		lk1,
		k.LayoutKey("hash123", LayoutKeyOpts{Mode: "schematic", Width: 800}),
		k.LayoutKey("hash123", LayoutKeyOpts{Mode: "flow", Width: 800, Transpose: true}),
		k.LayoutKey("hash123", LayoutKeyOpts{Mode: "flow", Width: 800, Panel: "North"}),
		k.LayoutKey("hash456", LayoutKeyOpts{Mode: "flow", Width: 800}),
		k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"}),
		k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"}),
		k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Panel: "North"}),
	}
	seen := make(map[string]int)
	for i, key := range distinct {
		if j, dup := seen[key]; dup {
			t.Errorf("keys %d and %d collide: %q", j, i, key)
		}
		seen[key] = i
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	opts := LayoutKeyOpts{Mode: "flow"}
	if got, want := scoped.LayoutKey("h", opts), "api:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "api:artifact:") {
		t.Errorf("ArtifactKey = %q, want api:artifact: prefix", got)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.LayoutKey("h", opts); got != "p:"+inner.LayoutKey("h", opts) {
		t.Errorf("nil inner LayoutKey = %q", got)
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should return nil")
	}

	err := Transient(errTransient)
	if !IsTransient(err) {
		t.Error("IsTransient should return true for a marked error")
	}
	if !IsTransient(fmt.Errorf("ping: %w", err)) {
		t.Error("IsTransient should see through wrapping")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("Transient should unwrap to the cause")
	}
	if IsTransient(errTransient) {
		t.Error("IsTransient should return false for an unmarked error")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		transient bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastRetry.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.transient {
						return Transient(errTransient)
					}
					return errTransient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastRetry.Retry(ctx, func() error {
		return Transient(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestBackoffZeroUsesDefault(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error {
		calls++
		return errTransient
	})
	if calls != 1 {
		t.Errorf("permanent error should stop after one call, got %d", calls)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewRedisCache(ctx, RedisOptions{URL: "http://localhost"}); err == nil {
		t.Error("NewRedisCache(bad scheme) error = nil")
	}

	_, err := NewRedisCache(ctx, RedisOptions{
		URL:         "redis://127.0.0.1:1/0",
		DialTimeout: 50 * time.Millisecond,
		Retry:       fastRetry,
	})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache(unreachable) error = %v, want ErrUnavailable", err)
	}
}

func TestRedisClearNeedsPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	c := NewRedisCacheFromClient(client, "")
	defer c.Close()

	if _, err := c.Clear(context.Background()); err == nil {
		t.Error("Clear without a prefix should refuse to run")
	}
}
