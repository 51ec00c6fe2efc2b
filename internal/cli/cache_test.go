package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/procflow/pkg/cache"
)

func TestLocalCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := New(&bytes.Buffer{}, LogInfo)
	dir, err := c.localCacheDir()
	if err != nil {
		t.Fatalf("localCacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("localCacheDir() = %q, want %q", dir, want)
	}

	c.Config = &Config{Cache: CacheConfig{Dir: "/srv/procflow-cache"}}
	dir, err = c.localCacheDir()
	if err != nil {
		t.Fatalf("localCacheDir() error: %v", err)
	}
	if dir != "/srv/procflow-cache" {
		t.Errorf("localCacheDir() with config dir = %q", dir)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = &Config{Cache: CacheConfig{Dir: dir}}

	var out bytes.Buffer
	cmd := c.cachePathCommand()
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path printed %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "layout:b", "artifact:c"} {
		if err := fc.Set(ctx, key, []byte("{}"), time.Hour); err != nil {
			t.Fatalf("Set(%q) error: %v", key, err)
		}
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = &Config{Cache: CacheConfig{Dir: dir}}
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	if _, ok, _ := fc.Get(ctx, "layout:a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = &Config{Cache: CacheConfig{Dir: filepath.Join(t.TempDir(), "never-created")}}
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Errorf("cache clear on a missing dir should succeed, got %v", err)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "layout:a", []byte("{}"), time.Hour); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = &Config{Cache: CacheConfig{Backend: backendNone, Dir: dir}}
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "layout:a"); !ok {
		t.Error("backend none should leave the file cache alone")
	}
}
