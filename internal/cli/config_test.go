package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/procflow/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "")
	t.Setenv(envAddr, "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}

	want := &Config{
		Cache:  CacheConfig{Backend: backendFile},
		Server: ServerConfig{Store: backendMemory},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "")
	t.Setenv(envAddr, "")

	path := writeConfig(t, `
[layout]
mode = "Schematic"
transpose = true
width = 1024

[cache]
backend = "none"
namespace = "team-a"

[server]
addr = ":9090"
store = "file"
store_dir = "/var/lib/procflow"
ttl = "90m"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}

	want := &Config{
		Layout: LayoutConfig{Mode: "schematic", Transpose: true, Width: 1024},
		Cache:  CacheConfig{Backend: backendNone, Namespace: "team-a"},
		Server: ServerConfig{
			Addr:     ":9090",
			Store:    backendFile,
			StoreDir: "/var/lib/procflow",
			TTL:      duration{90 * time.Minute},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv(envRedisURL, "redis://cache:6379/1")
	t.Setenv(envMongoURI, "mongodb://db:27017")
	t.Setenv(envAddr, ":7070")

	path := writeConfig(t, `
[cache]
backend = "redis"
redis_url = "redis://ignored:6379/0"

[server]
store = "mongo"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("RedisURL = %q, want env value", cfg.Cache.RedisURL)
	}
	if cfg.Server.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q, want env value", cfg.Server.MongoURI)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want env value", cfg.Server.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "")
	t.Setenv(envAddr, "")

	tests := []struct {
		name string
		body string
		want errors.Code
	}{
		{"unknown key", "[layout]\nzoom = 2\n", errors.ErrCodeInvalidConfig},
		{"malformed toml", "[layout\n", errors.ErrCodeInvalidConfig},
		{"bad mode", "[layout]\nmode = \"radial\"\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"bad store", "[server]\nstore = \"s3\"\n", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "[server]\nstore = \"mongo\"\n", errors.ErrCodeInvalidConfig},
		{"redis url scheme", "[cache]\nbackend = \"redis\"\nredis_url = \"http://cache:6379\"\n", errors.ErrCodeInvalidConfig},
		{"mongo uri scheme", "[server]\nstore = \"mongo\"\nmongo_uri = \"db:27017\"\n", errors.ErrCodeInvalidConfig},
		{"bad ttl", "[server]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}
