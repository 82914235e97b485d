package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	want := DefaultFileConfig()
	if cfg.Algorithm != want.Algorithm {
		t.Errorf("Algorithm = %q, want default %q", cfg.Algorithm, want.Algorithm)
	}
	if cfg.Canvas.Width != want.Canvas.Width {
		t.Errorf("Canvas.Width = %v, want default %v", cfg.Canvas.Width, want.Canvas.Width)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
algorithm = "force"
format = "opml"

[canvas]
width = 1200.0
height = 900.0

[cache]
disable = true

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Algorithm != "force" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "force")
	}
	if cfg.Format != "opml" {
		t.Errorf("Format = %q, want %q", cfg.Format, "opml")
	}
	if cfg.Canvas.Width != 1200 {
		t.Errorf("Canvas.Width = %v, want 1200", cfg.Canvas.Width)
	}
	if cfg.Canvas.Height != 900 {
		t.Errorf("Canvas.Height = %v, want 900", cfg.Canvas.Height)
	}
	// Margin not set in the file keeps its default
	if cfg.Canvas.Margin != DefaultFileConfig().Canvas.Margin {
		t.Errorf("Canvas.Margin = %v, want default", cfg.Canvas.Margin)
	}
	if !cfg.Cache.Disable {
		t.Error("Cache.Disable should be true")
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Serve.Addr = %q, want %q", cfg.Serve.Addr, ":9090")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("algorithm = [not toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject a malformed file")
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir() = %q, should honor XDG_CACHE_HOME", dir)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	os.Unsetenv("XDG_CONFIG_HOME")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}

	if !strings.HasSuffix(path, filepath.Join(appName, "config.toml")) {
		t.Errorf("configPath() = %q, should end with %s/config.toml", path, appName)
	}
}
