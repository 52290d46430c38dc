package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKWELL_CONFIG_DIR", dir)
	t.Setenv("INKWELL_DB", "")
	t.Setenv("INKWELL_ASSET_DIR", "")
	t.Setenv("INKWELL_API_URL", "")
	t.Setenv("INKWELL_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.DBPath == "" || cfg.AssetDir == "" {
		t.Fatalf("path defaults not resolved: %+v", cfg)
	}
	if cfg.Assets.MaxImageBytes != DefaultAssetMaxImageBytes {
		t.Fatalf("asset default = %d", cfg.Assets.MaxImageBytes)
	}

	t.Setenv("INKWELL_DB", "/tmp/custom.db")
	t.Setenv("INKWELL_API_URL", "http://127.0.0.1:9999")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.APIURL != "http://127.0.0.1:9999" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKWELL_CONFIG_DIR", dir)
	t.Setenv("INKWELL_DB", "")
	t.Setenv("INKWELL_API_URL", "")

	content := "api_url = \"http://127.0.0.1:8888\"\n\n[assets]\nmax_image_bytes = 1024\n"
	if err := os.WriteFile(filepath.Join(dir, ".inkwell.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:8888" {
		t.Fatalf("file value not loaded: %q", cfg.APIURL)
	}
	if cfg.Assets.MaxImageBytes != 1024 {
		t.Fatalf("nested file value not loaded: %d", cfg.Assets.MaxImageBytes)
	}
}

func TestSetKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKWELL_CONFIG_DIR", dir)
	path := filepath.Join(dir, ".inkwell.toml")

	if err := SetKey(path, "nonsense", "x"); err == nil {
		t.Fatalf("unknown key must be rejected")
	}
	if err := SetKey(path, "assets.max_image_bytes", "-3"); err == nil {
		t.Fatalf("negative byte limit must be rejected")
	}
	if err := SetKey(path, "assets.max_image_bytes", "2048"); err != nil {
		t.Fatalf("set nested: %v", err)
	}
	if err := SetKey(path, "log_level", "debug"); err != nil {
		t.Fatalf("set: %v", err)
	}

	t.Setenv("INKWELL_LOG_LEVEL", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Assets.MaxImageBytes != 2048 || cfg.LogLevel != "debug" {
		t.Fatalf("set keys not round-tripped: %+v", cfg)
	}
}
