package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixel-adventure/spritekit/internal/grid"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Viewport.MaxWidth != 500 || cfg.Viewport.MaxHeight != 400 {
		t.Errorf("Expected default viewport 500x400, got %vx%v", cfg.Viewport.MaxWidth, cfg.Viewport.MaxHeight)
	}
	if cfg.Topology() != grid.Columns {
		t.Errorf("Expected columns, got %s", cfg.Topology())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spritekit.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spritekit.yaml")
	data := "grid:\n  defaultTopology: vertical\n  crossing: block\nexport:\n  easing: ease-in\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Topology() != grid.Rows || cfg.Grid.Crossing != "block" {
		t.Errorf("Overrides not applied: %+v", cfg.Grid)
	}
	if cfg.Viewport.MaxWidth != 500 {
		t.Errorf("Expected untouched defaults to survive, got %v", cfg.Viewport.MaxWidth)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"topology": "grid:\n  defaultTopology: diagonal\n",
		"crossing": "grid:\n  crossing: swap\n",
		"frames":   "grid:\n  defaultFrameCount: 1\n",
		"viewport": "viewport:\n  maxWidth: 0\n",
		"easing":   "export:\n  easing: bouncy\n",
		"yaml":     "grid: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "spritekit.yaml")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
