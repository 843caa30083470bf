package cmd

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Database = filepath.Join(dir, "sprites.db")
	path := filepath.Join(dir, "spritekit.yaml")
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSliceCommand(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "strip.png")
	if err := imaging.Save(imaging.New(60, 20, color.NRGBA{B: 0xFF, A: 0xFF}), img); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeTestConfig(t, dir)
	frames := filepath.Join(dir, "frames")

	out, err := run(t, "--config", cfgPath, "slice", img, "--frames", "3", "--x", "10,40", "--out", frames, "--save", "--name", "walk")
	if err != nil {
		t.Fatalf("Unexpected error: %v (%s)", err, out)
	}
	if !strings.Contains(out, "Saved sprite set") || !strings.Contains(out, "3 frames") {
		t.Errorf("Unexpected output: %s", out)
	}
	for i, width := range []int{10, 30, 20} {
		f, err := imaging.Open(filepath.Join(frames, "frame_"+string(rune('1'+i))+".png"))
		if err != nil {
			t.Fatalf("Frame %d: %v", i+1, err)
		}
		if f.Bounds().Dx() != width {
			t.Errorf("Frame %d: expected width %d, got %d", i+1, width, f.Bounds().Dx())
		}
	}

	projectFile := filepath.Join(dir, "backup.json")
	if out, err := run(t, "--config", cfgPath, "project", "export", projectFile); err != nil {
		t.Fatalf("Unexpected error: %v (%s)", err, out)
	}
	data, err := os.ReadFile(projectFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name": "walk"`) {
		t.Errorf("Expected sprite set in project file")
	}
}

func TestSliceCommandRejectsBadLines(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "strip.png")
	if err := imaging.Save(imaging.New(60, 20, color.White), img); err != nil {
		t.Fatal(err)
	}
	tests := [][]string{
		{"--frames", "3", "--x", "10"},
		{"--frames", "3", "--x", "30,30"},
		{"--x", "abc"},
		{"--topology", "diagonal"},
	}
	for _, extra := range tests {
		args := append([]string{"--config", filepath.Join(dir, "none.yaml"), "slice", img}, extra...)
		if _, err := run(t, args...); err == nil {
			t.Errorf("Expected error for %v", extra)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spritekit.yaml")
	if _, err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file: %v", err)
	}
	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Error("Expected error when file exists")
	}
	if _, err := run(t, "--log-level", "loud", "config", "init", path); err == nil {
		t.Error("Expected error for unknown log level")
	}
}
