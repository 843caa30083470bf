package project

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixel-adventure/spritekit/internal/models"
)

func testSets() []*models.SpriteSet {
	walk := models.NewSpriteSet("", models.NewFrameSequence([]models.Frame{
		{X: 0, Y: 0, Width: 16, Height: 16, MIMEType: "image/png", Data: []byte("frame-a")},
		{X: 16, Y: 0, Width: 16, Height: 16, MIMEType: "image/png", Data: []byte("frame-b")},
	}), models.Metadata{Style: "8-bit", Object: "knight", Action: "walking", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})
	idle := models.NewSpriteSet("idle", models.NewFrameSequence([]models.Frame{
		{Width: 8, Height: 8, MIMEType: "image/png", Data: []byte("idle")},
	}), models.Metadata{})
	return []*models.SpriteSet{walk, idle}
}

func checkSets(t *testing.T, got []*models.SpriteSet) {
	t.Helper()
	want := testSets()
	if len(got) != len(want) {
		t.Fatalf("Expected %d sprite sets, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("Set %d: expected name %q, got %q", i, want[i].Name, got[i].Name)
		}
		if len(got[i].Frames) != len(want[i].Frames) {
			t.Fatalf("Set %d: expected %d frames, got %d", i, len(want[i].Frames), len(got[i].Frames))
		}
		for j, f := range got[i].Frames {
			w := want[i].Frames[j]
			if !bytes.Equal(f.Data, w.Data) || f.X != w.X || f.Width != w.Width || f.ID != j+1 {
				t.Errorf("Set %d frame %d: expected %+v, got %+v", i, j, w, f)
			}
		}
	}
	if got[0].Metadata.Object != "knight" || !got[0].Metadata.CreatedAt.Equal(want[0].Metadata.CreatedAt) {
		t.Errorf("Metadata not preserved: %+v", got[0].Metadata)
	}
}

func TestJSONArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, testSets()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"version": "1.0.0"`) || !strings.Contains(buf.String(), "data:image/png;base64,") {
		t.Errorf("Unexpected archive: %s", buf.String())
	}
	sets, err := ImportJSON(&buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checkSets(t, sets)
}

func TestImportJSONRejectsMissingSpriteSets(t *testing.T) {
	tests := []string{`{"version":"1.0.0"}`, `not json`, `{"spriteSets":[{"frames":[{"data":"nope"}]}]}`}
	for _, input := range tests {
		if _, err := ImportJSON(strings.NewReader(input)); err == nil {
			t.Errorf("Expected error for %s", input)
		}
	}
	_, err := ImportJSON(strings.NewReader(`{}`))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestParquetArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.parquet")
	if err := ExportFile(path, testSets()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sets, err := ImportFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checkSets(t, sets)
}

func TestFileFormatByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	if err := ExportFile(path, testSets()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sets, err := ImportFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checkSets(t, sets)
}
