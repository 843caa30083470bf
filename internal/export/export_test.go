package export

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/animation"
	"github.com/pixel-adventure/spritekit/internal/config"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
)

func testSet(t *testing.T, n int) *models.SpriteSet {
	t.Helper()
	var frames []models.Frame
	for i := 0; i < n; i++ {
		img := imaging.New(8, 6, color.NRGBA{R: uint8(40 * i), A: 0xFF})
		data, err := images.EncodeBytes(images.PNGEncoder{}, img)
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, models.Frame{Width: 8, Height: 6, MIMEType: "image/png", Data: data})
	}
	return models.NewSpriteSet("Knight Walk", models.NewFrameSequence(frames), models.Metadata{})
}

func defaultOptions(t *testing.T) Options {
	t.Helper()
	opts, err := OptionsFromConfig(config.DefaultConfig().Export)
	if err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestWriteGIF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testSet(t, 3), GIF, defaultOptions(t)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("Invalid gif: %v", err)
	}
	if len(anim.Image) != 3 || anim.LoopCount != 0 {
		t.Errorf("Expected 3 looping frames, got %d (loop %d)", len(anim.Image), anim.LoopCount)
	}
}

func TestWriteSheet(t *testing.T) {
	opts := defaultOptions(t)
	opts.Sheet = animation.SheetOptions{Columns: 2, Padding: 1}

	var buf bytes.Buffer
	if err := Write(&buf, testSet(t, 3), Sheet, opts); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	img, _, err := image.Decode(&buf)
	if err != nil {
		t.Fatalf("Invalid png: %v", err)
	}
	if img.Bounds().Dx() != 17 || img.Bounds().Dy() != 13 {
		t.Errorf("Expected 17x13 sheet, got %v", img.Bounds())
	}

	buf.Reset()
	if err := Write(&buf, testSet(t, 3), SheetJSON, opts); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var meta animation.SheetMetadata
	if err := json.Unmarshal(buf.Bytes(), &meta); err != nil {
		t.Fatalf("Invalid json: %v", err)
	}
	if meta.SpriteSheet != "knight_walk_sheet.png" || meta.Rows != 2 || len(meta.FrameData) != 3 {
		t.Errorf("Unexpected metadata %+v", meta)
	}
}

func TestWriteEmptySet(t *testing.T) {
	var buf bytes.Buffer
	set := models.NewSpriteSet("empty", nil, models.Metadata{})
	if err := Write(&buf, set, GIF, defaultOptions(t)); err == nil {
		t.Error("Expected error for empty set")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": GIF, "GIF": GIF, "sheet": Sheet, "sheet-json": SheetJSON}
	for in, expected := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != expected {
			t.Errorf("ParseFormat(%q): expected %s, got %s (%v)", in, expected, got, err)
		}
	}
	if _, err := ParseFormat("apng"); err == nil {
		t.Error("Expected error for unknown format")
	}
}
