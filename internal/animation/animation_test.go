package animation

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"testing"
	"time"
)

func TestApply(t *testing.T) {
	tests := []struct {
		easing   Easing
		t        float64
		expected float64
	}{
		{Linear, 0.3, 0.3},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.75, 0.875},
		{EaseInOut, 1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.easing, tt.t), func(t *testing.T) {
			if got := Apply(tt.easing, tt.t); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFrameDuration(t *testing.T) {
	base := 100 * time.Millisecond
	if got := FrameDuration(Linear, base, 5, 3); got != base {
		t.Errorf("Expected linear to keep base, got %v", got)
	}
	if got := FrameDuration(EaseIn, base, 1, 0); got != base {
		t.Errorf("Expected single frame to keep base, got %v", got)
	}
	if got := FrameDuration(EaseIn, base, 3, 0); got != 50*time.Millisecond {
		t.Errorf("Expected first eased frame at 0.5x, got %v", got)
	}
	if got := FrameDuration(EaseIn, base, 3, 2); got != 150*time.Millisecond {
		t.Errorf("Expected last eased frame at 1.5x, got %v", got)
	}
}

func TestFPSFromSpeed(t *testing.T) {
	tests := map[float64]float64{0: 1, 1: 2.4, 5: 12, 10: 24, 50: 24}
	for speed, expected := range tests {
		if got := FPSFromSpeed(speed); math.Abs(got-expected) > 1e-9 {
			t.Errorf("Speed %v: expected %v fps, got %v", speed, expected, got)
		}
	}
	if got := BaseDuration(4); got != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", got)
	}
}

func TestPlayer(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected []int
	}{
		{Loop, []int{1, 2, 0, 1, 2}},
		{Bounce, []int{1, 2, 1, 0, 1}},
		{Once, []int{1, 2, 2, 2, 2}},
		{Reverse, []int{1, 0, 2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := NewPlayer(tt.mode, 3)
			got := make([]int, 0, len(tt.expected))
			for range tt.expected {
				got = append(got, p.Next())
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	p := NewPlayer(Once, 2)
	p.Next()
	if !p.Done() {
		t.Error("Expected once player to finish on the last frame")
	}
}

func TestCycle(t *testing.T) {
	tests := []struct {
		mode     Mode
		count    int
		expected []int
	}{
		{Loop, 3, []int{0, 1, 2}},
		{Once, 2, []int{0, 1}},
		{Reverse, 3, []int{2, 1, 0}},
		{Bounce, 4, []int{0, 1, 2, 3, 2, 1}},
		{Bounce, 1, []int{0}},
	}
	for _, tt := range tests {
		got := Cycle(tt.mode, tt.count)
		if fmt.Sprint(got) != fmt.Sprint(tt.expected) {
			t.Errorf("%s/%d: expected %v, got %v", tt.mode, tt.count, tt.expected, got)
		}
	}
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestEncodeGIF(t *testing.T) {
	frames := []image.Image{
		solid(4, 4, color.NRGBA{R: 255, A: 255}),
		solid(4, 4, color.NRGBA{G: 255, A: 255}),
		solid(4, 4, color.NRGBA{B: 255, A: 255}),
	}
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, GIFOptions{FPS: 10, Loop: true, Mode: Bounce}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(decoded.Image) != 4 {
		t.Errorf("Expected 4 frames for a bounce of 3, got %d", len(decoded.Image))
	}
	if decoded.LoopCount != 0 {
		t.Errorf("Expected infinite loop, got %d", decoded.LoopCount)
	}
	for i, d := range decoded.Delay {
		if d != 10 {
			t.Errorf("Frame %d: expected 10cs delay, got %d", i, d)
		}
	}
	r, g, b, _ := decoded.Image[1].At(0, 0).RGBA()
	if r != 0 || g != 0xffff || b != 0 {
		t.Errorf("Expected exact green in frame 1, got %d %d %d", r, g, b)
	}
}

func TestEncodeGIFNoFrames(t *testing.T) {
	if err := EncodeGIF(&bytes.Buffer{}, nil, GIFOptions{}); err != ErrNoFrames {
		t.Errorf("Expected ErrNoFrames, got %v", err)
	}
}

func TestBuildSpriteSheet(t *testing.T) {
	frames := make([]image.Image, 5)
	for i := range frames {
		frames[i] = solid(8, 6, color.NRGBA{R: uint8(i * 40), A: 255})
	}
	sheet, meta, err := BuildSpriteSheet(frames, SheetOptions{Columns: 3, Padding: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sheet.Bounds().Dx() != (8+2)*3-2 || sheet.Bounds().Dy() != (6+2)*2-2 {
		t.Errorf("Unexpected sheet size %v", sheet.Bounds())
	}
	if meta.Rows != 2 || meta.Columns != 3 || len(meta.FrameData) != 5 {
		t.Errorf("Unexpected metadata %+v", meta)
	}
	last := meta.FrameData[4]
	if last.Row != 1 || last.Column != 1 || last.X != 10 || last.Y != 8 {
		t.Errorf("Unexpected placement of frame 4: %+v", last)
	}
	if got := sheet.NRGBAAt(last.X, last.Y); got.R != 160 {
		t.Errorf("Expected frame 4 colour at its origin, got %v", got)
	}
	if got := sheet.NRGBAAt(8, 0); got.A != 0 {
		t.Errorf("Expected transparent padding, got %v", got)
	}
}

func TestBuildSpriteSheetFewerFramesThanColumns(t *testing.T) {
	frames := []image.Image{solid(5, 5, color.NRGBA{A: 255}), solid(5, 5, color.NRGBA{A: 255})}
	sheet, meta, err := BuildSpriteSheet(frames, SheetOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if meta.Columns != 2 || sheet.Bounds().Dx() != 10 {
		t.Errorf("Expected 2 columns 10px wide, got %d columns %v", meta.Columns, sheet.Bounds())
	}
}

func TestParse(t *testing.T) {
	if e, err := ParseEasing("easeInOut"); err != nil || e != EaseInOut {
		t.Errorf("Expected ease-in-out, got %s %v", e, err)
	}
	if _, err := ParseEasing("bogus"); err == nil {
		t.Error("Expected error for unknown easing")
	}
	if m, err := ParseMode("Bounce"); err != nil || m != Bounce {
		t.Errorf("Expected bounce, got %s %v", m, err)
	}
}
