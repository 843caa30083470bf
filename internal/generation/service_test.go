package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pixel-adventure/spritekit/internal/placeholder"
	"github.com/pixel-adventure/spritekit/internal/providers"
)

type fakeProvider struct {
	name      string
	available bool
	batchFail bool
	prompts   []string
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) GenerateImages(ctx context.Context, cfg providers.Config) ([]providers.Image, error) {
	f.prompts = append(f.prompts, cfg.Prompt)
	if cfg.Count > 1 && f.batchFail {
		return nil, errors.New("batch not supported")
	}
	out := make([]providers.Image, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		out = append(out, providers.Image{MIMEType: "image/png", Data: []byte(cfg.Prompt)})
	}
	return out, nil
}

func TestGenerateFramesBatch(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true}
	s := NewServiceWith("fake", 0.5, fake)

	frames, used, err := s.GenerateFrames(context.Background(), "", "", FrameRequest{Style: "8-bit", Object: "mage", Action: "casting", Count: 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if used != "fake" || len(frames) != 3 || len(fake.prompts) != 1 {
		t.Errorf("Expected one batch call for 3 frames, got %d calls, %d frames", len(fake.prompts), len(frames))
	}
	if !strings.Contains(fake.prompts[0], "mage casting") {
		t.Errorf("Expected base prompt in batch prompt, got %s", fake.prompts[0])
	}
}

func TestGenerateFramesSequentialFallback(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true, batchFail: true}
	s := NewServiceWith("fake", 0, fake)

	frames, _, err := s.GenerateFrames(context.Background(), "fake", "", FrameRequest{Prompt: "a cat", Count: 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(frames) != 3 || len(fake.prompts) != 4 {
		t.Fatalf("Expected 1 batch + 3 single calls, got %d calls", len(fake.prompts))
	}
	if string(frames[2].Data) != "a cat - frame 3 of 3 in an animation sequence. Make it a pixel art style image." {
		t.Errorf("Unexpected frame prompt %s", frames[2].Data)
	}
}

func TestUnavailableProviderFallsBackToPlaceholder(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: false}
	s := NewServiceWith("fake", 0, fake, placeholder.New())

	frames, used, err := s.GenerateFrames(context.Background(), "", "", FrameRequest{Object: "knight", Count: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if used != "placeholder" || len(frames) != 2 || len(fake.prompts) != 0 {
		t.Errorf("Expected placeholder frames, got %s with %d frames", used, len(frames))
	}
}

func TestGenerateSprite(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true}
	s := NewServiceWith("fake", 0, fake)
	img, used, err := s.GenerateSprite(context.Background(), "fake", "", providers.SpriteRequest{Subject: "slime", Frames: 6})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if used != "fake" || !strings.Contains(string(img.Data), "6 frames") {
		t.Errorf("Unexpected result %s %s", used, img.Data)
	}
	if _, _, err := s.GenerateSprite(context.Background(), "nope", "", providers.SpriteRequest{}); err == nil {
		t.Error("Expected unknown provider error")
	}
}
