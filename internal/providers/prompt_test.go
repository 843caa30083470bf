package providers

import (
	"strings"
	"testing"
)

func TestSpritePrompt(t *testing.T) {
	tests := []struct {
		name     string
		req      SpriteRequest
		contains []string
		missing  []string
	}{
		{
			name:     "defaults",
			req:      SpriteRequest{Subject: "knight"},
			contains: []string{"Generate a 32x32 pixel sprite of a knight.", "4 frames", "palette of 16 colors"},
			missing:  []string{"facing", " view"},
		},
		{
			name:     "all options",
			req:      SpriteRequest{Subject: "cat", Action: "running", Direction: "left", ViewType: "side", GridSize: 64, Frames: 8, Colors: 8},
			contains: []string{"64x64 pixel sprite of a cat running facing left in side view.", "8 frames", "palette of 8 colors"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpritePrompt(tt.req)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Expected %q in:\n%s", s, got)
				}
			}
			for _, s := range tt.missing {
				if strings.Contains(got, s) {
					t.Errorf("Did not expect %q in:\n%s", s, got)
				}
			}
		})
	}
}

func TestFramesPrompt(t *testing.T) {
	got := FramesPrompt("8-bit", "goblin", "walking", "")
	if !strings.HasPrefix(got, "Create a 8-bit pixel art of a goblin walking.") {
		t.Errorf("Unexpected prompt: %s", got)
	}
	if got := SequentialPrompt("base", 0, 3); got != "base - frame 1 of 3 in an animation sequence. Make it a pixel art style image." {
		t.Errorf("Unexpected sequential prompt: %s", got)
	}
	if got := BatchPrompt("base", 6); !strings.Contains(got, "sequence of 6 frames") {
		t.Errorf("Unexpected batch prompt: %s", got)
	}
}
