package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/pixel-adventure/spritekit/internal/providers"
)

func TestImageParts(t *testing.T) {
	parts := []genai.Part{
		genai.Text("here is your sprite"),
		genai.Blob{MIMEType: "image/png", Data: []byte{1, 2}},
		genai.Blob{MIMEType: "application/json", Data: []byte("{}")},
		genai.Blob{MIMEType: "image/jpeg"},
		genai.Blob{MIMEType: "image/webp", Data: []byte{3}},
	}
	got := imageParts(parts)
	if len(got) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(got))
	}
	if got[0].MIMEType != "image/png" || got[1].MIMEType != "image/webp" {
		t.Errorf("Unexpected images %+v", got)
	}
}

func TestGenerateImagesWithoutKey(t *testing.T) {
	g := &Gemini{}
	if g.Available() {
		t.Error("Expected provider without key to be unavailable")
	}
	if _, err := g.GenerateImages(context.Background(), providers.Config{Prompt: "x"}); err == nil {
		t.Error("Expected error without API key")
	}
}
