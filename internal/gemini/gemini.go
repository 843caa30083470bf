package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pixel-adventure/spritekit/internal/providers"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash-exp"

// Gemini is a provider for Google Gemini image output
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider keyed from GEMINI_API_KEY
func New() *Gemini {
	return &Gemini{apiKey: os.Getenv("GEMINI_API_KEY")}
}

func (g *Gemini) Name() string { return "gemini" }

// Available reports whether an API key is configured.
func (g *Gemini) Available() bool { return g.apiKey != "" }

// GenerateImages asks Gemini for images and returns every inline image part
// of the first candidate.
func (g *Gemini) GenerateImages(ctx context.Context, config providers.Config) ([]providers.Image, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	modelName := config.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(float32(config.Temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(config.Prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from Gemini")
	}

	images := imageParts(candidate.Content.Parts)
	if len(images) == 0 {
		return nil, fmt.Errorf("no image data in Gemini response")
	}
	if config.Count > 0 && len(images) > config.Count {
		images = images[:config.Count]
	}
	return images, nil
}

func imageParts(parts []genai.Part) []providers.Image {
	var images []providers.Image
	for _, p := range parts {
		blob, ok := p.(genai.Blob)
		if !ok || !strings.HasPrefix(blob.MIMEType, "image/") || len(blob.Data) == 0 {
			continue
		}
		images = append(images, providers.Image{MIMEType: blob.MIMEType, Data: blob.Data})
	}
	return images
}
