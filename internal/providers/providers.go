package providers

import (
	"context"
)

// Config represents one image generation request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Count is how many images to ask for in one call.
	Count int
	// Size is the requested edge length in pixels, when the provider supports it.
	Size int
}

// Image is one generated image as returned by a provider.
type Image struct {
	MIMEType string
	Data     []byte
}

// Provider defines the interface for an image generation provider
type Provider interface {
	Name() string
	GenerateImages(ctx context.Context, config Config) ([]Image, error)
}
