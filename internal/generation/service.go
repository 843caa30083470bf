package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pixel-adventure/spritekit/internal/gemini"
	"github.com/pixel-adventure/spritekit/internal/openai"
	"github.com/pixel-adventure/spritekit/internal/placeholder"
	"github.com/pixel-adventure/spritekit/internal/providers"
)

// FrameRequest describes a sprite set to generate frame by frame.
type FrameRequest struct {
	Style      string `json:"style"`
	Object     string `json:"object"`
	Action     string `json:"action"`
	Background string `json:"background"`
	Prompt     string `json:"prompt,omitempty"`
	Count      int    `json:"count"`
}

// Service routes generation requests to a provider. Providers without
// credentials are replaced by the offline placeholder generator.
type Service struct {
	providers       map[string]providers.Provider
	defaultProvider string
	temperature     float64
}

type availability interface {
	Available() bool
}

// NewService registers the built-in providers.
func NewService(defaultProvider string, temperature float64) *Service {
	return NewServiceWith(defaultProvider, temperature, gemini.New(), openai.New(), placeholder.New())
}

// NewServiceWith registers the given providers.
func NewServiceWith(defaultProvider string, temperature float64, ps ...providers.Provider) *Service {
	s := &Service{
		providers:       make(map[string]providers.Provider, len(ps)),
		defaultProvider: defaultProvider,
		temperature:     temperature,
	}
	for _, p := range ps {
		s.providers[p.Name()] = p
	}
	if s.defaultProvider == "" {
		s.defaultProvider = "gemini"
	}
	return s
}

// Providers lists the registered provider names.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) resolve(name string, req FrameRequest) (providers.Provider, error) {
	if name == "" {
		name = s.defaultProvider
	}
	p, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	if a, ok := p.(availability); ok && !a.Available() {
		slog.Warn("Provider has no credentials, using placeholder frames", "provider", name)
		return &placeholder.Placeholder{Style: req.Style, Object: req.Object, Action: req.Action}, nil
	}
	if _, ok := p.(*placeholder.Placeholder); ok {
		return &placeholder.Placeholder{Style: req.Style, Object: req.Object, Action: req.Action}, nil
	}
	return p, nil
}

// GenerateSprite produces one sprite strip image, ready to be sliced.
func (s *Service) GenerateSprite(ctx context.Context, providerName, model string, req providers.SpriteRequest) (providers.Image, string, error) {
	req = req.WithDefaults()
	p, err := s.resolve(providerName, FrameRequest{Object: req.Subject, Action: req.Action})
	if err != nil {
		return providers.Image{}, "", err
	}
	prompt := providers.SpritePrompt(req)
	slog.Info("Generating sprite strip", "provider", p.Name(), "model", model, "frames", req.Frames)

	imgs, err := p.GenerateImages(ctx, providers.Config{
		Model:       model,
		Temperature: s.temperature,
		Prompt:      prompt,
		Count:       1,
		Size:        req.GridSize * req.Frames,
	})
	if err != nil {
		return providers.Image{}, p.Name(), fmt.Errorf("%s: %w", p.Name(), err)
	}
	if len(imgs) == 0 {
		return providers.Image{}, p.Name(), fmt.Errorf("%s returned no image", p.Name())
	}
	return imgs[0], p.Name(), nil
}

// GenerateFrames produces req.Count frames. It asks for all frames in one
// call first and falls back to one call per frame when that fails or comes
// back short.
func (s *Service) GenerateFrames(ctx context.Context, providerName, model string, req FrameRequest) ([]providers.Image, string, error) {
	if req.Count <= 0 {
		req.Count = 8
	}
	p, err := s.resolve(providerName, req)
	if err != nil {
		return nil, "", err
	}
	base := req.Prompt
	if base == "" {
		base = providers.FramesPrompt(req.Style, req.Object, req.Action, req.Background)
	}

	cfg := providers.Config{Model: model, Temperature: s.temperature, Count: req.Count, Size: 32}
	cfg.Prompt = providers.BatchPrompt(base, req.Count)
	imgs, err := p.GenerateImages(ctx, cfg)
	if err == nil && len(imgs) >= req.Count {
		return imgs[:req.Count], p.Name(), nil
	}
	slog.Warn("Batch generation failed, falling back to sequential generation", "provider", p.Name(), "got", len(imgs), "err", err)

	frames := make([]providers.Image, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		cfg.Count = 1
		cfg.Prompt = providers.SequentialPrompt(base, i, req.Count)
		one, err := p.GenerateImages(ctx, cfg)
		if err != nil {
			return nil, p.Name(), fmt.Errorf("frame %d of %d: %w", i+1, req.Count, err)
		}
		if len(one) == 0 {
			return nil, p.Name(), fmt.Errorf("frame %d of %d: no image returned", i+1, req.Count)
		}
		frames = append(frames, one[0])
	}
	return frames, p.Name(), nil
}
