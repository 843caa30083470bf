package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pixel-adventure/spritekit/internal/generation"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
	"github.com/pixel-adventure/spritekit/internal/providers"
)

type generateRequest struct {
	// Mode is "sprite" for one strip opened in the editor, or "frames" for
	// separately generated frames saved as a sprite set.
	Mode     string `json:"mode"`
	Provider string `json:"provider"`
	Model    string `json:"model"`

	providers.SpriteRequest
	Style      string `json:"style"`
	Object     string `json:"object"`
	Background string `json:"background"`
	Count      int    `json:"count"`
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.methodNotAllowed(w)
		return
	}
	var request generateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	model := request.Model
	if model == "" {
		model = h.cfg.Generation.Model
	}

	switch request.Mode {
	case "", "sprite":
		h.generateSprite(w, r, request, model)
	case "frames":
		h.generateFrames(w, r, request, model)
	default:
		h.writeError(w, "mode must be 'sprite' or 'frames'", http.StatusBadRequest)
	}
}

func (h *Handler) generateSprite(w http.ResponseWriter, r *http.Request, request generateRequest, model string) {
	if request.Subject == "" {
		h.writeError(w, "prompt is required", http.StatusBadRequest)
		return
	}
	spriteReq := request.SpriteRequest.WithDefaults()
	img, provider, err := h.generator.GenerateSprite(r.Context(), request.Provider, model, spriteReq)
	if provider == "" {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.metrics.Generation(provider, err)
	if err != nil {
		h.writeError(w, "Failed to generate sprite: "+err.Error(), http.StatusBadGateway)
		return
	}

	src, err := h.fetcher.Decode(img.Data, "generated.png")
	if err != nil {
		h.writeErr(w, "Generated image is unusable", err)
		return
	}
	session, err := h.openSession(src, sessionParams{
		Name:       spriteReq.Subject,
		FrameCount: max(spriteReq.Frames, grid.MinFrameCount),
		Topology:   string(grid.Columns),
	})
	if err != nil {
		h.writeErr(w, "Failed to open session", err)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, map[string]any{
		"provider": provider,
		"session":  session.View(),
		"image":    models.Frame{MIMEType: img.MIMEType, Data: img.Data}.DataURL(),
	})
}

func (h *Handler) generateFrames(w http.ResponseWriter, r *http.Request, request generateRequest, model string) {
	if request.Object == "" && request.Subject == "" {
		h.writeError(w, "object or prompt is required", http.StatusBadRequest)
		return
	}
	frameReq := generation.FrameRequest{
		Style:      request.Style,
		Object:     request.Object,
		Action:     request.Action,
		Background: request.Background,
		Prompt:     request.Subject,
		Count:      request.Count,
	}
	imgs, provider, err := h.generator.GenerateFrames(r.Context(), request.Provider, model, frameReq)
	if provider == "" {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.metrics.Generation(provider, err)
	if err != nil {
		h.writeError(w, "Failed to generate frames: "+err.Error(), http.StatusBadGateway)
		return
	}

	frames := make([]models.Frame, 0, len(imgs))
	for i, img := range imgs {
		decoded, err := images.DecodeFrame(img.Data)
		if err != nil {
			h.writeError(w, fmt.Sprintf("Generated frame %d is unusable: %v", i+1, err), http.StatusBadGateway)
			return
		}
		b := decoded.Bounds()
		frames = append(frames, models.Frame{Width: b.Dx(), Height: b.Dy(), MIMEType: img.MIMEType, Data: img.Data})
	}

	set := models.NewSpriteSet("", models.NewFrameSequence(frames), models.Metadata{
		Style:      request.Style,
		Object:     request.Object,
		Action:     request.Action,
		Background: request.Background,
		Prompt:     request.Subject,
	})
	if err := h.repo.SaveSpriteSet(r.Context(), set); err != nil {
		h.writeErr(w, "Failed to save sprite set", err)
		return
	}
	slog.Info("Generated sprite set saved", "sprite_id", set.ID, "provider", provider, "frames", len(frames))
	h.writeJSONStatus(w, http.StatusCreated, map[string]any{
		"provider":   provider,
		"sprite_set": newSpriteSetView(set),
	})
}
