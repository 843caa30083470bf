package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pixel-adventure/spritekit/internal/editor"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/images"
)

// sessionParams are the optional knobs accepted when opening a session.
type sessionParams struct {
	Name       string  `json:"name"`
	FrameCount int     `json:"frame_count"`
	Topology   string  `json:"topology"`
	MaxWidth   float64 `json:"max_width"`
	MaxHeight  float64 `json:"max_height"`
}

func (h *Handler) editorOptions(p sessionParams) (editor.Options, error) {
	opts := editor.Options{
		MaxWidth:     h.cfg.Viewport.MaxWidth,
		MaxHeight:    h.cfg.Viewport.MaxHeight,
		FrameCount:   h.cfg.Grid.DefaultFrameCount,
		Topology:     h.cfg.Topology(),
		HitTolerance: h.cfg.Grid.HitTolerance,
		Crossing:     grid.Crossing(h.cfg.Grid.Crossing),
		OnChange: func(sessionID string, lines grid.Lines) {
			slog.Debug("Grid lines changed", "session_id", sessionID, "x", lines.X, "y", lines.Y)
		},
	}
	if p.MaxWidth > 0 {
		opts.MaxWidth = p.MaxWidth
	}
	if p.MaxHeight > 0 {
		opts.MaxHeight = p.MaxHeight
	}
	if p.FrameCount != 0 {
		opts.FrameCount = p.FrameCount
	}
	if p.Topology != "" {
		t, err := grid.ParseTopology(p.Topology)
		if err != nil {
			return opts, err
		}
		opts.Topology = t
	}
	return opts, nil
}

// openSession builds an editor session for src and stores it.
func (h *Handler) openSession(src *images.Source, p sessionParams) (*editor.Session, error) {
	opts, err := h.editorOptions(p)
	if err != nil {
		return nil, err
	}
	session, err := editor.New(uuid.NewString(), src, opts)
	if err != nil {
		return nil, err
	}
	if p.Name != "" {
		session.Name = p.Name
	}
	h.sessionStore.Set(session.ID, session)
	h.metrics.SetActiveSessions(h.sessionStore.Len())

	slog.Info("Editor session opened",
		"session_id", session.ID,
		"source", src.Name,
		"width", src.Width,
		"height", src.Height,
		"scale", session.Transform.Scale,
		"frame_count", opts.FrameCount,
		"topology", opts.Topology)
	return session, nil
}

func (h *Handler) sessionFromURL(ctx context.Context, imageURL string, p sessionParams) (*editor.Session, error) {
	src, err := h.fetcher.DecodeURL(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if p.Name == "" && !strings.HasPrefix(imageURL, "data:") {
		p.Name = src.Name
	}
	return h.openSession(src, p)
}
