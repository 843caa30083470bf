package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pixel-adventure/spritekit/internal/animation"
	"github.com/pixel-adventure/spritekit/internal/export"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
)

func (h *Handler) HandleSprites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sets, err := h.repo.ListSpriteSets(r.Context())
		if err != nil {
			h.writeErr(w, "Failed to list sprite sets", err)
			return
		}
		views := make([]spriteSetView, 0, len(sets))
		for _, set := range sets {
			views = append(views, newSpriteSetView(set))
		}
		h.writeJSON(w, views)
	case "POST":
		h.handleSaveSprite(w, r)
	default:
		h.methodNotAllowed(w)
	}
}

// handleSaveSprite stores a sprite set whose frames arrive as data URLs.
func (h *Handler) handleSaveSprite(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name     string          `json:"name"`
		Metadata models.Metadata `json:"metadata"`
		Frames   []struct {
			Data string `json:"data"`
		} `json:"frames"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(request.Frames) == 0 {
		h.writeError(w, "frames are required", http.StatusBadRequest)
		return
	}

	frames := make([]models.Frame, 0, len(request.Frames))
	for i, in := range request.Frames {
		mime, data, err := images.ParseDataURL(in.Data)
		if err != nil {
			h.writeError(w, fmt.Sprintf("Frame %d: %v", i+1, err), http.StatusBadRequest)
			return
		}
		img, err := images.DecodeFrame(data)
		if err != nil {
			h.writeError(w, fmt.Sprintf("Frame %d: %v", i+1, err), http.StatusBadRequest)
			return
		}
		b := img.Bounds()
		frames = append(frames, models.Frame{Width: b.Dx(), Height: b.Dy(), MIMEType: mime, Data: data})
	}

	set := models.NewSpriteSet(request.Name, models.NewFrameSequence(frames), request.Metadata)
	if err := h.repo.SaveSpriteSet(r.Context(), set); err != nil {
		h.writeErr(w, "Failed to save sprite set", err)
		return
	}
	slog.Info("Sprite set saved", "sprite_id", set.ID, "name", set.Name, "frames", len(set.Frames))
	h.writeJSONStatus(w, http.StatusCreated, newSpriteSetView(set))
}

func (h *Handler) HandleSpriteDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case "GET":
		set, err := h.repo.GetSpriteSet(r.Context(), id)
		if err != nil {
			h.writeErr(w, "Failed to load sprite set", err)
			return
		}
		h.writeJSON(w, newSpriteSetView(set))
	case "DELETE":
		if err := h.repo.DeleteSpriteSet(r.Context(), id); err != nil {
			h.writeErr(w, "Failed to delete sprite set", err)
			return
		}
		slog.Info("Sprite set deleted", "sprite_id", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.methodNotAllowed(w)
	}
}

// HandleSpriteFrames edits the frame list: {op: "remove", index} or
// {op: "reorder", from, to}.
func (h *Handler) HandleSpriteFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PATCH" {
		h.methodNotAllowed(w)
		return
	}
	set, err := h.repo.GetSpriteSet(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, "Failed to load sprite set", err)
		return
	}

	var request struct {
		Op    string `json:"op"`
		Index int    `json:"index"`
		From  int    `json:"from"`
		To    int    `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch request.Op {
	case "remove":
		err = set.RemoveFrame(request.Index)
	case "reorder":
		err = set.ReorderFrames(request.From, request.To)
	default:
		h.writeError(w, "op must be 'remove' or 'reorder'", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeErr(w, "Failed to edit frames", err)
		return
	}
	if err := h.repo.SaveSpriteSet(r.Context(), set); err != nil {
		h.writeErr(w, "Failed to save sprite set", err)
		return
	}
	h.writeJSON(w, newSpriteSetView(set))
}

// HandleSpriteFrame serves the encoded bytes of frame {n}.png, where n is the
// frame id.
func (h *Handler) HandleSpriteFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.methodNotAllowed(w)
		return
	}
	n, err := strconv.Atoi(strings.TrimSuffix(r.PathValue("file"), ".png"))
	if err != nil {
		h.writeError(w, "Invalid frame", http.StatusBadRequest)
		return
	}
	set, err := h.repo.GetSpriteSet(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, "Failed to load sprite set", err)
		return
	}
	if n < 1 || n > len(set.Frames) {
		h.writeError(w, "Frame not found", http.StatusNotFound)
		return
	}
	f := set.Frames[n-1]
	w.Header().Set("Content-Type", f.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", f.Filename))
	if _, err := w.Write(f.Data); err != nil {
		slog.Error("Unable to write frame", "sprite_id", set.ID, "frame", n, "err", err)
	}
}

// HandleSpriteExport renders a GIF, a sprite sheet or sheet metadata. Query
// parameters override the configured export defaults.
func (h *Handler) HandleSpriteExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.methodNotAllowed(w)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts, err := h.exportOptions(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	set, err := h.repo.GetSpriteSet(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, "Failed to load sprite set", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, set, format, opts); err != nil {
		h.writeErr(w, "Failed to export sprite set", err)
		return
	}
	h.metrics.Export(string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(set)))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write export", "sprite_id", set.ID, "err", err)
	}
}

func (h *Handler) exportOptions(r *http.Request) (export.Options, error) {
	opts, err := export.OptionsFromConfig(h.cfg.Export)
	if err != nil {
		return opts, err
	}
	q := r.URL.Query()
	if v := q.Get("easing"); v != "" {
		if opts.GIF.Easing, err = animation.ParseEasing(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("mode"); v != "" {
		if opts.GIF.Mode, err = animation.ParseMode(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("speed"); v != "" {
		speed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid speed %q", v)
		}
		opts.GIF.FPS = animation.FPSFromSpeed(speed)
	}
	opts.GIF.FPS = queryFloat(r, "fps", opts.GIF.FPS)
	if v := q.Get("loop"); v != "" {
		opts.GIF.Loop = v == "true" || v == "1"
	}
	opts.Sheet.Columns = queryInt(r, "columns", opts.Sheet.Columns)
	opts.Sheet.Padding = queryInt(r, "padding", opts.Sheet.Padding)
	return opts, nil
}
