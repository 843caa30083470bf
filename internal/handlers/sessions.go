package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/models"
)

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.sessionStore.GetAll()
		sessionList := make([]models.EditorSession, 0, len(sessions))
		for _, session := range sessions {
			sessionList = append(sessionList, session.View())
		}
		h.writeJSON(w, sessionList)
	case "POST":
		h.handleCreateSession(w, r)
	default:
		h.methodNotAllowed(w)
	}
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, session.View())
	case "DELETE":
		h.sessionStore.Delete(sessionID)
		h.metrics.SetActiveSessions(h.sessionStore.Len())
		slog.Info("Editor session closed", "session_id", sessionID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.methodNotAllowed(w)
	}
}

func (h *Handler) HandleSessionGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.methodNotAllowed(w)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var request struct {
		FrameCount int    `json:"frame_count"`
		Topology   string `json:"topology"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	frameCount, topology, _ := session.Snapshot()
	if request.FrameCount != 0 {
		frameCount = request.FrameCount
	}
	if request.Topology != "" {
		t, err := grid.ParseTopology(request.Topology)
		if err != nil {
			h.writeErr(w, "Invalid topology", err)
			return
		}
		topology = t
	}
	if err := session.Configure(frameCount, topology); err != nil {
		h.writeErr(w, "Failed to reset grid", err)
		return
	}
	h.writeJSON(w, session.View())
}

func (h *Handler) HandleSessionPointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.methodNotAllowed(w)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var ev grid.PointerEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch ev.Kind {
	case grid.PointerDown, grid.PointerMove, grid.PointerUp, grid.PointerLeave:
	default:
		h.writeError(w, "Unknown pointer event type: "+string(ev.Kind), http.StatusBadRequest)
		return
	}

	view := session.Pointer(ev)
	if ev.Kind == grid.PointerMove && view.State == grid.Dragging {
		h.metrics.GridMove(string(view.DragAxis))
	}
	h.writeJSON(w, view)
}

func (h *Handler) HandleSessionPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.methodNotAllowed(w)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	img := session.Preview(r.URL.Query().Get("labels") != "false")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		slog.Error("Unable to encode preview", "session_id", session.ID, "err", err)
	}
}

func (h *Handler) HandleSessionSlice(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.methodNotAllowed(w)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var request struct {
		Save     bool            `json:"save"`
		Name     string          `json:"name"`
		Metadata models.Metadata `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	_, topology, _ := session.Snapshot()
	start := time.Now()
	seq, err := session.Slice(r.Context())
	frames := 0
	if seq != nil {
		frames = seq.Len()
	}
	h.metrics.ObserveSlice(string(topology), frames, time.Since(start), err)
	if err != nil {
		h.writeErr(w, "Failed to slice image", err)
		return
	}

	response := map[string]any{
		"session_id": session.ID,
		"id":         seq.ID,
		"frames":     frameViews(seq.Frames, dataURL),
		"created_at": seq.CreatedAt,
	}
	if request.Save {
		name := request.Name
		if name == "" && request.Metadata.Object == "" {
			name = session.Name
		}
		set := models.NewSpriteSet(name, seq, request.Metadata)
		if err := h.repo.SaveSpriteSet(r.Context(), set); err != nil {
			h.writeErr(w, "Failed to save sprite set", err)
			return
		}
		slog.Info("Sprite set saved", "sprite_id", set.ID, "name", set.Name, "frames", len(set.Frames))
		response["sprite_id"] = set.ID
	}
	h.writeJSON(w, response)
}
