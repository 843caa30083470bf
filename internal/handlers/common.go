package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pixel-adventure/spritekit/internal/animation"
	"github.com/pixel-adventure/spritekit/internal/config"
	"github.com/pixel-adventure/spritekit/internal/editor"
	"github.com/pixel-adventure/spritekit/internal/generation"
	"github.com/pixel-adventure/spritekit/internal/geometry"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/metrics"
	"github.com/pixel-adventure/spritekit/internal/models"
	"github.com/pixel-adventure/spritekit/internal/project"
	"github.com/pixel-adventure/spritekit/internal/slicer"
	"github.com/pixel-adventure/spritekit/internal/storage"
)

type Handler struct {
	cfg          *config.Config
	sessionStore *storage.SessionStore
	repo         storage.SpriteRepository
	generator    *generation.Service
	fetcher      *images.Fetcher
	metrics      *metrics.Metrics
}

// Deps are the collaborators a Handler serves from. Nil fields get defaults
// except Repo, which is required.
type Deps struct {
	Config    *config.Config
	Repo      storage.SpriteRepository
	Generator *generation.Service
	Fetcher   *images.Fetcher
	Metrics   *metrics.Metrics
}

func New(deps Deps) *Handler {
	h := &Handler{
		cfg:          deps.Config,
		sessionStore: storage.New(),
		repo:         deps.Repo,
		generator:    deps.Generator,
		fetcher:      deps.Fetcher,
		metrics:      deps.Metrics,
	}
	if h.cfg == nil {
		h.cfg = config.DefaultConfig()
	}
	if h.generator == nil {
		h.generator = generation.NewService(h.cfg.Generation.Provider, h.cfg.Generation.Temperature)
	}
	if h.fetcher == nil {
		h.fetcher = images.NewFetcher()
		h.fetcher.MaxBytes = h.maxUploadBytes()
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	return h
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("/api/sessions/{id}/grid", h.HandleSessionGrid)
	mux.HandleFunc("/api/sessions/{id}/pointer", h.HandleSessionPointer)
	mux.HandleFunc("/api/sessions/{id}/preview.png", h.HandleSessionPreview)
	mux.HandleFunc("/api/sessions/{id}/slice", h.HandleSessionSlice)

	mux.HandleFunc("/api/sprites", h.HandleSprites)
	mux.HandleFunc("/api/sprites/{id}", h.HandleSpriteDetail)
	mux.HandleFunc("/api/sprites/{id}/frames", h.HandleSpriteFrames)
	mux.HandleFunc("/api/sprites/{id}/frames/{file}", h.HandleSpriteFrame)
	mux.HandleFunc("/api/sprites/{id}/export", h.HandleSpriteExport)

	mux.HandleFunc("/api/folders", h.HandleFolders)
	mux.HandleFunc("/api/folders/{id}", h.HandleFolderDetail)
	mux.HandleFunc("/api/folders/{id}/frames", h.HandleFolderFrames)
	mux.HandleFunc("/api/folders/{id}/export", h.HandleFolderExport)

	mux.HandleFunc("/api/generate", h.HandleGenerate)
	mux.Handle("/metrics", h.metrics.Handler())
	mux.HandleFunc("/", h.HandleStatic)
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "status", code)
	}
	http.Error(w, message, code)
}

// writeErr maps domain errors onto HTTP status codes.
func (h *Handler) writeErr(w http.ResponseWriter, prefix string, err error) {
	h.writeError(w, prefix+": "+err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, slicer.ErrDegenerateInterval),
		errors.Is(err, slicer.ErrEmptySource),
		errors.Is(err, animation.ErrNoFrames):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geometry.ErrInvalidDimension),
		errors.Is(err, grid.ErrInvalidFrameCount),
		errors.Is(err, grid.ErrInvalidTopology),
		errors.Is(err, images.ErrDecode),
		errors.Is(err, models.ErrFrameIndex),
		errors.Is(err, project.ErrInvalidFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*editor.Session, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (h *Handler) maxUploadBytes() int64 {
	if h.cfg.Server.MaxUploadBytes <= 0 {
		return images.MaxImageBytes
	}
	return h.cfg.Server.MaxUploadBytes
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter) {
	h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// frameView is a frame with a URL clients can load it from.
type frameView struct {
	models.Frame
	URL string `json:"url"`
}

func frameViews(frames []models.Frame, urlFor func(models.Frame) string) []frameView {
	out := make([]frameView, 0, len(frames))
	for _, f := range frames {
		out = append(out, frameView{Frame: f, URL: urlFor(f)})
	}
	return out
}

func dataURL(f models.Frame) string { return f.DataURL() }

func spriteFrameURL(spriteID string) func(models.Frame) string {
	return func(f models.Frame) string {
		return "/api/sprites/" + spriteID + "/frames/" + strconv.Itoa(f.ID) + ".png"
	}
}

type spriteSetView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Frames   []frameView     `json:"frames"`
	Metadata models.Metadata `json:"metadata"`
}

func newSpriteSetView(set *models.SpriteSet) spriteSetView {
	return spriteSetView{
		ID:       set.ID,
		Name:     set.Name,
		Frames:   frameViews(set.Frames, spriteFrameURL(set.ID)),
		Metadata: set.Metadata,
	}
}

type folderView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Frames []frameView `json:"frames"`
}

func newFolderView(f *models.Folder) folderView {
	return folderView{ID: f.ID, Name: f.Name, Frames: frameViews(f.Frames, dataURL)}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return fallback
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64); err == nil {
		return v
	}
	return fallback
}
