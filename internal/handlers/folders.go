package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pixel-adventure/spritekit/internal/models"
)

func (h *Handler) HandleFolders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		folders, err := h.repo.ListFolders(r.Context())
		if err != nil {
			h.writeErr(w, "Failed to list folders", err)
			return
		}
		views := make([]folderView, 0, len(folders))
		for _, f := range folders {
			views = append(views, newFolderView(f))
		}
		h.writeJSON(w, views)
	case "POST":
		var request struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(request.Name)
		if name == "" {
			h.writeError(w, "name is required", http.StatusBadRequest)
			return
		}
		folder := models.NewFolder(name)
		if err := h.repo.SaveFolder(r.Context(), folder); err != nil {
			h.writeErr(w, "Failed to create folder", err)
			return
		}
		h.writeJSONStatus(w, http.StatusCreated, newFolderView(folder))
	default:
		h.methodNotAllowed(w)
	}
}

func (h *Handler) HandleFolderDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case "GET":
		folder, err := h.repo.GetFolder(r.Context(), id)
		if err != nil {
			h.writeErr(w, "Failed to load folder", err)
			return
		}
		h.writeJSON(w, newFolderView(folder))
	case "PUT":
		folder, err := h.repo.GetFolder(r.Context(), id)
		if err != nil {
			h.writeErr(w, "Failed to load folder", err)
			return
		}
		var request struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if name := strings.TrimSpace(request.Name); name != "" {
			folder.Name = name
		}
		if err := h.repo.SaveFolder(r.Context(), folder); err != nil {
			h.writeErr(w, "Failed to save folder", err)
			return
		}
		h.writeJSON(w, newFolderView(folder))
	case "DELETE":
		if err := h.repo.DeleteFolder(r.Context(), id); err != nil {
			h.writeErr(w, "Failed to delete folder", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.methodNotAllowed(w)
	}
}

// HandleFolderFrames copies a frame out of a sprite set into the folder
// (POST {sprite_id, index}) or drops one (DELETE ?index=n).
func (h *Handler) HandleFolderFrames(w http.ResponseWriter, r *http.Request) {
	folder, err := h.repo.GetFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, "Failed to load folder", err)
		return
	}

	switch r.Method {
	case "POST":
		var request struct {
			SpriteID string `json:"sprite_id"`
			Index    int    `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		set, err := h.repo.GetSpriteSet(r.Context(), request.SpriteID)
		if err != nil {
			h.writeErr(w, "Failed to load sprite set", err)
			return
		}
		if request.Index < 0 || request.Index >= len(set.Frames) {
			h.writeError(w, "Frame index out of range", http.StatusBadRequest)
			return
		}
		folder.AddFrame(set.Frames[request.Index])
	case "DELETE":
		if err := folder.RemoveFrame(queryInt(r, "index", -1)); err != nil {
			h.writeErr(w, "Failed to remove frame", err)
			return
		}
	default:
		h.methodNotAllowed(w)
		return
	}

	if err := h.repo.SaveFolder(r.Context(), folder); err != nil {
		h.writeErr(w, "Failed to save folder", err)
		return
	}
	h.writeJSON(w, newFolderView(folder))
}

// folderArchive is the downloadable form of a folder: frames inlined as data URLs.
type folderArchive struct {
	Name      string    `json:"name"`
	Frames    []string  `json:"frames"`
	CreatedAt time.Time `json:"createdAt"`
}

func folderArchiveFilename(name string) string {
	return strings.Join(strings.Fields(name), "_") + "_animation.json"
}

// HandleFolderExport downloads a folder as <name>_animation.json.
func (h *Handler) HandleFolderExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.methodNotAllowed(w)
		return
	}
	folder, err := h.repo.GetFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, "Failed to load folder", err)
		return
	}

	archive := folderArchive{Name: folder.Name, Frames: make([]string, 0, len(folder.Frames)), CreatedAt: folder.CreatedAt}
	for _, f := range folder.Frames {
		archive.Frames = append(archive.Frames, f.DataURL())
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		h.writeError(w, "Failed to encode folder: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.metrics.Export("folder")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", folderArchiveFilename(folder.Name)))
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write folder export", "folder_id", folder.ID, "err", err)
	}
}
