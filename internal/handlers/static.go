package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")

	// ?image=<url> opens an editor session and redirects to it.
	imageURL := r.URL.Query().Get("image")
	if imageURL != "" {
		params := sessionParams{
			Topology:   r.URL.Query().Get("topology"),
			FrameCount: queryInt(r, "frames", 0),
		}
		session, err := h.sessionFromURL(r.Context(), imageURL, params)
		if err != nil {
			slog.Error("Failed to create session from URL", "url", imageURL, "err", err)
			http.Error(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/?session="+session.ID, http.StatusFound)
		return
	}

	if path == "" {
		path = "index.html"
	}
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFile(w, r, filepath.Join(h.cfg.Server.StaticDir, filepath.FromSlash(path)))
}
