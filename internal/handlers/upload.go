package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// handleCreateSession opens an editor session from a multipart upload or a
// JSON body carrying image_url.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLUpload(w, r)
		return
	}
	h.handleFileUpload(w, r)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
		sessionParams
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	session, err := h.sessionFromURL(r.Context(), request.ImageURL, request.sessionParams)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			code = http.StatusBadRequest
		}
		h.writeError(w, "Failed to process image URL: "+err.Error(), code)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, session.View())
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("files")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if int64(len(fileData)) > limit {
		h.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	src, err := h.fetcher.Decode(fileData, header.Filename)
	if err != nil {
		h.writeErr(w, "Failed to decode image", err)
		return
	}

	params, err := formSessionParams(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.openSession(src, params)
	if err != nil {
		h.writeErr(w, "Failed to open session", err)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, session.View())
}

// formSessionParams reads the optional session fields of a multipart upload.
// Empty fields keep their zero value so the configured defaults apply.
func formSessionParams(r *http.Request) (sessionParams, error) {
	params := sessionParams{Name: r.FormValue("name"), Topology: r.FormValue("topology")}
	if v := strings.TrimSpace(r.FormValue("frame_count")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("invalid frame_count %q", v)
		}
		params.FrameCount = n
	}
	for _, field := range []struct {
		key string
		dst *float64
	}{
		{"max_width", &params.MaxWidth},
		{"max_height", &params.MaxHeight},
	} {
		v := strings.TrimSpace(r.FormValue(field.key))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, fmt.Errorf("invalid %s %q", field.key, v)
		}
		*field.dst = f
	}
	return params, nil
}
