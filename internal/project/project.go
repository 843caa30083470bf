package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
)

const Version = "1.0.0"

var ErrInvalidFormat = errors.New("invalid project file format")

// Archive is the JSON project file.
type Archive struct {
	Version    string      `json:"version"`
	Timestamp  time.Time   `json:"timestamp"`
	SpriteSets []spriteSet `json:"spriteSets"`
}

type spriteSet struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Frames   []frame         `json:"frames"`
	Metadata models.Metadata `json:"metadata"`
}

type frame struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     string `json:"data"`
}

// ExportJSON writes sets as a JSON project with frames inlined as data URLs.
func ExportJSON(w io.Writer, sets []*models.SpriteSet) error {
	archive := Archive{Version: Version, Timestamp: time.Now(), SpriteSets: make([]spriteSet, 0, len(sets))}
	for _, set := range sets {
		out := spriteSet{ID: set.ID, Name: set.Name, Metadata: set.Metadata, Frames: make([]frame, 0, len(set.Frames))}
		for _, f := range set.Frames {
			out.Frames = append(out.Frames, frame{
				ID: f.ID, Filename: f.Filename, X: f.X, Y: f.Y, Width: f.Width, Height: f.Height,
				Data: f.DataURL(),
			})
		}
		archive.SpriteSets = append(archive.SpriteSets, out)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(archive)
}

// ImportJSON reads a JSON project.
func ImportJSON(r io.Reader) ([]*models.SpriteSet, error) {
	var raw struct {
		Version    string       `json:"version"`
		SpriteSets *[]spriteSet `json:"spriteSets"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if raw.SpriteSets == nil {
		return nil, ErrInvalidFormat
	}
	if raw.Version != "" && raw.Version != Version {
		slog.Warn("Importing project from a different version", "version", raw.Version)
	}

	sets := make([]*models.SpriteSet, 0, len(*raw.SpriteSets))
	for _, in := range *raw.SpriteSets {
		set := &models.SpriteSet{ID: in.ID, Name: in.Name, Metadata: in.Metadata}
		for i, f := range in.Frames {
			mime, data, err := images.ParseDataURL(f.Data)
			if err != nil {
				return nil, fmt.Errorf("sprite set %q frame %d: %w", in.Name, i+1, err)
			}
			set.AddFrame(models.Frame{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height, MIMEType: mime, Data: data})
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// ExportFile writes sets to path, choosing the format from its extension.
func ExportFile(path string, sets []*models.SpriteSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create project file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		err = ExportParquet(f, sets)
	default:
		err = ExportJSON(f, sets)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// ImportFile reads a project written by ExportFile.
func ImportFile(path string) ([]*models.SpriteSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".parquet" {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		return ImportParquet(f, info.Size())
	}
	return ImportJSON(f)
}
