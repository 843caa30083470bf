// Package export renders sprite sets as animated GIFs and sprite sheets.
package export

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/animation"
	"github.com/pixel-adventure/spritekit/internal/config"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
)

// Format is an export target.
type Format string

const (
	GIF       Format = "gif"
	Sheet     Format = "sheet"
	SheetJSON Format = "sheet-json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case GIF, Sheet, SheetJSON:
		return f, nil
	case "":
		return GIF, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType is the response media type for f.
func (f Format) ContentType() string {
	switch f {
	case GIF:
		return "image/gif"
	case Sheet:
		return "image/png"
	}
	return "application/json"
}

// Filename is the download name for set exported as f.
func (f Format) Filename(set *models.SpriteSet) string {
	base := strings.Join(strings.Fields(strings.ToLower(set.Name)), "_")
	if base == "" {
		base = "sprite"
	}
	switch f {
	case GIF:
		return base + ".gif"
	case Sheet:
		return base + "_sheet.png"
	}
	return base + "_sheet.json"
}

// Options combines the GIF and sheet settings.
type Options struct {
	GIF   animation.GIFOptions
	Sheet animation.SheetOptions
}

// OptionsFromConfig reads export defaults.
func OptionsFromConfig(cfg config.Export) (Options, error) {
	easing, err := animation.ParseEasing(cfg.Easing)
	if err != nil {
		return Options{}, err
	}
	mode, err := animation.ParseMode(cfg.Mode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		GIF:   animation.GIFOptions{FPS: cfg.FPS, Loop: cfg.Loop, Easing: easing, Mode: mode},
		Sheet: animation.SheetOptions{Columns: cfg.Columns, Padding: cfg.Padding},
	}, nil
}

// DecodeFrames decodes every frame of set.
func DecodeFrames(set *models.SpriteSet) ([]image.Image, error) {
	frames := make([]image.Image, 0, len(set.Frames))
	for _, f := range set.Frames {
		img, err := images.DecodeFrame(f.Data)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", f.ID, err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// Write renders set in format f.
func Write(w io.Writer, set *models.SpriteSet, f Format, opts Options) error {
	frames, err := DecodeFrames(set)
	if err != nil {
		return err
	}
	switch f {
	case GIF:
		return animation.EncodeGIF(w, frames, opts.GIF)
	case Sheet:
		sheet, _, err := animation.BuildSpriteSheet(frames, opts.Sheet)
		if err != nil {
			return err
		}
		return imaging.Encode(w, sheet, imaging.PNG)
	case SheetJSON:
		_, meta, err := animation.BuildSpriteSheet(frames, opts.Sheet)
		if err != nil {
			return err
		}
		meta.SpriteSheet = Sheet.Filename(set)
		meta.SpriteSet = &animation.SheetOwner{ID: set.ID, Name: set.Name, Metadata: set.Metadata}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}
	return fmt.Errorf("unknown export format %q", f)
}
