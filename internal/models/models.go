package models

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pixel-adventure/spritekit/internal/geometry"
	"github.com/pixel-adventure/spritekit/internal/grid"
)

// Frame is one encoded sub-image cut from a source image.
type Frame struct {
	ID       int    `json:"id"`
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// DataURL renders the frame as an inline data URL.
func (f Frame) DataURL() string {
	mime := f.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// FrameFilename is the download name of the frame with the given id.
func FrameFilename(id int) string {
	return fmt.Sprintf("frame_%d.png", id)
}

// FrameSequence is the ordered output of one slice.
type FrameSequence struct {
	ID        string    `json:"id"`
	Frames    []Frame   `json:"frames"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFrameSequence numbers frames in the order given: index i gets id i+1.
func NewFrameSequence(frames []Frame) *FrameSequence {
	renumber(frames)
	return &FrameSequence{
		ID:        uuid.NewString(),
		Frames:    frames,
		CreatedAt: time.Now(),
	}
}

func (s *FrameSequence) Len() int { return len(s.Frames) }

func renumber(frames []Frame) {
	for i := range frames {
		frames[i].Index = i
		frames[i].ID = i + 1
		frames[i].Filename = FrameFilename(i + 1)
	}
}

// EditorSession is the client view of an interactive slicing session.
type EditorSession struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	SourceWidth  int                `json:"source_width"`
	SourceHeight int                `json:"source_height"`
	SourceFormat string             `json:"source_format"`
	Transform    geometry.Transform `json:"transform"`
	FrameCount   int                `json:"frame_count"`
	Topology     grid.Topology      `json:"topology"`
	Lines        grid.Lines         `json:"lines"`
	State        grid.State         `json:"state"`
	DragAxis     grid.Axis          `json:"drag_axis,omitempty"`
	DragIndex    *int               `json:"drag_index,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
