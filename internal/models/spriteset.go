package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrFrameIndex = errors.New("frame index out of range")

// Metadata describes how a sprite set was produced.
type Metadata struct {
	Style      string    `json:"style,omitempty"`
	Object     string    `json:"object,omitempty"`
	Action     string    `json:"action,omitempty"`
	Background string    `json:"background,omitempty"`
	Prompt     string    `json:"prompt,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SpriteSet is a named, persisted animation.
type SpriteSet struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Frames   []Frame  `json:"frames"`
	Metadata Metadata `json:"metadata"`
}

// NewSpriteSet wraps a frame sequence. An empty name falls back to the
// object and action from metadata.
func NewSpriteSet(name string, seq *FrameSequence, meta Metadata) *SpriteSet {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}
	if name == "" {
		name = defaultName(meta)
	}
	var frames []Frame
	if seq != nil {
		frames = append(frames, seq.Frames...)
	}
	renumber(frames)
	return &SpriteSet{
		ID:       uuid.NewString(),
		Name:     name,
		Frames:   frames,
		Metadata: meta,
	}
}

func defaultName(meta Metadata) string {
	switch {
	case meta.Object != "" && meta.Action != "":
		return meta.Object + " " + meta.Action
	case meta.Object != "":
		return meta.Object
	}
	return "Sprite " + meta.CreatedAt.Format("2006-01-02 15:04")
}

// AddFrame appends a frame and renumbers.
func (s *SpriteSet) AddFrame(f Frame) {
	s.Frames = append(s.Frames, f)
	renumber(s.Frames)
}

// RemoveFrame drops the frame at index.
func (s *SpriteSet) RemoveFrame(index int) error {
	if index < 0 || index >= len(s.Frames) {
		return fmt.Errorf("%w: %d of %d", ErrFrameIndex, index, len(s.Frames))
	}
	s.Frames = append(s.Frames[:index], s.Frames[index+1:]...)
	renumber(s.Frames)
	return nil
}

// ReorderFrames moves the frame at from so it ends up at to.
func (s *SpriteSet) ReorderFrames(from, to int) error {
	n := len(s.Frames)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d of %d", ErrFrameIndex, from, to, n)
	}
	f := s.Frames[from]
	s.Frames = append(s.Frames[:from], s.Frames[from+1:]...)
	s.Frames = append(s.Frames[:to], append([]Frame{f}, s.Frames[to:]...)...)
	renumber(s.Frames)
	return nil
}

// Folder groups frames collected from several sprite sets.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frames    []Frame   `json:"frames"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFolder creates an empty folder.
func NewFolder(name string) *Folder {
	return &Folder{
		ID:        uuid.NewString(),
		Name:      name,
		Frames:    []Frame{},
		CreatedAt: time.Now(),
	}
}

// AddFrame appends frame to the folder.
func (f *Folder) AddFrame(frame Frame) {
	f.Frames = append(f.Frames, frame)
	renumber(f.Frames)
}

// RemoveFrame drops the frame at index.
func (f *Folder) RemoveFrame(index int) error {
	if index < 0 || index >= len(f.Frames) {
		return fmt.Errorf("%w: %d of %d", ErrFrameIndex, index, len(f.Frames))
	}
	f.Frames = append(f.Frames[:index], f.Frames[index+1:]...)
	renumber(f.Frames)
	return nil
}
