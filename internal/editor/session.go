package editor

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/pixel-adventure/spritekit/internal/geometry"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
	"github.com/pixel-adventure/spritekit/internal/overlay"
	"github.com/pixel-adventure/spritekit/internal/slicer"
)

// Options configures a new session.
type Options struct {
	MaxWidth     float64
	MaxHeight    float64
	FrameCount   int
	Topology     grid.Topology
	HitTolerance float64
	Crossing     grid.Crossing
	Encoder      images.Encoder
	// OnChange receives a copy of the lines after every drag step or reset.
	OnChange func(sessionID string, lines grid.Lines)
}

// Session is one image being sliced. All pointer input for a session is
// serialized by its mutex.
type Session struct {
	ID        string
	Name      string
	Source    *images.Source
	Transform geometry.Transform
	CreatedAt time.Time

	mu         sync.Mutex
	model      *grid.Model
	controller *grid.Controller
	encoder    images.Encoder
}

// New fits src into the viewport and lays out an even grid.
func New(id string, src *images.Source, opts Options) (*Session, error) {
	if src == nil || src.Image == nil {
		return nil, slicer.ErrEmptySource
	}
	t, err := geometry.Fit(src.Width, src.Height, opts.MaxWidth, opts.MaxHeight)
	if err != nil {
		return nil, err
	}
	model, err := grid.NewModel(opts.FrameCount, opts.Topology, t.DisplayWidth, t.DisplayHeight, opts.Crossing)
	if err != nil {
		return nil, err
	}
	// One source pixel, so an edge line never rounds onto the image border.
	model.SetEdgeMargin(t.Scale)

	s := &Session{
		ID:        id,
		Name:      src.Name,
		Source:    src,
		Transform: t,
		CreatedAt: time.Now(),
		model:     model,
		encoder:   opts.Encoder,
	}
	if s.encoder == nil {
		s.encoder = images.PNGEncoder{}
	}
	var onChange func(grid.Lines)
	if opts.OnChange != nil {
		onChange = func(lines grid.Lines) { opts.OnChange(id, lines) }
	}
	s.controller = grid.NewController(model, opts.HitTolerance, onChange)
	return s, nil
}

// Pointer feeds one pointer event, given in page coordinates relative to the
// canvas origin, and returns the updated view.
func (s *Session) Pointer(ev grid.PointerEvent) models.EditorSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.X, ev.Y = s.Transform.Local(ev.X, ev.Y)
	s.controller.Handle(ev)
	return s.viewLocked()
}

// Configure changes frame count and topology, resetting the lines.
func (s *Session) Configure(frameCount int, topology grid.Topology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Reset(frameCount, topology)
}

// Snapshot returns the current slicing parameters by value.
func (s *Session) Snapshot() (int, grid.Topology, grid.Lines) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.FrameCount(), s.model.Topology(), s.model.Lines()
}

// Slice cuts the source with a snapshot of the current lines. Drags that
// arrive while slicing do not affect the result.
func (s *Session) Slice(ctx context.Context) (*models.FrameSequence, error) {
	frameCount, topology, lines := s.Snapshot()
	return slicer.SliceImage(ctx, s.Source, frameCount, topology, lines, s.Transform, s.encoder)
}

// Preview renders the scaled source with the grid drawn on top.
func (s *Session) Preview(labels bool) image.Image {
	s.mu.Lock()
	lines := s.model.Lines()
	topology := s.model.Topology()
	opts := overlay.Options{ActiveIndex: -1, Labels: labels, Topology: topology}
	if axis, idx, ok := s.controller.Active(); ok {
		opts.ActiveAxis, opts.ActiveIndex = axis, idx
	}
	s.mu.Unlock()
	return overlay.Render(s.Source.Image, s.Transform, lines, opts)
}

// View returns the JSON view of the session.
func (s *Session) View() models.EditorSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() models.EditorSession {
	v := models.EditorSession{
		ID:           s.ID,
		Name:         s.Name,
		SourceWidth:  s.Source.Width,
		SourceHeight: s.Source.Height,
		SourceFormat: s.Source.Format,
		Transform:    s.Transform,
		FrameCount:   s.model.FrameCount(),
		Topology:     s.model.Topology(),
		Lines:        s.model.Lines(),
		State:        s.controller.State(),
		CreatedAt:    s.CreatedAt,
	}
	if axis, idx, ok := s.controller.Active(); ok {
		v.DragAxis = axis
		v.DragIndex = &idx
	}
	return v
}
