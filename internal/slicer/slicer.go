package slicer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/geometry"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
)

var (
	ErrEmptySource        = errors.New("empty source image")
	ErrDegenerateInterval = errors.New("degenerate interval")
)

// DegenerateIntervalError reports two adjacent boundaries that collapsed
// onto the same pixel (or out of order) after rounding.
type DegenerateIntervalError struct {
	Axis  grid.Axis
	Index int
	Start int
	End   int
}

func (e *DegenerateIntervalError) Error() string {
	return fmt.Sprintf("degenerate interval %d on %s axis: [%d, %d)", e.Index, e.Axis, e.Start, e.End)
}

func (e *DegenerateIntervalError) Is(target error) bool { return target == ErrDegenerateInterval }

// Region is one frame rectangle in source pixels.
type Region struct {
	Index int
	Row   int
	Col   int
	Rect  image.Rectangle
}

// Boundaries rounds each cut once and returns [0, cuts..., dimension]. Each
// rounded cut is shared by the interval before and after it, so consecutive
// intervals never gap or overlap.
func Boundaries(cuts []float64, dimension int, axis grid.Axis) ([]int, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %s dimension is %d", ErrEmptySource, axis, dimension)
	}
	sorted := append([]float64(nil), cuts...)
	sort.Float64s(sorted)

	bounds := make([]int, 0, len(sorted)+2)
	bounds = append(bounds, 0)
	for _, c := range sorted {
		bounds = append(bounds, int(math.Round(c)))
	}
	bounds = append(bounds, dimension)

	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, &DegenerateIntervalError{Axis: axis, Index: i - 1, Start: bounds[i-1], End: bounds[i]}
		}
	}
	return bounds, nil
}

// Partition turns source-space cuts into frame rectangles. Grid output is
// row-major: the outer loop walks Y intervals, the inner loop X intervals.
func Partition(width, height int, cuts grid.Lines, topology grid.Topology) ([]Region, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptySource, width, height)
	}
	if !topology.Valid() {
		return nil, fmt.Errorf("%w: %q", grid.ErrInvalidTopology, topology)
	}

	xs := []int{0, width}
	ys := []int{0, height}
	var err error
	if topology.Active(grid.AxisX) {
		if xs, err = Boundaries(cuts.X, width, grid.AxisX); err != nil {
			return nil, err
		}
	}
	if topology.Active(grid.AxisY) {
		if ys, err = Boundaries(cuts.Y, height, grid.AxisY); err != nil {
			return nil, err
		}
	}

	regions := make([]Region, 0, (len(xs)-1)*(len(ys)-1))
	for row := 0; row < len(ys)-1; row++ {
		for col := 0; col < len(xs)-1; col++ {
			regions = append(regions, Region{
				Index: len(regions),
				Row:   row,
				Col:   col,
				Rect:  image.Rect(xs[col], ys[row], xs[col+1], ys[row+1]),
			})
		}
	}
	return regions, nil
}

// Slice cuts img along source-space cuts and encodes each frame with enc.
// Pixels are copied exactly; nothing is resampled.
func Slice(ctx context.Context, img image.Image, cuts grid.Lines, topology grid.Topology, enc images.Encoder) ([]models.Frame, error) {
	if img == nil {
		return nil, ErrEmptySource
	}
	b := img.Bounds()
	regions, err := Partition(b.Dx(), b.Dy(), cuts, topology)
	if err != nil {
		return nil, err
	}

	frames := make([]models.Frame, 0, len(regions))
	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sub := imaging.Crop(img, r.Rect.Add(b.Min))
		data, err := images.EncodeBytes(enc, sub)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", r.Index, err)
		}
		frames = append(frames, models.Frame{
			Index:    r.Index,
			X:        r.Rect.Min.X,
			Y:        r.Rect.Min.Y,
			Width:    r.Rect.Dx(),
			Height:   r.Rect.Dy(),
			MIMEType: enc.MIMEType(),
			Data:     data,
		})
	}
	return frames, nil
}

// SliceImage slices a decoded source using display-space lines taken from an
// editor. Only the axes active for topology are used; each must carry
// exactly frameCount-1 lines.
func SliceImage(ctx context.Context, src *images.Source, frameCount int, topology grid.Topology, lines grid.Lines, t geometry.Transform, enc images.Encoder) (*models.FrameSequence, error) {
	if frameCount < grid.MinFrameCount {
		return nil, fmt.Errorf("%w: %d", grid.ErrInvalidFrameCount, frameCount)
	}
	if src == nil || src.Image == nil || src.Image.Bounds().Empty() {
		return nil, ErrEmptySource
	}
	if !topology.Valid() {
		return nil, fmt.Errorf("%w: %q", grid.ErrInvalidTopology, topology)
	}
	if !(t.Scale > 0) {
		return nil, fmt.Errorf("%w: scale %g", geometry.ErrInvalidDimension, t.Scale)
	}
	if enc == nil {
		enc = images.PNGEncoder{}
	}

	snapshot := lines.Clone()
	cuts := grid.Lines{X: []float64{}, Y: []float64{}}
	for _, axis := range []grid.Axis{grid.AxisX, grid.AxisY} {
		if !topology.Active(axis) {
			continue
		}
		display := snapshot.Axis(axis)
		if len(display) != frameCount-1 {
			return nil, fmt.Errorf("%w: %s axis has %d lines, expected %d", grid.ErrInvalidFrameCount, axis, len(display), frameCount-1)
		}
		source := make([]float64, len(display))
		for i, d := range display {
			source[i] = geometry.ToSource(d, t.Scale)
		}
		if axis == grid.AxisX {
			cuts.X = source
		} else {
			cuts.Y = source
		}
	}

	frames, err := Slice(ctx, src.Image, cuts, topology, enc)
	if err != nil {
		return nil, err
	}
	seq := models.NewFrameSequence(frames)
	slog.Info("Image sliced", "source", src.Name, "topology", topology, "frames", seq.Len())
	return seq, nil
}
