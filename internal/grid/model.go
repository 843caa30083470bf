package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pixel-adventure/spritekit/internal/geometry"
)

var (
	ErrInvalidFrameCount = errors.New("invalid frame count")
	ErrInvalidTopology   = errors.New("invalid topology")
)

const (
	// MinFrameCount is the smallest frame count that produces a cut.
	MinFrameCount = 2
	// DefaultHitTolerance matches the drag handle hit radius in display pixels.
	DefaultHitTolerance = 10.0
	// Epsilon keeps lines strictly inside the open interval (0, dimension).
	Epsilon = 0.01
)

// Crossing decides what happens when a dragged line reaches a neighbour.
type Crossing string

const (
	// CrossingReorder lets lines pass each other; the axis is re-sorted.
	CrossingReorder Crossing = "reorder"
	// CrossingBlock stops a line just short of its neighbours.
	CrossingBlock Crossing = "block"
)

// Initialize places frameCount-1 evenly spaced lines on each active axis.
func Initialize(frameCount int, topology Topology, displayWidth, displayHeight float64) (Lines, error) {
	if frameCount < MinFrameCount {
		return Lines{}, fmt.Errorf("%w: %d (need at least %d)", ErrInvalidFrameCount, frameCount, MinFrameCount)
	}
	if !topology.Valid() {
		return Lines{}, fmt.Errorf("%w: %q", ErrInvalidTopology, topology)
	}
	if !(displayWidth > 0) || !(displayHeight > 0) {
		return Lines{}, fmt.Errorf("%w: display is %gx%g", geometry.ErrInvalidDimension, displayWidth, displayHeight)
	}

	lines := Lines{X: []float64{}, Y: []float64{}}
	if topology.Active(AxisX) {
		lines.X = evenlySpaced(frameCount, displayWidth)
	}
	if topology.Active(AxisY) {
		lines.Y = evenlySpaced(frameCount, displayHeight)
	}
	return lines, nil
}

func evenlySpaced(frameCount int, dimension float64) []float64 {
	step := dimension / float64(frameCount)
	out := make([]float64, 0, frameCount-1)
	for i := 1; i < frameCount; i++ {
		out = append(out, float64(i)*step)
	}
	return out
}

// MoveLine returns a copy of lines with the line at index on axis moved to
// coord. The coordinate is clamped inside (0, dimension) and the axis is
// re-sorted, so a line dragged past a neighbour swaps places with it.
// Moves that would land exactly on another line are ignored.
func MoveLine(lines Lines, axis Axis, index int, coord, displayWidth, displayHeight float64) Lines {
	return moveLine(lines, axis, index, coord, displayWidth, displayHeight, Epsilon, CrossingReorder)
}

func moveLine(lines Lines, axis Axis, index int, coord, displayWidth, displayHeight, edge float64, crossing Crossing) Lines {
	out := lines.Clone()
	values := out.Axis(axis)
	if index < 0 || index >= len(values) || math.IsNaN(coord) {
		return out
	}

	dimension := displayWidth
	if axis == AxisY {
		dimension = displayHeight
	}
	if !(edge > Epsilon) || 2*edge >= dimension {
		edge = Epsilon
	}
	lo, hi := edge, dimension-edge
	if crossing == CrossingBlock {
		if index > 0 {
			lo = math.Max(lo, values[index-1]+Epsilon)
		}
		if index < len(values)-1 {
			hi = math.Min(hi, values[index+1]-Epsilon)
		}
		if lo > hi {
			return out
		}
	}
	coord = math.Max(lo, math.Min(hi, coord))

	for i, v := range values {
		if i != index && v == coord {
			return out
		}
	}

	values[index] = coord
	if crossing != CrossingBlock {
		sort.Float64s(values)
	}
	out.set(axis, values)
	return out
}

// HitTest returns the index of the first line on axis closer than tolerance
// to coord. A pointer exactly tolerance away is a miss.
func HitTest(lines Lines, axis Axis, coord, tolerance float64) (int, bool) {
	for i, v := range lines.Axis(axis) {
		if math.Abs(v-coord) < tolerance {
			return i, true
		}
	}
	return -1, false
}

// Model owns the authoritative cut lines for one image.
type Model struct {
	frameCount    int
	topology      Topology
	displayWidth  float64
	displayHeight float64
	crossing      Crossing
	edgeMargin    float64
	lines         Lines
}

// NewModel builds a model with evenly spaced lines.
func NewModel(frameCount int, topology Topology, displayWidth, displayHeight float64, crossing Crossing) (*Model, error) {
	m := &Model{crossing: crossing}
	if m.crossing == "" {
		m.crossing = CrossingReorder
	}
	if err := m.Reset(frameCount, topology, displayWidth, displayHeight); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset re-initializes the lines after a frame count, topology or image change.
// On error the previous state is kept.
func (m *Model) Reset(frameCount int, topology Topology, displayWidth, displayHeight float64) error {
	lines, err := Initialize(frameCount, topology, displayWidth, displayHeight)
	if err != nil {
		return err
	}
	m.frameCount = frameCount
	m.topology = topology
	m.displayWidth = displayWidth
	m.displayHeight = displayHeight
	m.lines = lines
	return nil
}

// MoveLine moves one line and returns the new state.
func (m *Model) MoveLine(axis Axis, index int, coord float64) Lines {
	m.lines = moveLine(m.lines, axis, index, coord, m.displayWidth, m.displayHeight, m.edgeMargin, m.crossing)
	return m.lines.Clone()
}

// SetEdgeMargin keeps dragged lines at least margin display pixels away from
// both edges. Margins at or below Epsilon, or too wide for the display, fall
// back to Epsilon.
func (m *Model) SetEdgeMargin(margin float64) { m.edgeMargin = margin }

func (m *Model) Lines() Lines { return m.lines.Clone() }
func (m *Model) FrameCount() int { return m.frameCount }
func (m *Model) Topology() Topology { return m.topology }
func (m *Model) Crossing() Crossing { return m.crossing }
func (m *Model) DisplayWidth() float64 { return m.displayWidth }
func (m *Model) DisplayHeight() float64 { return m.displayHeight }
