package grid

import (
	"fmt"
	"strings"
)

// Axis identifies the direction a cut line is measured along.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Topology selects which axes carry cut lines.
type Topology string

const (
	// Rows stacks frames vertically and cuts along Y.
	Rows Topology = "rows"
	// Columns places frames side by side and cuts along X.
	Columns Topology = "columns"
	// Grid cuts along both axes.
	Grid Topology = "grid"
)

// ParseTopology accepts the canonical names plus the older
// "vertical"/"horizontal" spellings used by saved projects.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rows", "row", "vertical":
		return Rows, nil
	case "columns", "column", "cols", "horizontal":
		return Columns, nil
	case "grid":
		return Grid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTopology, s)
}

// Valid reports whether t is one of the known topologies.
func (t Topology) Valid() bool {
	return t == Rows || t == Columns || t == Grid
}

// Active reports whether lines on axis a take part in slicing.
func (t Topology) Active(a Axis) bool {
	switch t {
	case Rows:
		return a == AxisY
	case Columns:
		return a == AxisX
	case Grid:
		return true
	}
	return false
}

// Lines holds cut positions per axis, in display space, ascending.
type Lines struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Clone returns a deep copy so later edits cannot reach the snapshot.
func (l Lines) Clone() Lines {
	return Lines{
		X: append(make([]float64, 0, len(l.X)), l.X...),
		Y: append(make([]float64, 0, len(l.Y)), l.Y...),
	}
}

// Axis returns the line slice for a.
func (l Lines) Axis(a Axis) []float64 {
	if a == AxisY {
		return l.Y
	}
	return l.X
}

func (l *Lines) set(a Axis, values []float64) {
	if a == AxisY {
		l.Y = values
		return
	}
	l.X = values
}
