package grid

// State is the drag state of a Controller.
type State string

const (
	Idle     State = "idle"
	Dragging State = "dragging"
)

// EventKind names a pointer event.
type EventKind string

const (
	PointerDown  EventKind = "down"
	PointerMove  EventKind = "move"
	PointerUp    EventKind = "up"
	PointerLeave EventKind = "leave"
)

// PointerEvent is a pointer position in display space.
type PointerEvent struct {
	Kind EventKind `json:"type"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Controller turns pointer events into line moves on a Model. It never
// returns errors: out of range positions are clamped by the model.
type Controller struct {
	model     *Model
	tolerance float64
	onChange  func(Lines)

	state State
	axis  Axis
	index int
}

// NewController wires a controller to model. onChange, when non-nil, receives
// a copy of the lines after every committed move and after Reset.
func NewController(model *Model, tolerance float64, onChange func(Lines)) *Controller {
	if tolerance <= 0 {
		tolerance = DefaultHitTolerance
	}
	return &Controller{
		model:     model,
		tolerance: tolerance,
		onChange:  onChange,
		state:     Idle,
		index:     -1,
	}
}

// Handle dispatches ev and reports whether the lines changed.
func (c *Controller) Handle(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerDown:
		c.Down(ev.X, ev.Y)
	case PointerMove:
		return c.Move(ev.X, ev.Y)
	case PointerUp, PointerLeave:
		c.Release()
	}
	return false
}

// Down starts a drag when the pointer is over a line. X lines win over Y lines.
func (c *Controller) Down(x, y float64) bool {
	if c.state == Dragging {
		return true
	}
	lines := c.model.Lines()
	if i, ok := HitTest(lines, AxisX, x, c.tolerance); ok {
		c.startDrag(AxisX, i)
		return true
	}
	if i, ok := HitTest(lines, AxisY, y, c.tolerance); ok {
		c.startDrag(AxisY, i)
		return true
	}
	return false
}

func (c *Controller) startDrag(axis Axis, index int) {
	c.state = Dragging
	c.axis = axis
	c.index = index
}

// Move drags the active line to the pointer. Ignored while idle.
func (c *Controller) Move(x, y float64) bool {
	if c.state != Dragging {
		return false
	}
	coord := x
	if c.axis == AxisY {
		coord = y
	}
	lines := c.model.MoveLine(c.axis, c.index, coord)
	if c.onChange != nil {
		c.onChange(lines)
	}
	return true
}

// Release ends any drag.
func (c *Controller) Release() {
	c.state = Idle
	c.index = -1
}

// Reset re-initializes the model and returns to Idle.
func (c *Controller) Reset(frameCount int, topology Topology) error {
	if err := c.model.Reset(frameCount, topology, c.model.DisplayWidth(), c.model.DisplayHeight()); err != nil {
		return err
	}
	c.Release()
	if c.onChange != nil {
		c.onChange(c.model.Lines())
	}
	return nil
}

func (c *Controller) State() State { return c.state }

// Active returns the dragged line, if any.
func (c *Controller) Active() (Axis, int, bool) {
	if c.state != Dragging {
		return "", -1, false
	}
	return c.axis, c.index, true
}

func (c *Controller) Model() *Model { return c.model }
