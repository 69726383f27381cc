package layout

import "github.com/phindler/fpdviz/pkg/model"

// Side names an edge of an element rectangle for connection routing hints.
type Side string

// Routing sides.
const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Element is a positioned diagram element.
type Element struct {
	ID     string            `json:"id"`
	Kind   model.ElementKind `json:"type"`
	Label  string            `json:"label"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`

	// StateType is set only for state elements.
	StateType model.StateType `json:"stateType,omitempty"`
}

// Connection is a rendered flow or usage between two positioned elements.
// SourceSide and TargetSide are hints for the edge router; empty means the
// router picks freely.
type Connection struct {
	ID         string         `json:"id"`
	SourceID   string         `json:"sourceId"`
	TargetID   string         `json:"targetId"`
	FlowType   model.FlowType `json:"flowType,omitempty"`
	Usage      bool           `json:"isUsage"`
	SourceSide Side           `json:"sourceSide,omitempty"`
	TargetSide Side           `json:"targetSide,omitempty"`
}

// Boundary is the rectangle drawn around one system's core elements.
type Boundary struct {
	ID     string  `json:"id,omitempty"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Diagram is the output of the layout engine: positioned elements,
// connections, and one boundary per non-empty system.
type Diagram struct {
	Elements    []Element    `json:"elements"`
	Connections []Connection `json:"connections"`
	Boundaries  []Boundary   `json:"systemLimits"`
}

// PrimaryBoundary returns the first system boundary, or nil when the diagram
// has none. Single-system callers use it as "the" boundary.
func (d *Diagram) PrimaryBoundary() *Boundary {
	if len(d.Boundaries) == 0 {
		return nil
	}
	return &d.Boundaries[0]
}

// Element returns the positioned element with the given ID, or nil.
func (d *Diagram) Element(id string) *Element {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return &d.Elements[i]
		}
	}
	return nil
}

// Bounds returns the bounding box over all elements and boundaries as
// (minX, minY, maxX, maxY). An empty diagram reports all zeros.
func (d *Diagram) Bounds() (minX, minY, maxX, maxY float64) {
	if len(d.Elements) == 0 && len(d.Boundaries) == 0 {
		return 0, 0, 0, 0
	}
	first := true
	extend := func(x, y, w, h float64) {
		if first {
			minX, minY, maxX, maxY = x, y, x+w, y+h
			first = false
			return
		}
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x+w)
		maxY = max(maxY, y+h)
	}
	for i := range d.Elements {
		e := &d.Elements[i]
		extend(e.X, e.Y, e.Width, e.Height)
	}
	for i := range d.Boundaries {
		b := &d.Boundaries[i]
		extend(b.X, b.Y, b.Width, b.Height)
	}
	return minX, minY, maxX, maxY
}
