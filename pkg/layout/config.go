package layout

// Element sizes in diagram units. They match the frontend design tokens so
// rendered SVGs and the editor canvas agree on geometry.
const (
	StateWidth     = 55
	StateHeight    = 50
	OperatorWidth  = 150
	OperatorHeight = 80
	ResourceWidth  = 150
	ResourceHeight = 80
)

// internalVGap separates operator rows that have intermediate states
// between them.
const internalVGap = 40

// boundaryExtraV adds vertical room when boundary states sit on the top or
// bottom edge of a system boundary.
const boundaryExtraV = 40

// Config holds the tunable spacing parameters of the layout engine.
// The zero value is not useful; start from [DefaultConfig].
type Config struct {
	// Padding is the margin around the whole diagram.
	Padding float64

	// HGap is the horizontal gap between sibling elements.
	HGap float64

	// VGap is the vertical gap between operator rows.
	VGap float64

	// BoundaryPadding is the margin between a system's core elements and
	// its boundary rectangle.
	BoundaryPadding float64

	// ResourceOffsetX is the horizontal offset of technical resources from
	// the right edge of the system boundary.
	ResourceOffsetX float64
}

// DefaultConfig returns the standard spacing parameters.
func DefaultConfig() Config {
	return Config{
		Padding:         40,
		HGap:            40,
		VGap:            80,
		BoundaryPadding: 50,
		ResourceOffsetX: 40,
	}
}
