package layout

import "github.com/phindler/fpdviz/pkg/model"

// Category is the placement class a state falls into. The classifier picks
// exactly one category per state; every downstream phase switches on it
// exhaustively.
type Category int

// Placement categories.
const (
	// CategoryDisconnected marks states that no flow references.
	CategoryDisconnected Category = iota
	CategoryBoundaryTop
	CategoryBoundaryBottom
	CategoryBoundaryLeft
	CategoryBoundaryRight
	CategoryInternal
)

// String returns the category name as used in placement hints.
func (c Category) String() string {
	switch c {
	case CategoryBoundaryTop:
		return "boundary-top"
	case CategoryBoundaryBottom:
		return "boundary-bottom"
	case CategoryBoundaryLeft:
		return "boundary-left"
	case CategoryBoundaryRight:
		return "boundary-right"
	case CategoryInternal:
		return "internal"
	default:
		return "disconnected"
	}
}

// productBoundarySide decides the edge for a product state in multi-row
// layouts. Products feeding the first row sit on top and products produced
// by the last row sit on the bottom; everything in between moves to the
// left (inputs) or right (outputs) edge so arrows stay short.
func productBoundarySide(isInput bool, rank map[string]int, connected []string, maxRank int) Category {
	if isInput {
		if len(rank) > 0 && len(connected) > 0 && maxRank > 0 {
			minRank := rank[connected[0]]
			for _, id := range connected[1:] {
				minRank = min(minRank, rank[id])
			}
			if minRank > 0 {
				return CategoryBoundaryLeft
			}
		}
		return CategoryBoundaryTop
	}
	if len(rank) > 0 && len(connected) > 0 && maxRank > 0 {
		maxSrc := rank[connected[0]]
		for _, id := range connected[1:] {
			maxSrc = max(maxSrc, rank[id])
		}
		if maxSrc < maxRank {
			return CategoryBoundaryRight
		}
	}
	return CategoryBoundaryBottom
}

// classifyState picks the category for one state.
//
// Precedence: an explicit directional hint wins outright; a bare boundary
// hint forces a boundary edge but auto-detects which one; otherwise
// connectivity decides. States referenced by no flow are disconnected
// regardless of hints.
func classifyState(s *model.State, conn *connectivity, rank map[string]int, maxRank int) Category {
	if !conn.referenced[s.ID] {
		return CategoryDisconnected
	}

	producers := conn.upstream[s.ID]
	consumers := conn.downstream[s.ID]
	pureSource := len(consumers) > 0 && len(producers) == 0
	pureSink := len(producers) > 0 && len(consumers) == 0
	intermediate := len(producers) > 0 && len(consumers) > 0

	switch s.Placement {
	case model.PlacementBoundaryTop:
		return CategoryBoundaryTop
	case model.PlacementBoundaryBottom:
		return CategoryBoundaryBottom
	case model.PlacementBoundaryLeft:
		return CategoryBoundaryLeft
	case model.PlacementBoundaryRight:
		return CategoryBoundaryRight
	case model.PlacementInternal:
		return CategoryInternal
	case model.PlacementBoundary:
		switch {
		case pureSource:
			if s.Type == model.StateProduct {
				return productBoundarySide(true, rank, consumers, maxRank)
			}
			return CategoryBoundaryLeft
		case pureSink:
			if s.Type == model.StateProduct {
				return productBoundarySide(false, rank, producers, maxRank)
			}
			return CategoryBoundaryRight
		case s.Type == model.StateProduct:
			return CategoryBoundaryTop
		default:
			return CategoryBoundaryLeft
		}
	}

	switch {
	case intermediate:
		return CategoryInternal
	case pureSource:
		if s.Type == model.StateProduct {
			return productBoundarySide(true, rank, consumers, maxRank)
		}
		return CategoryBoundaryLeft
	case pureSink:
		if s.Type == model.StateProduct {
			return productBoundarySide(false, rank, producers, maxRank)
		}
		return CategoryBoundaryRight
	default:
		return CategoryBoundaryTop
	}
}
