package layout

import (
	"slices"

	"github.com/phindler/fpdviz/pkg/model"
)

// gapKey identifies the vertical gap between two operator ranks. Forward
// intermediate states group under the gap their flows span.
type gapKey struct {
	src, dst int
}

// distributeCentered spreads count items of the given size around a shared
// anchor: total span = count*size + (count-1)*gap, first item at
// anchor - span/2, successive items spaced by size+gap.
func distributeCentered(count int, size, gap, anchor float64) []float64 {
	if count == 0 {
		return nil
	}
	total := float64(count)*size + float64(count-1)*gap
	start := anchor - total/2
	positions := make([]float64, count)
	for i := range positions {
		positions[i] = start + float64(i)*(size+gap)
	}
	return positions
}

func rowYOr(rowY map[int]float64, rank int, fallback float64) float64 {
	if y, ok := rowY[rank]; ok {
		return y
	}
	return fallback
}

func stackSpan(count int, size, gap float64) float64 {
	if count == 0 {
		return 0
	}
	return float64(count)*size + float64(count-1)*gap
}

func stateElement(s *model.State, x, y float64) Element {
	return Element{
		ID:        s.ID,
		Kind:      model.KindState,
		Label:     s.Label,
		X:         x,
		Y:         y,
		Width:     StateWidth,
		Height:    StateHeight,
		StateType: s.Type,
	}
}

// layoutSystem runs the seven-phase algorithm for one system at the given
// offset. It returns the positioned elements, the connections, and the
// system boundary (nil when the system has no states and no operators).
func layoutSystem(
	states []model.State,
	operators []model.ProcessOperator,
	resources []model.TechnicalResource,
	flows []model.Flow,
	usages []model.Usage,
	cfg Config,
	offsetX, offsetY float64,
) ([]Element, []Connection, *Boundary) {
	if len(states) == 0 && len(operators) == 0 && len(resources) == 0 {
		return nil, nil, nil
	}

	conn := buildConnectivity(states, operators, flows, usages)
	order, rank := rankOperators(operators, states, conn)
	maxRank := maxRankOf(rank)
	affinities := assignAffinities(states, conn, rank, maxRank)

	// Bucket states by category, keeping input order within each bucket.
	var boundaryTop, boundaryBottom, internal, disconnectedStates []model.State
	boundaryLeft := make(map[int][]model.State)
	boundaryRight := make(map[int][]model.State)

	for i := range states {
		s := states[i]
		a := affinities[s.ID]
		switch a.category {
		case CategoryBoundaryTop:
			boundaryTop = append(boundaryTop, s)
		case CategoryBoundaryBottom:
			boundaryBottom = append(boundaryBottom, s)
		case CategoryBoundaryLeft:
			boundaryLeft[a.rank] = append(boundaryLeft[a.rank], s)
		case CategoryBoundaryRight:
			boundaryRight[a.rank] = append(boundaryRight[a.rank], s)
		case CategoryInternal:
			internal = append(internal, s)
		default:
			disconnectedStates = append(disconnectedStates, s)
		}
	}

	// Split internal states into forward intermediates (grouped by the rank
	// gap they span, in first-appearance order) and feedback carriers.
	gaps := make(map[gapKey][]model.State)
	var gapOrder []gapKey
	var feedback []model.State
	feedbackIDs := make(map[string]bool)

	for i := range internal {
		s := internal[i]
		a := affinities[s.ID]
		srcRank := a.sourceRank
		if srcRank == noRank {
			srcRank = a.rank
		}
		dstRank := a.targetRank
		if dstRank == noRank {
			dstRank = srcRank + 1
		}
		if srcRank < dstRank {
			k := gapKey{srcRank, dstRank}
			if _, ok := gaps[k]; !ok {
				gapOrder = append(gapOrder, k)
			}
			gaps[k] = append(gaps[k], s)
		} else {
			feedback = append(feedback, s)
			feedbackIDs[s.ID] = true
		}
	}

	hasIntermediatesBelow := make(map[int]bool, len(gaps))
	for k := range gaps {
		hasIntermediatesBelow[k.src] = true
	}

	// Phase 4: coordinates. Rows stack top to bottom; each row is as tall
	// as its operator or the larger of its side stacks.
	startX := offsetX + cfg.Padding
	startY := offsetY + cfg.Padding

	currentY := startY
	if len(boundaryTop) > 0 {
		currentY += StateHeight + cfg.VGap
	}

	rowY := make(map[int]float64, maxRank+1)
	for r := 0; r <= maxRank; r++ {
		sideCount := max(len(boundaryLeft[r]), len(boundaryRight[r]))
		sideHeight := stackSpan(sideCount, StateHeight, cfg.HGap)
		rowHeight := max(float64(OperatorHeight), sideHeight)

		rowY[r] = currentY + (rowHeight-OperatorHeight)/2
		currentY += rowHeight

		if hasIntermediatesBelow[r] {
			currentY += internalVGap + StateHeight + internalVGap
		} else if r < maxRank {
			currentY += cfg.VGap
		}
	}

	// Operators sharing a rank spread horizontally around the column
	// center so independent chains never collide.
	rowMembers := make(map[int][]string)
	for _, id := range order {
		if !conn.referenced[id] {
			continue // disconnected operators go in the overflow row
		}
		rowMembers[rank[id]] = append(rowMembers[rank[id]], id)
	}

	// The column is as wide as its widest rank row or intermediate group,
	// so the centered spread never reaches left of coreLeftX into the
	// feedback lane or past the system's left edge.
	columnSpan := float64(OperatorWidth)
	for _, members := range rowMembers {
		columnSpan = max(columnSpan, stackSpan(len(members), OperatorWidth, cfg.HGap))
	}
	for _, group := range gaps {
		columnSpan = max(columnSpan, stackSpan(len(group), StateWidth, cfg.HGap))
	}

	// The operator column shifts right to leave room for the left boundary
	// column and, when present, the feedback lane.
	leftSpace := 0.0
	if len(boundaryLeft) > 0 {
		leftSpace += StateWidth + cfg.HGap
	}
	if len(feedback) > 0 {
		leftSpace += StateWidth + cfg.HGap
	}
	coreLeftX := startX + leftSpace
	columnCenterX := coreLeftX + columnSpan/2

	var elements []Element
	operatorIndex := make(map[string]int, len(operators))
	labels := make(map[string]string, len(operators))
	for i := range operators {
		labels[operators[i].ID] = operators[i].Label
	}
	for r := 0; r <= maxRank; r++ {
		members := rowMembers[r]
		xs := distributeCentered(len(members), OperatorWidth, cfg.HGap, columnCenterX)
		for i, id := range members {
			operatorIndex[id] = len(elements)
			elements = append(elements, Element{
				ID:     id,
				Kind:   model.KindProcessOperator,
				Label:  labels[id],
				X:      xs[i],
				Y:      rowY[r],
				Width:  OperatorWidth,
				Height: OperatorHeight,
			})
		}
	}

	// Forward intermediates sit halfway between the rows they span.
	for _, k := range gapOrder {
		group := gaps[k]
		srcY := rowYOr(rowY, k.src, startY)
		dstY := rowYOr(rowY, k.dst, startY)
		midY := (srcY+OperatorHeight+dstY)/2 - float64(StateHeight)/2
		xs := distributeCentered(len(group), StateWidth, cfg.HGap, columnCenterX)
		for i := range group {
			elements = append(elements, stateElement(&group[i], xs[i], midY))
		}
	}

	// Feedback carriers occupy a dedicated lane left of the operator
	// column, vertically centered over the rank span they close.
	if len(feedback) > 0 {
		feedbackX := coreLeftX - StateWidth - cfg.HGap
		for i := range feedback {
			s := &feedback[i]
			a := affinities[s.ID]
			srcRank, dstRank := a.sourceRank, a.targetRank
			if srcRank == noRank {
				srcRank = 0
			}
			if dstRank == noRank {
				dstRank = 0
			}
			upperY := rowYOr(rowY, min(srcRank, dstRank), startY)
			lowerY := rowYOr(rowY, max(srcRank, dstRank), startY)
			midY := (upperY+OperatorHeight+lowerY)/2 - float64(StateHeight)/2
			elements = append(elements, stateElement(s, feedbackX, midY))
		}
	}

	// Phase 5: system boundary around operators and internal states.
	internalIDs := make(map[string]bool, len(internal))
	for i := range internal {
		internalIDs[internal[i].ID] = true
	}

	var boundary *Boundary
	coreSeen := false
	var minX, minY, maxX, maxY float64
	for i := range elements {
		e := &elements[i]
		if e.Kind != model.KindProcessOperator && !(e.Kind == model.KindState && internalIDs[e.ID]) {
			continue
		}
		if !coreSeen {
			minX, minY, maxX, maxY = e.X, e.Y, e.X+e.Width, e.Y+e.Height
			coreSeen = true
			continue
		}
		minX = min(minX, e.X)
		minY = min(minY, e.Y)
		maxX = max(maxX, e.X+e.Width)
		maxY = max(maxY, e.Y+e.Height)
	}

	if coreSeen || len(boundaryTop) > 0 || len(boundaryBottom) > 0 {
		if !coreSeen {
			minX, minY = coreLeftX, startY
			maxX, maxY = coreLeftX+OperatorWidth, startY+OperatorHeight
		}

		if len(boundaryLeft) > 0 {
			minX -= float64(StateWidth)/2 + cfg.HGap
		}
		if len(boundaryRight) > 0 {
			maxX += float64(StateWidth)/2 + cfg.HGap
		}

		// Widen the box when the top or bottom boundary row outgrows the core.
		topWidth := stackSpan(len(boundaryTop), StateWidth, cfg.HGap)
		bottomWidth := stackSpan(len(boundaryBottom), StateWidth, cfg.HGap)
		if rowWidth := max(topWidth, bottomWidth); rowWidth > maxX-minX {
			extra := (rowWidth - (maxX - minX)) / 2
			minX -= extra
			maxX += extra
		}

		if len(boundaryTop) > 0 {
			minY -= boundaryExtraV
		}
		if len(boundaryBottom) > 0 {
			maxY += boundaryExtraV
		}

		boundary = &Boundary{
			X:      minX - cfg.BoundaryPadding,
			Y:      minY - cfg.BoundaryPadding,
			Width:  maxX - minX + cfg.BoundaryPadding*2,
			Height: maxY - minY + cfg.BoundaryPadding*2,
		}
	}

	// Pin boundary states onto the boundary edges, straddling the line.
	if boundary != nil {
		boundaryCenterX := boundary.X + boundary.Width/2

		if len(boundaryTop) > 0 {
			y := boundary.Y - float64(StateHeight)/2
			xs := distributeCentered(len(boundaryTop), StateWidth, cfg.HGap, boundaryCenterX)
			for i := range boundaryTop {
				elements = append(elements, stateElement(&boundaryTop[i], xs[i], y))
			}
		}

		if len(boundaryBottom) > 0 {
			y := boundary.Y + boundary.Height - float64(StateHeight)/2
			xs := distributeCentered(len(boundaryBottom), StateWidth, cfg.HGap, boundaryCenterX)
			for i := range boundaryBottom {
				elements = append(elements, stateElement(&boundaryBottom[i], xs[i], y))
			}
		}

		leftX := boundary.X - float64(StateWidth)/2
		for _, r := range sortedRanks(boundaryLeft) {
			group := boundaryLeft[r]
			rowCenterY := rowYOr(rowY, r, startY) + float64(OperatorHeight)/2
			ys := distributeCentered(len(group), StateHeight, cfg.HGap, rowCenterY)
			for i := range group {
				elements = append(elements, stateElement(&group[i], leftX, ys[i]))
			}
		}

		rightX := boundary.X + boundary.Width - float64(StateWidth)/2
		for _, r := range sortedRanks(boundaryRight) {
			group := boundaryRight[r]
			rowCenterY := rowYOr(rowY, r, startY) + float64(OperatorHeight)/2
			ys := distributeCentered(len(group), StateHeight, cfg.HGap, rowCenterY)
			for i := range group {
				elements = append(elements, stateElement(&group[i], rightX, ys[i]))
			}
		}
	}

	// Technical resources stack to the right of the boundary. A resource
	// bound to an operator by a usage aligns with that operator's row.
	resourceX := coreLeftX + columnSpan + cfg.ResourceOffsetX*2
	if boundary != nil {
		resourceX = boundary.X + boundary.Width + cfg.ResourceOffsetX
	}
	for i := range resources {
		tr := &resources[i]
		y := rowYOr(rowY, 0, startY) + float64(i)*(ResourceHeight+cfg.HGap)
		if boundID, ok := conn.resourceBinding[tr.ID]; ok {
			if idx, placed := operatorIndex[boundID]; placed {
				po := &elements[idx]
				y = po.Y + (po.Height-ResourceHeight)/2
			}
		}
		elements = append(elements, Element{
			ID:     tr.ID,
			Kind:   model.KindTechnicalResource,
			Label:  tr.Label,
			X:      resourceX,
			Y:      y,
			Width:  ResourceWidth,
			Height: ResourceHeight,
		})
	}

	// Overflow row: disconnected elements line up beneath everything else.
	var disconnectedOps []model.ProcessOperator
	for i := range operators {
		if !conn.referenced[operators[i].ID] {
			disconnectedOps = append(disconnectedOps, operators[i])
		}
	}
	if len(disconnectedStates) > 0 || len(disconnectedOps) > 0 {
		maxElementY := startY
		for i := range elements {
			maxElementY = max(maxElementY, elements[i].Y+elements[i].Height)
		}
		y := maxElementY + cfg.VGap
		x := startX
		for i := range disconnectedStates {
			elements = append(elements, stateElement(&disconnectedStates[i], x, y))
			x += StateWidth + cfg.HGap
		}
		for i := range disconnectedOps {
			op := &disconnectedOps[i]
			elements = append(elements, Element{
				ID:     op.ID,
				Kind:   model.KindProcessOperator,
				Label:  op.Label,
				X:      x,
				Y:      y,
				Width:  OperatorWidth,
				Height: OperatorHeight,
			})
			x += OperatorWidth + cfg.HGap
		}
	}

	// Phase 7: connections with routing hints.
	topIDs := make(map[string]bool, len(boundaryTop))
	for i := range boundaryTop {
		topIDs[boundaryTop[i].ID] = true
	}
	bottomIDs := make(map[string]bool, len(boundaryBottom))
	for i := range boundaryBottom {
		bottomIDs[boundaryBottom[i].ID] = true
	}

	connections := make([]Connection, 0, len(flows)+len(usages))
	for i := range flows {
		f := &flows[i]
		c := Connection{
			ID:       f.ID,
			SourceID: f.SourceRef,
			TargetID: f.TargetRef,
			FlowType: f.Type,
		}

		// Boundary-top states always exit through their bottom edge and
		// boundary-bottom states receive through their top edge.
		if topIDs[f.SourceRef] {
			c.SourceSide = SideBottom
		}
		if bottomIDs[f.TargetRef] {
			c.TargetSide = SideTop
		}

		// Feedback edges hug the left lane in both directions.
		switch {
		case feedbackIDs[f.TargetRef]:
			c.SourceSide = SideLeft
			c.TargetSide = SideBottom
		case feedbackIDs[f.SourceRef]:
			c.SourceSide = SideTop
			c.TargetSide = SideLeft
		}

		connections = append(connections, c)
	}
	for i := range usages {
		u := &usages[i]
		connections = append(connections, Connection{
			ID:       u.ID,
			SourceID: u.ProcessOperatorRef,
			TargetID: u.TechnicalResourceRef,
			Usage:    true,
		})
	}

	return elements, connections, boundary
}

func sortedRanks[V any](m map[int]V) []int {
	ranks := make([]int, 0, len(m))
	for r := range m {
		ranks = append(ranks, r)
	}
	slices.Sort(ranks)
	return ranks
}
