package layout

import "github.com/phindler/fpdviz/pkg/model"

// noRank marks an absent source or target rank. Assigned ranks are >= 0.
const noRank = -1

// affinity ties a classified state to the operator rows it belongs with.
type affinity struct {
	category Category

	// rank is the row a boundary-left/right or internal state aligns with.
	rank int

	// sourceRank is the highest rank producing this state, targetRank the
	// lowest rank consuming it. Internal states only; noRank when the state
	// has no producer or no consumer.
	sourceRank int
	targetRank int
}

// assignAffinities classifies every state and derives its row affinity.
//
// Boundary-left states align with the first row that consumes them,
// boundary-right states with the last row that produces them. Internal
// states record both ends: a source rank below the target rank makes a
// forward intermediate (placed in the gap between the rows), otherwise the
// state is a feedback carrier and moves to the left lane.
func assignAffinities(states []model.State, conn *connectivity, rank map[string]int, maxRank int) map[string]affinity {
	affinities := make(map[string]affinity, len(states))

	for i := range states {
		s := &states[i]
		a := affinity{
			category:   classifyState(s, conn, rank, maxRank),
			sourceRank: noRank,
			targetRank: noRank,
		}
		producers := conn.upstream[s.ID]
		consumers := conn.downstream[s.ID]

		switch a.category {
		case CategoryBoundaryLeft:
			if len(consumers) > 0 {
				a.rank = rank[consumers[0]]
				for _, id := range consumers[1:] {
					a.rank = min(a.rank, rank[id])
				}
			}
		case CategoryBoundaryRight:
			if len(producers) > 0 {
				a.rank = rank[producers[0]]
				for _, id := range producers[1:] {
					a.rank = max(a.rank, rank[id])
				}
			}
		case CategoryInternal:
			if len(producers) > 0 {
				a.sourceRank = rank[producers[0]]
				for _, id := range producers[1:] {
					a.sourceRank = max(a.sourceRank, rank[id])
				}
			}
			if len(consumers) > 0 {
				a.targetRank = rank[consumers[0]]
				for _, id := range consumers[1:] {
					a.targetRank = min(a.targetRank, rank[id])
				}
			}
			switch {
			case a.sourceRank != noRank:
				a.rank = a.sourceRank
			case a.targetRank != noRank:
				a.rank = a.targetRank
			}
		}

		affinities[s.ID] = a
	}

	return affinities
}
