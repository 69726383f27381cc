package layout

import (
	"slices"

	"github.com/phindler/fpdviz/pkg/model"
)

// rankOperators assigns each process operator a vertical rank via a layered
// topological sort (Kahn's algorithm) over the operator precedence graph.
//
// Operator A precedes operator B when some state is both an output of A and
// an input of B. All operators ready in the same pass share a rank, so
// independent chains stack compactly instead of interleaving.
//
// Cycles never wedge the sort: when no operator has in-degree zero, the one
// with the lowest remaining in-degree (ties broken by ID) is force-assigned
// and the sort continues. Every operator therefore receives exactly one rank.
//
// The returned order lists operator IDs rank by rank; rank maps each ID to
// its row index.
func rankOperators(operators []model.ProcessOperator, states []model.State, conn *connectivity) (order []string, rank map[string]int) {
	operatorIDs := make(map[string]bool, len(operators))
	for i := range operators {
		operatorIDs[operators[i].ID] = true
	}

	successors := make(map[string]map[string]bool, len(operators))
	predecessors := make(map[string]map[string]bool, len(operators))
	for i := range operators {
		successors[operators[i].ID] = make(map[string]bool)
		predecessors[operators[i].ID] = make(map[string]bool)
	}

	for i := range states {
		id := states[i].ID
		producers := conn.upstream[id]
		consumers := conn.downstream[id]
		if len(producers) == 0 || len(consumers) == 0 {
			continue
		}
		for _, src := range producers {
			for _, dst := range consumers {
				if src != dst && operatorIDs[src] && operatorIDs[dst] {
					successors[src][dst] = true
					predecessors[dst][src] = true
				}
			}
		}
	}

	inDegree := make(map[string]int, len(operators))
	remaining := make(map[string]bool, len(operators))
	for i := range operators {
		id := operators[i].ID
		inDegree[id] = len(predecessors[id])
		remaining[id] = true
	}

	order = make([]string, 0, len(operators))
	rank = make(map[string]int, len(operators))

	for current := 0; len(remaining) > 0; current++ {
		var ready []string
		for id := range remaining {
			if inDegree[id] == 0 {
				ready = append(ready, id)
			}
		}
		slices.Sort(ready)

		if len(ready) == 0 {
			// Cycle: force the operator with the lowest in-degree.
			var forced string
			for id := range remaining {
				if forced == "" ||
					inDegree[id] < inDegree[forced] ||
					(inDegree[id] == inDegree[forced] && id < forced) {
					forced = id
				}
			}
			ready = []string{forced}
		}

		for _, id := range ready {
			order = append(order, id)
			rank[id] = current
			delete(remaining, id)
			for succ := range successors[id] {
				if remaining[succ] {
					inDegree[succ]--
				}
			}
		}
	}

	return order, rank
}

// maxRankOf returns the highest assigned rank, or -1 for an empty map.
func maxRankOf(rank map[string]int) int {
	maxRank := -1
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	return maxRank
}
