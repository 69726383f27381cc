package layout

import (
	"testing"

	"github.com/phindler/fpdviz/pkg/model"
)

func TestAssignAffinities_BoundaryLeftUsesFirstConsumer(t *testing.T) {
	// left feeds both p1 (rank 0 via nothing) and p3 (rank 2); as a
	// non-product it sits on the left edge aligned with the earliest
	// consuming row.
	states := []model.State{
		product("m1"), product("m2"),
		testState("left", model.StateEnergy),
	}
	ops := []model.ProcessOperator{testOperator("p1"), testOperator("p2"), testOperator("p3")}
	flows := []model.Flow{
		testFlow("f1", "p1", "m1"), testFlow("f2", "m1", "p2"),
		testFlow("f3", "p2", "m2"), testFlow("f4", "m2", "p3"),
		testFlow("f5", "left", "p2"),
		testFlow("f6", "left", "p3"),
	}
	conn := buildConnectivity(states, ops, flows, nil)
	_, rank := rankOperators(ops, states, conn)

	aff := assignAffinities(states, conn, rank, maxRankOf(rank))

	a := aff["left"]
	if a.category != CategoryBoundaryLeft {
		t.Fatalf("category = %v, want %v", a.category, CategoryBoundaryLeft)
	}
	if a.rank != 1 {
		t.Errorf("rank = %d, want 1 (min consumer rank)", a.rank)
	}
}

func TestAssignAffinities_BoundaryRightUsesLastProducer(t *testing.T) {
	states := []model.State{
		product("m1"),
		testState("right", model.StateInformation),
	}
	ops := []model.ProcessOperator{testOperator("p1"), testOperator("p2")}
	flows := []model.Flow{
		testFlow("f1", "p1", "m1"), testFlow("f2", "m1", "p2"),
		testFlow("f3", "p1", "right"),
		testFlow("f4", "p2", "right"),
	}
	conn := buildConnectivity(states, ops, flows, nil)
	_, rank := rankOperators(ops, states, conn)

	aff := assignAffinities(states, conn, rank, maxRankOf(rank))

	a := aff["right"]
	if a.category != CategoryBoundaryRight {
		t.Fatalf("category = %v, want %v", a.category, CategoryBoundaryRight)
	}
	if a.rank != 1 {
		t.Errorf("rank = %d, want 1 (max producer rank)", a.rank)
	}
}

func TestAssignAffinities_ForwardAndFeedback(t *testing.T) {
	states := []model.State{product("fwd"), product("back")}
	ops := []model.ProcessOperator{testOperator("p1"), testOperator("p2")}
	flows := []model.Flow{
		testFlow("f1", "p1", "fwd"), testFlow("f2", "fwd", "p2"),
		testFlow("f3", "p2", "back"), testFlow("f4", "back", "p1"),
	}
	conn := buildConnectivity(states, ops, flows, nil)
	_, rank := rankOperators(ops, states, conn)

	aff := assignAffinities(states, conn, rank, maxRankOf(rank))

	fwd := aff["fwd"]
	if fwd.sourceRank != 0 || fwd.targetRank != 1 {
		t.Errorf("forward ranks = %d→%d, want 0→1", fwd.sourceRank, fwd.targetRank)
	}
	back := aff["back"]
	if back.sourceRank != 1 || back.targetRank != 0 {
		t.Errorf("feedback ranks = %d→%d, want 1→0", back.sourceRank, back.targetRank)
	}
	if back.sourceRank <= back.targetRank {
		t.Error("feedback state must have sourceRank > targetRank")
	}
}

func TestAssignAffinities_InternalWithoutProducerFallsBack(t *testing.T) {
	// An explicitly internal pure source keeps the consumer rank.
	s := product("s")
	s.Placement = model.PlacementInternal
	states := []model.State{s, product("m1")}
	ops := []model.ProcessOperator{testOperator("p1"), testOperator("p2")}
	flows := []model.Flow{
		testFlow("f1", "p1", "m1"), testFlow("f2", "m1", "p2"),
		testFlow("f3", "s", "p2"),
	}
	conn := buildConnectivity(states, ops, flows, nil)
	_, rank := rankOperators(ops, states, conn)

	aff := assignAffinities(states, conn, rank, maxRankOf(rank))

	a := aff["s"]
	if a.category != CategoryInternal {
		t.Fatalf("category = %v, want %v", a.category, CategoryInternal)
	}
	if a.sourceRank != noRank {
		t.Errorf("sourceRank = %d, want noRank", a.sourceRank)
	}
	if a.rank != 1 {
		t.Errorf("rank = %d, want 1 (target rank fallback)", a.rank)
	}
}
