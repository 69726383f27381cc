package layout

import (
	"reflect"
	"testing"

	"github.com/phindler/fpdviz/pkg/model"
)

func ident(id string) model.Identification {
	return model.Identification{UniqueIdent: id}
}

func testState(id string, st model.StateType) model.State {
	return model.State{ID: id, Type: st, Label: id, Identification: ident(id)}
}

func product(id string) model.State {
	return testState(id, model.StateProduct)
}

func testOperator(id string) model.ProcessOperator {
	return model.ProcessOperator{ID: id, Label: id, Identification: ident(id)}
}

func testFlow(id, src, dst string) model.Flow {
	return model.Flow{ID: id, SourceRef: src, TargetRef: dst, Type: model.FlowRegular}
}

func rectsOverlap(a, b *Element) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// chainModel builds s_in → P0 → s0 → P1 → s1 → ... → P(n-1) → s_out.
func chainModel(n int) *model.Model {
	m := &model.Model{}
	m.States = append(m.States, product("s_in"))
	prev := "s_in"
	for i := 0; i < n; i++ {
		po := testOperator(poName(i))
		m.ProcessOperators = append(m.ProcessOperators, po)
		m.Flows = append(m.Flows, testFlow("f_in_"+po.ID, prev, po.ID))
		var out string
		if i == n-1 {
			out = "s_out"
		} else {
			out = "m" + string(rune('0'+i%10)) + "_" + po.ID
		}
		m.States = append(m.States, product(out))
		m.Flows = append(m.Flows, testFlow("f_out_"+po.ID, po.ID, out))
		prev = out
	}
	return m
}

func poName(i int) string {
	return "p" + string(rune('a'+i/10)) + string(rune('0'+i%10))
}

func TestCompute_EmptyModel(t *testing.T) {
	d := Compute(&model.Model{}, DefaultConfig())

	if len(d.Elements) != 0 {
		t.Errorf("len(Elements) = %d, want 0", len(d.Elements))
	}
	if len(d.Connections) != 0 {
		t.Errorf("len(Connections) = %d, want 0", len(d.Connections))
	}
	if d.PrimaryBoundary() != nil {
		t.Errorf("PrimaryBoundary() = %+v, want nil", d.PrimaryBoundary())
	}
}

func TestCompute_SingleState(t *testing.T) {
	m := &model.Model{States: []model.State{product("s1")}}

	d := Compute(m, DefaultConfig())

	if len(d.Elements) != 1 {
		t.Fatalf("len(Elements) = %d, want 1", len(d.Elements))
	}
	if d.Elements[0].ID != "s1" {
		t.Errorf("Elements[0].ID = %q, want %q", d.Elements[0].ID, "s1")
	}
	if d.PrimaryBoundary() != nil {
		t.Errorf("PrimaryBoundary() = %+v, want nil for a disconnected-only model", d.PrimaryBoundary())
	}
}

func TestCompute_SimpleLinearFlow(t *testing.T) {
	m := &model.Model{
		States:           []model.State{product("s1"), product("s2")},
		ProcessOperators: []model.ProcessOperator{testOperator("p1")},
		Flows: []model.Flow{
			testFlow("f1", "s1", "p1"),
			testFlow("f2", "p1", "s2"),
		},
	}

	d := Compute(m, DefaultConfig())

	if len(d.Elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(d.Elements))
	}
	s1, p1, s2 := d.Element("s1"), d.Element("p1"), d.Element("s2")
	if s1.Y >= p1.Y {
		t.Errorf("product input above operator: s1.Y = %v, p1.Y = %v", s1.Y, p1.Y)
	}
	if s2.Y <= p1.Y {
		t.Errorf("product output below operator: s2.Y = %v, p1.Y = %v", s2.Y, p1.Y)
	}

	b := d.PrimaryBoundary()
	if b == nil {
		t.Fatal("PrimaryBoundary() = nil, want a boundary")
	}
	if p1.X < b.X || p1.X+p1.Width > b.X+b.Width || p1.Y < b.Y || p1.Y+p1.Height > b.Y+b.Height {
		t.Errorf("operator %+v outside boundary %+v", p1, b)
	}
}

func TestCompute_BoundaryRoutingHints(t *testing.T) {
	m := &model.Model{
		States:           []model.State{product("s1"), product("s2")},
		ProcessOperators: []model.ProcessOperator{testOperator("p1")},
		Flows: []model.Flow{
			testFlow("f1", "s1", "p1"),
			testFlow("f2", "p1", "s2"),
		},
	}

	d := Compute(m, DefaultConfig())

	if len(d.Connections) != 2 {
		t.Fatalf("len(Connections) = %d, want 2", len(d.Connections))
	}
	if got := d.Connections[0].SourceSide; got != SideBottom {
		t.Errorf("top-boundary source exit = %q, want %q", got, SideBottom)
	}
	if got := d.Connections[1].TargetSide; got != SideTop {
		t.Errorf("bottom-boundary target entry = %q, want %q", got, SideTop)
	}
}

func TestCompute_ForwardIntermediate(t *testing.T) {
	m := &model.Model{
		States: []model.State{
			product("s_in"), product("m"), product("s_out"),
		},
		ProcessOperators: []model.ProcessOperator{
			testOperator("p1"), testOperator("p2"),
		},
		Flows: []model.Flow{
			testFlow("f1", "s_in", "p1"),
			testFlow("f2", "p1", "m"),
			testFlow("f3", "m", "p2"),
			testFlow("f4", "p2", "s_out"),
		},
	}

	d := Compute(m, DefaultConfig())

	p1, p2, mid := d.Element("p1"), d.Element("p2"), d.Element("m")
	if p1.Y >= p2.Y {
		t.Errorf("chained operators stack: p1.Y = %v, p2.Y = %v", p1.Y, p2.Y)
	}
	if mid.Y <= p1.Y+p1.Height {
		t.Errorf("intermediate below p1: m.Y = %v, p1 bottom = %v", mid.Y, p1.Y+p1.Height)
	}
	if mid.Y+mid.Height >= p2.Y {
		t.Errorf("intermediate above p2: m bottom = %v, p2.Y = %v", mid.Y+mid.Height, p2.Y)
	}
}

func TestCompute_FeedbackLane(t *testing.T) {
	// p1 → a → p2 forward, p2 → f → p1 closes the loop.
	m := &model.Model{
		States: []model.State{
			product("s_in"), product("a"), product("f"), product("s_out"),
		},
		ProcessOperators: []model.ProcessOperator{
			testOperator("p1"), testOperator("p2"),
		},
		Flows: []model.Flow{
			testFlow("f1", "s_in", "p1"),
			testFlow("f2", "p1", "a"),
			testFlow("f3", "a", "p2"),
			testFlow("f4", "p2", "s_out"),
			testFlow("f5", "p2", "f"),
			testFlow("f6", "f", "p1"),
		},
	}

	d := Compute(m, DefaultConfig())

	fb := d.Element("f")
	for _, id := range []string{"p1", "p2"} {
		po := d.Element(id)
		if fb.X >= po.X {
			t.Errorf("feedback state left of operators: f.X = %v, %s.X = %v", fb.X, id, po.X)
		}
		if rectsOverlap(fb, po) {
			t.Errorf("feedback state %+v overlaps operator %+v", fb, po)
		}
	}

	var toFeedback, fromFeedback *Connection
	for i := range d.Connections {
		switch d.Connections[i].ID {
		case "f5":
			toFeedback = &d.Connections[i]
		case "f6":
			fromFeedback = &d.Connections[i]
		}
	}
	if toFeedback.SourceSide != SideLeft || toFeedback.TargetSide != SideBottom {
		t.Errorf("operator→feedback sides = %q/%q, want left/bottom",
			toFeedback.SourceSide, toFeedback.TargetSide)
	}
	if fromFeedback.SourceSide != SideTop || fromFeedback.TargetSide != SideLeft {
		t.Errorf("feedback→operator sides = %q/%q, want top/left",
			fromFeedback.SourceSide, fromFeedback.TargetSide)
	}
}

func TestCompute_CyclicFlowsTerminate(t *testing.T) {
	// Pure two-operator cycle with no entry point.
	m := &model.Model{
		States: []model.State{product("a"), product("b")},
		ProcessOperators: []model.ProcessOperator{
			testOperator("p1"), testOperator("p2"),
		},
		Flows: []model.Flow{
			testFlow("f1", "p1", "a"),
			testFlow("f2", "a", "p2"),
			testFlow("f3", "p2", "b"),
			testFlow("f4", "b", "p1"),
		},
	}

	d := Compute(m, DefaultConfig())

	if len(d.Elements) != 4 {
		t.Fatalf("len(Elements) = %d, want 4", len(d.Elements))
	}
	p1, p2 := d.Element("p1"), d.Element("p2")
	if p1.Y >= p2.Y {
		t.Errorf("cycle broken toward lowest ID: p1.Y = %v, p2.Y = %v", p1.Y, p2.Y)
	}
}

func TestCompute_DisconnectedOverflow(t *testing.T) {
	m := &model.Model{
		States: []model.State{
			product("s1"), product("s2"), product("orphan"),
		},
		ProcessOperators: []model.ProcessOperator{
			testOperator("p1"), testOperator("lonely"),
		},
		Flows: []model.Flow{
			testFlow("f1", "s1", "p1"),
			testFlow("f2", "p1", "s2"),
		},
	}

	d := Compute(m, DefaultConfig())

	if len(d.Elements) != 5 {
		t.Fatalf("len(Elements) = %d, want 5 (each element exactly once)", len(d.Elements))
	}
	seen := map[string]int{}
	for i := range d.Elements {
		seen[d.Elements[i].ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("element %q placed %d times, want 1", id, n)
		}
	}

	orphan, lonely := d.Element("orphan"), d.Element("lonely")
	for _, id := range []string{"s1", "s2", "p1"} {
		e := d.Element(id)
		if orphan.Y < e.Y+e.Height {
			t.Errorf("overflow row below %s: orphan.Y = %v, %s bottom = %v", id, orphan.Y, id, e.Y+e.Height)
		}
	}
	if lonely.X <= orphan.X {
		t.Errorf("overflow row keeps input order: lonely.X = %v, orphan.X = %v", lonely.X, orphan.X)
	}
	if lonely.Y != orphan.Y {
		t.Errorf("overflow row is a single row: lonely.Y = %v, orphan.Y = %v", lonely.Y, orphan.Y)
	}
}

func TestCompute_Determinism(t *testing.T) {
	m := chainModel(4)
	m.States = append(m.States, testState("i1", model.StateInformation))
	m.Flows = append(m.Flows, testFlow("fi", "i1", poName(0)))

	first := Compute(m, DefaultConfig())
	for run := 2; run <= 5; run++ {
		got := Compute(m, DefaultConfig())
		if !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d produced a different diagram", run)
		}
	}
}

func TestCompute_NoOverlapLongChain(t *testing.T) {
	d := Compute(chainModel(25), DefaultConfig())

	for i := range d.Elements {
		for j := i + 1; j < len(d.Elements); j++ {
			a, b := &d.Elements[i], &d.Elements[j]
			if rectsOverlap(a, b) {
				t.Errorf("elements %q and %q overlap: %+v vs %+v", a.ID, b.ID, a, b)
			}
		}
	}
}

func TestCompute_ParallelChainsShareRank(t *testing.T) {
	m := &model.Model{
		States: []model.State{
			product("a_in"), product("a_out"),
			product("b_in"), product("b_out"),
		},
		ProcessOperators: []model.ProcessOperator{
			testOperator("pa"), testOperator("pb"),
		},
		Flows: []model.Flow{
			testFlow("f1", "a_in", "pa"),
			testFlow("f2", "pa", "a_out"),
			testFlow("f3", "b_in", "pb"),
			testFlow("f4", "pb", "b_out"),
		},
	}

	d := Compute(m, DefaultConfig())

	pa, pb := d.Element("pa"), d.Element("pb")
	if pa.Y != pb.Y {
		t.Errorf("independent operators share a rank row: pa.Y = %v, pb.Y = %v", pa.Y, pb.Y)
	}
	if rectsOverlap(pa, pb) {
		t.Errorf("same-rank operators overlap: %+v vs %+v", pa, pb)
	}
	if pa.X >= pb.X {
		t.Errorf("same-rank operators keep ID order: pa.X = %v, pb.X = %v", pa.X, pb.X)
	}
}

func TestCompute_FeedbackLaneClearsWideRank(t *testing.T) {
	// A feedback state spanning three ranks sits beside the middle row.
	// That row holds two operators, so the spread must not reach the lane.
	m := &model.Model{
		States: []model.State{
			product("s_in"),
			product("m1"), product("m2"),
			product("m3"), product("m4"),
			product("s_out"),
			product("fb"),
		},
		ProcessOperators: []model.ProcessOperator{
			testOperator("pa"), testOperator("pb"), testOperator("pb2"), testOperator("pc"),
		},
		Flows: []model.Flow{
			testFlow("f1", "s_in", "pa"),
			testFlow("f2", "pa", "m1"),
			testFlow("f3", "m1", "pb"),
			testFlow("f4", "pa", "m2"),
			testFlow("f5", "m2", "pb2"),
			testFlow("f6", "pb", "m3"),
			testFlow("f7", "m3", "pc"),
			testFlow("f8", "pb2", "m4"),
			testFlow("f9", "m4", "pc"),
			testFlow("f10", "pc", "s_out"),
			testFlow("f11", "pc", "fb"),
			testFlow("f12", "fb", "pa"),
		},
	}

	d := Compute(m, DefaultConfig())

	pb, pb2 := d.Element("pb"), d.Element("pb2")
	if pb.Y != pb2.Y {
		t.Fatalf("pb.Y = %v, pb2.Y = %v, want a shared rank row", pb.Y, pb2.Y)
	}

	fb := d.Element("fb")
	for _, id := range []string{"pa", "pb", "pb2", "pc"} {
		if op := d.Element(id); fb.X+fb.Width > op.X {
			t.Errorf("feedback lane right edge %v reaches operator %q at x = %v", fb.X+fb.Width, id, op.X)
		}
	}

	for i := range d.Elements {
		for j := i + 1; j < len(d.Elements); j++ {
			a, b := &d.Elements[i], &d.Elements[j]
			if rectsOverlap(a, b) {
				t.Errorf("elements %q and %q overlap: %+v vs %+v", a.ID, b.ID, a, b)
			}
		}
	}
}

func TestCompute_BoundaryContainment(t *testing.T) {
	m := chainModel(3)
	d := Compute(m, DefaultConfig())

	b := d.PrimaryBoundary()
	if b == nil {
		t.Fatal("PrimaryBoundary() = nil, want a boundary")
	}
	for i := range d.Elements {
		e := &d.Elements[i]
		if e.Kind != model.KindProcessOperator && e.StateType == "" {
			continue
		}
		if e.Kind == model.KindState && (e.ID == "s_in" || e.ID == "s_out") {
			continue // boundary states straddle the edge
		}
		if e.X < b.X || e.X+e.Width > b.X+b.Width || e.Y < b.Y || e.Y+e.Height > b.Y+b.Height {
			t.Errorf("core element %q at %+v outside boundary %+v", e.ID, e, b)
		}
	}
}

func TestCompute_MultiSystemSeparation(t *testing.T) {
	m := &model.Model{
		SystemLimits: []model.SystemLimit{
			{ID: "sysA", Label: "Line A", Identification: ident("sysA")},
			{ID: "sysB", Label: "Line B", Identification: ident("sysB")},
		},
	}
	for _, sid := range []string{"sysA", "sysB"} {
		in := product(sid + "_in")
		in.SystemID = sid
		out := product(sid + "_out")
		out.SystemID = sid
		po := testOperator(sid + "_p")
		po.SystemID = sid
		f1 := testFlow(sid+"_f1", in.ID, po.ID)
		f1.SystemID = sid
		f2 := testFlow(sid+"_f2", po.ID, out.ID)
		f2.SystemID = sid
		m.States = append(m.States, in, out)
		m.ProcessOperators = append(m.ProcessOperators, po)
		m.Flows = append(m.Flows, f1, f2)
	}

	cfg := DefaultConfig()
	d := Compute(m, cfg)

	if len(d.Boundaries) != 2 {
		t.Fatalf("len(Boundaries) = %d, want 2", len(d.Boundaries))
	}
	a, b := &d.Boundaries[0], &d.Boundaries[1]
	if a.Label != "Line A" || b.Label != "Line B" {
		t.Errorf("boundary labels = %q, %q, want declared labels", a.Label, b.Label)
	}
	if a.X+a.Width > b.X {
		t.Errorf("boundaries overlap horizontally: A right = %v, B left = %v", a.X+a.Width, b.X)
	}
	// The next system starts 3 h-gaps after the previous boundary; its own
	// boundary then sits at padding minus boundary padding from that start.
	wantGap := cfg.HGap*3 + cfg.Padding - cfg.BoundaryPadding
	if gap := b.X - (a.X + a.Width); gap != wantGap {
		t.Errorf("inter-system gap = %v, want %v", gap, wantGap)
	}
}

func TestCompute_UntaggedSystemLabel(t *testing.T) {
	m := &model.Model{
		States:           []model.State{product("s1"), product("s2")},
		ProcessOperators: []model.ProcessOperator{testOperator("p1")},
		Flows: []model.Flow{
			testFlow("f1", "s1", "p1"),
			testFlow("f2", "p1", "s2"),
		},
	}

	d := Compute(m, DefaultConfig())

	b := d.PrimaryBoundary()
	if b == nil {
		t.Fatal("PrimaryBoundary() = nil, want a boundary")
	}
	if b.Label != "System" {
		t.Errorf("untagged boundary label = %q, want %q", b.Label, "System")
	}
	if b.ID != "" {
		t.Errorf("untagged boundary ID = %q, want empty", b.ID)
	}
}

func TestCompute_ResourceAlignment(t *testing.T) {
	m := &model.Model{
		States:           []model.State{product("s1"), product("s2")},
		ProcessOperators: []model.ProcessOperator{testOperator("p1")},
		TechnicalResources: []model.TechnicalResource{
			{ID: "tr1", Label: "Robot", Identification: ident("tr1")},
		},
		Flows: []model.Flow{
			testFlow("f1", "s1", "p1"),
			testFlow("f2", "p1", "s2"),
		},
		Usages: []model.Usage{
			{ID: "u1", ProcessOperatorRef: "p1", TechnicalResourceRef: "tr1"},
		},
	}

	d := Compute(m, DefaultConfig())

	tr, p1 := d.Element("tr1"), d.Element("p1")
	b := d.PrimaryBoundary()
	if tr.X < b.X+b.Width {
		t.Errorf("resource right of boundary: tr.X = %v, boundary right = %v", tr.X, b.X+b.Width)
	}
	wantY := p1.Y + (p1.Height-ResourceHeight)/2
	if tr.Y != wantY {
		t.Errorf("resource row-aligned with bound operator: tr.Y = %v, want %v", tr.Y, wantY)
	}

	var usage *Connection
	for i := range d.Connections {
		if d.Connections[i].Usage {
			usage = &d.Connections[i]
		}
	}
	if usage == nil {
		t.Fatal("no usage connection emitted")
	}
	if usage.SourceID != "p1" || usage.TargetID != "tr1" {
		t.Errorf("usage connection = %q→%q, want p1→tr1", usage.SourceID, usage.TargetID)
	}
}

func TestCompute_ResourcesOnlySystem(t *testing.T) {
	m := &model.Model{
		TechnicalResources: []model.TechnicalResource{
			{ID: "tr1", Label: "Crane", Identification: ident("tr1")},
			{ID: "tr2", Label: "Belt", Identification: ident("tr2")},
		},
	}

	d := Compute(m, DefaultConfig())

	if len(d.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(d.Elements))
	}
	if d.PrimaryBoundary() != nil {
		t.Errorf("PrimaryBoundary() = %+v, want nil", d.PrimaryBoundary())
	}
	tr1, tr2 := d.Element("tr1"), d.Element("tr2")
	if rectsOverlap(tr1, tr2) {
		t.Errorf("stacked resources overlap: %+v vs %+v", tr1, tr2)
	}
}

func TestCompute_Completeness(t *testing.T) {
	m := chainModel(5)
	m.States = append(m.States,
		testState("e1", model.StateEnergy),
		testState("i1", model.StateInformation),
		product("orphan"),
	)
	m.Flows = append(m.Flows,
		testFlow("fe", "e1", poName(2)),
		testFlow("fi", poName(2), "i1"),
	)
	m.ProcessOperators = append(m.ProcessOperators, testOperator("lonely"))
	m.TechnicalResources = append(m.TechnicalResources,
		model.TechnicalResource{ID: "tr1", Label: "tr1", Identification: ident("tr1")},
	)

	d := Compute(m, DefaultConfig())

	want := m.ElementCount()
	if len(d.Elements) != want {
		t.Errorf("len(Elements) = %d, want %d", len(d.Elements), want)
	}
	if got, want := len(d.Connections), len(m.Flows)+len(m.Usages); got != want {
		t.Errorf("len(Connections) = %d, want %d", got, want)
	}
}

func TestCompute_EnergyInformationSides(t *testing.T) {
	m := &model.Model{
		States: []model.State{
			product("s_in"), product("s_out"),
			testState("e1", model.StateEnergy),
			testState("i1", model.StateInformation),
		},
		ProcessOperators: []model.ProcessOperator{testOperator("p1")},
		Flows: []model.Flow{
			testFlow("f1", "s_in", "p1"),
			testFlow("f2", "p1", "s_out"),
			testFlow("f3", "e1", "p1"),
			testFlow("f4", "p1", "i1"),
		},
	}

	d := Compute(m, DefaultConfig())

	p1 := d.Element("p1")
	if e1 := d.Element("e1"); e1.X >= p1.X {
		t.Errorf("energy input on the left: e1.X = %v, p1.X = %v", e1.X, p1.X)
	}
	if i1 := d.Element("i1"); i1.X <= p1.X+p1.Width {
		t.Errorf("information output on the right: i1.X = %v, p1 right = %v", i1.X, p1.X+p1.Width)
	}
}

func TestDiagram_Bounds(t *testing.T) {
	d := Compute(chainModel(2), DefaultConfig())

	minX, minY, maxX, maxY := d.Bounds()
	if minX >= maxX || minY >= maxY {
		t.Fatalf("Bounds() = (%v, %v, %v, %v), want a non-empty box", minX, minY, maxX, maxY)
	}
	for i := range d.Elements {
		e := &d.Elements[i]
		if e.X < minX || e.Y < minY || e.X+e.Width > maxX || e.Y+e.Height > maxY {
			t.Errorf("element %q outside Bounds()", e.ID)
		}
	}
}
