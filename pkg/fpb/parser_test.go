package fpb

import (
	"testing"

	"github.com/phindler/fpdviz/pkg/model"
)

func TestParse_EmptyDocument(t *testing.T) {
	m := Parse("@startfpb\n@endfpb")

	if len(m.Errors) != 0 {
		t.Errorf("Errors = %v, want none", m.Errors)
	}
	if !m.IsEmpty() {
		t.Errorf("ElementCount() = %d, want 0", m.ElementCount())
	}
}

func TestParse_TitleAndElements(t *testing.T) {
	src := `@startfpb
title "My Process"
product raw "Raw Part"
energy power
information spec "Spec Sheet"
process_operator mill "Milling"
technical_resource machine
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", m.Errors)
	}
	if m.Title != "My Process" {
		t.Errorf("Title = %q, want %q", m.Title, "My Process")
	}
	if len(m.States) != 3 {
		t.Fatalf("len(States) = %d, want 3", len(m.States))
	}
	if m.States[0].Type != model.StateProduct || m.States[0].Label != "Raw Part" {
		t.Errorf("States[0] = %+v, want product with label", m.States[0])
	}
	if m.States[1].Type != model.StateEnergy || m.States[1].Label != "power" {
		t.Errorf("States[1] = %+v, want energy labeled by its ID", m.States[1])
	}
	if m.States[2].Type != model.StateInformation {
		t.Errorf("States[2].Type = %q, want information", m.States[2].Type)
	}
	if len(m.ProcessOperators) != 1 || m.ProcessOperators[0].Label != "Milling" {
		t.Errorf("ProcessOperators = %+v, want one labeled Milling", m.ProcessOperators)
	}
	if len(m.TechnicalResources) != 1 || m.TechnicalResources[0].ID != "machine" {
		t.Errorf("TechnicalResources = %+v, want one with ID machine", m.TechnicalResources)
	}
	if m.States[0].Identification.UniqueIdent != "raw" || m.States[0].Identification.LongName != "Raw Part" {
		t.Errorf("Identification = %+v, want ident raw / long name Raw Part", m.States[0].Identification)
	}
}

func TestParse_PlacementAnnotations(t *testing.T) {
	src := `@startfpb
product s1 @boundary
product s2 @boundary-top
product s3 @boundary-bottom
product s4 @boundary-left
product s5 @boundary-right
product s6 @internal
product s7
@endfpb`

	m := Parse(src)

	want := []model.Placement{
		model.PlacementBoundary,
		model.PlacementBoundaryTop,
		model.PlacementBoundaryBottom,
		model.PlacementBoundaryLeft,
		model.PlacementBoundaryRight,
		model.PlacementInternal,
		model.PlacementNone,
	}
	if len(m.States) != len(want) {
		t.Fatalf("len(States) = %d, want %d", len(m.States), len(want))
	}
	for i, w := range want {
		if m.States[i].Placement != w {
			t.Errorf("States[%d].Placement = %q, want %q", i, m.States[i].Placement, w)
		}
	}
}

func TestParse_AnnotationOnOperatorWarns(t *testing.T) {
	m := Parse("@startfpb\nprocess_operator p1 @boundary\n@endfpb")

	if len(m.Errors) != 0 {
		t.Errorf("Errors = %v, want none", m.Errors)
	}
	if len(m.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", m.Warnings)
	}
	if len(m.ProcessOperators) != 1 {
		t.Errorf("operator dropped: %+v", m.ProcessOperators)
	}
}

func TestParse_Connections(t *testing.T) {
	src := `@startfpb
product a
product b
product c
product d
process_operator p
technical_resource tr
a --> p
p -.-> b
p ==> c
p <..> tr
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", m.Errors)
	}
	if len(m.Flows) != 3 {
		t.Fatalf("len(Flows) = %d, want 3", len(m.Flows))
	}
	wantTypes := []model.FlowType{model.FlowRegular, model.FlowAlternative, model.FlowParallel}
	for i, w := range wantTypes {
		if m.Flows[i].Type != w {
			t.Errorf("Flows[%d].Type = %q, want %q", i, m.Flows[i].Type, w)
		}
	}
	if m.Flows[0].ID != "flow_1" || m.Flows[2].ID != "flow_3" {
		t.Errorf("flow IDs = %q..%q, want generated flow_N sequence", m.Flows[0].ID, m.Flows[2].ID)
	}
	if len(m.Usages) != 1 {
		t.Fatalf("len(Usages) = %d, want 1", len(m.Usages))
	}
	u := m.Usages[0]
	if u.ID != "usage_1" || u.ProcessOperatorRef != "p" || u.TechnicalResourceRef != "tr" {
		t.Errorf("Usages[0] = %+v, want usage_1 p→tr", u)
	}
}

func TestParse_SingleSystemBlock(t *testing.T) {
	src := `@startfpb
system "Manufacturing" {
    product s1
    process_operator p1
    s1 --> p1
}
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", m.Errors)
	}
	if len(m.SystemLimits) != 1 {
		t.Fatalf("len(SystemLimits) = %d, want 1", len(m.SystemLimits))
	}
	sl := m.SystemLimits[0]
	if sl.Label != "Manufacturing" {
		t.Errorf("system label = %q, want Manufacturing", sl.Label)
	}
	if m.States[0].SystemID != sl.ID || m.ProcessOperators[0].SystemID != sl.ID || m.Flows[0].SystemID != sl.ID {
		t.Error("elements inside the block must carry the system ID")
	}
}

func TestParse_MultipleSystemBlocks(t *testing.T) {
	src := `@startfpb
system "System A" {
    product a1
}
system "System B" {
    product b1
}
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", m.Errors)
	}
	if len(m.SystemLimits) != 2 {
		t.Fatalf("len(SystemLimits) = %d, want 2", len(m.SystemLimits))
	}
	if m.SystemLimits[0].ID == m.SystemLimits[1].ID {
		t.Error("system IDs must be unique")
	}
	if m.States[0].SystemID != m.SystemLimits[0].ID {
		t.Errorf("a1.SystemID = %q, want %q", m.States[0].SystemID, m.SystemLimits[0].ID)
	}
	if m.States[1].SystemID != m.SystemLimits[1].ID {
		t.Errorf("b1.SystemID = %q, want %q", m.States[1].SystemID, m.SystemLimits[1].ID)
	}
}

func TestParse_ElementsOutsideSystemUntagged(t *testing.T) {
	src := `@startfpb
title "Legacy"
product s1
process_operator p1
s1 --> p1
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", m.Errors)
	}
	if len(m.SystemLimits) != 0 {
		t.Errorf("len(SystemLimits) = %d, want 0", len(m.SystemLimits))
	}
	if m.States[0].SystemID != "" || m.Flows[0].SystemID != "" {
		t.Error("untagged elements must carry an empty system ID")
	}
}

func TestParse_TitleInsideSystemBlockErrors(t *testing.T) {
	src := `@startfpb
system "A" {
    title "nope"
}
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", m.Errors)
	}
	if m.Title != "" {
		t.Errorf("Title = %q, want empty", m.Title)
	}
}

func TestParse_DuplicateID(t *testing.T) {
	m := Parse("@startfpb\nproduct s1\nproduct s1\n@endfpb")

	if len(m.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", m.Errors)
	}
	if len(m.States) != 1 {
		t.Errorf("len(States) = %d, want 1 (duplicate dropped)", len(m.States))
	}
}

func TestParse_UndefinedConnectionEndpoint(t *testing.T) {
	m := Parse("@startfpb\nproduct s1\ns1 --> ghost\n@endfpb")

	if len(m.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", m.Errors)
	}
	if len(m.Flows) != 0 {
		t.Errorf("len(Flows) = %d, want 0", len(m.Flows))
	}
}

func TestParse_MissingEndDelimiter(t *testing.T) {
	m := Parse("@startfpb\nproduct s1\n")

	if len(m.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", m.Errors)
	}
	if len(m.States) != 1 {
		t.Errorf("states before the break must survive: %+v", m.States)
	}
}

func TestParse_MissingClosingBrace(t *testing.T) {
	m := Parse("@startfpb\nsystem \"A\" {\nproduct s1\n@endfpb")

	if len(m.Errors) == 0 {
		t.Fatal("want an error for the missing brace")
	}
	if len(m.States) != 1 {
		t.Errorf("len(States) = %d, want 1", len(m.States))
	}
}

func TestParse_CommentsIgnored(t *testing.T) {
	src := `@startfpb
// a comment
product s1 // trailing comment
@endfpb`

	m := Parse(src)

	if len(m.Errors) != 0 {
		t.Errorf("Errors = %v, want none", m.Errors)
	}
	if len(m.States) != 1 {
		t.Errorf("len(States) = %d, want 1", len(m.States))
	}
}

func TestParse_ErrorsKeepParsing(t *testing.T) {
	src := `@startfpb
product s1
s1 -->
product s2
@endfpb`

	m := Parse(src)

	if len(m.Errors) == 0 {
		t.Fatal("want an error for the dangling connection")
	}
	if len(m.States) != 2 {
		t.Errorf("len(States) = %d, want 2 (parse continues past errors)", len(m.States))
	}
}

func TestParse_LineNumbersRecorded(t *testing.T) {
	m := Parse("@startfpb\nproduct s1\nprocess_operator p1\n@endfpb")

	if m.States[0].Line != 2 {
		t.Errorf("s1 line = %d, want 2", m.States[0].Line)
	}
	if m.ProcessOperators[0].Line != 3 {
		t.Errorf("p1 line = %d, want 3", m.ProcessOperators[0].Line)
	}
}
