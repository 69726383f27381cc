package fpb

import (
	"strings"
	"testing"

	"github.com/phindler/fpdviz/pkg/model"
)

func validModel() *model.Model {
	return Parse(`@startfpb
product s1
product s2
process_operator p1
technical_resource tr1
s1 --> p1
p1 --> s2
p1 <..> tr1
@endfpb`)
}

func TestValidateConnections_CleanModel(t *testing.T) {
	errs := ValidateConnections(validModel())

	if len(errs) != 0 {
		t.Errorf("ValidateConnections() = %v, want none", errs)
	}
}

func TestValidateConnections_StateToState(t *testing.T) {
	m := validModel()
	m.Flows = append(m.Flows, model.Flow{
		ID: "bad", SourceRef: "s1", TargetRef: "s2", Type: model.FlowRegular,
	})

	errs := ValidateConnections(m)

	if len(errs) != 1 {
		t.Fatalf("ValidateConnections() = %v, want one error", errs)
	}
	if !strings.Contains(errs[0], "State <-> ProcessOperator") {
		t.Errorf("error %q should name the connection rule", errs[0])
	}
}

func TestValidateConnections_FlowToResource(t *testing.T) {
	m := validModel()
	m.Flows = append(m.Flows, model.Flow{
		ID: "bad", SourceRef: "p1", TargetRef: "tr1", Type: model.FlowRegular,
	})

	errs := ValidateConnections(m)

	if len(errs) != 1 {
		t.Fatalf("ValidateConnections() = %v, want one error", errs)
	}
	// Kinds are quoted with the notation's keyword spelling.
	if !strings.Contains(errs[0], "process_operator 'p1'") ||
		!strings.Contains(errs[0], "technical_resource 'tr1'") {
		t.Errorf("error %q should spell kinds as declared in the notation", errs[0])
	}
}

func TestValidateConnections_DuplicateFlow(t *testing.T) {
	m := validModel()
	m.Flows = append(m.Flows, model.Flow{
		ID: "dup", SourceRef: "s1", TargetRef: "p1", Type: model.FlowRegular,
	})

	errs := ValidateConnections(m)

	if len(errs) != 1 {
		t.Fatalf("ValidateConnections() = %v, want one error", errs)
	}
	if !strings.Contains(errs[0], "duplicate") {
		t.Errorf("error %q should mention the duplicate", errs[0])
	}
}

func TestValidateConnections_DanglingRefs(t *testing.T) {
	m := validModel()
	m.Flows = append(m.Flows,
		model.Flow{ID: "g1", SourceRef: "ghost", TargetRef: "p1", Type: model.FlowRegular},
		model.Flow{ID: "g2", SourceRef: "p1", TargetRef: "ghost", Type: model.FlowRegular},
	)

	if errs := ValidateConnections(m); len(errs) != 2 {
		t.Errorf("ValidateConnections() = %v, want two errors", errs)
	}
}

func TestValidateConnections_UsageKinds(t *testing.T) {
	m := validModel()
	m.Usages = append(m.Usages,
		model.Usage{ID: "u_bad1", ProcessOperatorRef: "s1", TechnicalResourceRef: "tr1"},
		model.Usage{ID: "u_bad2", ProcessOperatorRef: "p1", TechnicalResourceRef: "s2"},
	)

	errs := ValidateConnections(m)

	if len(errs) != 2 {
		t.Fatalf("ValidateConnections() = %v, want two errors", errs)
	}
	if !strings.Contains(errs[0], "not a ProcessOperator") {
		t.Errorf("error %q should flag the operator side", errs[0])
	}
	if !strings.Contains(errs[1], "not a TechnicalResource") {
		t.Errorf("error %q should flag the resource side", errs[1])
	}
}

func TestValidateConnections_DuplicateUsage(t *testing.T) {
	m := validModel()
	m.Usages = append(m.Usages, model.Usage{
		ID: "dup", ProcessOperatorRef: "p1", TechnicalResourceRef: "tr1",
	})

	if errs := ValidateConnections(m); len(errs) != 1 {
		t.Errorf("ValidateConnections() = %v, want one error", errs)
	}
}

func TestValidate_AppendsToModel(t *testing.T) {
	m := validModel()
	m.Flows = append(m.Flows, model.Flow{
		ID: "bad", SourceRef: "s1", TargetRef: "s2", Type: model.FlowRegular,
	})

	if Validate(m) {
		t.Error("Validate() = true, want false")
	}
	if len(m.Errors) != 1 {
		t.Errorf("model.Errors = %v, want the violation appended", m.Errors)
	}
	if clean := validModel(); !Validate(clean) || len(clean.Errors) != 0 {
		t.Error("clean model must validate without errors")
	}
}
