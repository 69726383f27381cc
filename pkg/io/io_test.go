package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phindler/fpdviz/pkg/fpb"
	"github.com/phindler/fpdviz/pkg/layout"
)

const testSource = `@startfpb
title "Milling"
product blank "Blank"
process_operator mill "Mill"
technical_resource machine "CNC Machine"
product part "Finished Part"
blank --> mill
mill --> part
mill <..> machine
@endfpb`

func TestModel_RoundTrip(t *testing.T) {
	m := fpb.Parse(testSource)
	if len(m.Errors) != 0 {
		t.Fatalf("fixture has errors: %v", m.Errors)
	}

	var buf bytes.Buffer
	if err := WriteModel(m, &buf); err != nil {
		t.Fatalf("WriteModel() error = %v", err)
	}

	got, err := ReadModel(&buf)
	if err != nil {
		t.Fatalf("ReadModel() error = %v", err)
	}
	if got.Title != m.Title {
		t.Errorf("Title = %q, want %q", got.Title, m.Title)
	}
	if got.ElementCount() != m.ElementCount() {
		t.Errorf("ElementCount() = %d, want %d", got.ElementCount(), m.ElementCount())
	}
	if len(got.Flows) != len(m.Flows) || len(got.Usages) != len(m.Usages) {
		t.Errorf("flows/usages = %d/%d, want %d/%d",
			len(got.Flows), len(got.Usages), len(m.Flows), len(m.Usages))
	}
}

func TestReadModel_RejectsDanglingFlow(t *testing.T) {
	in := `{
  "title": "Broken",
  "states": [{"id": "a", "state_type": "product", "label": "A"}],
  "flows": [{"id": "f1", "source_ref": "a", "target_ref": "ghost", "flow_type": "standard"}]
}`
	_, err := ReadModel(strings.NewReader(in))
	if err == nil {
		t.Fatal("ReadModel() must reject a flow with an unknown target")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error = %v, want mention of the unknown reference", err)
	}
}

func TestReadModel_RejectsDanglingUsage(t *testing.T) {
	in := `{
  "process_operators": [{"id": "mill", "label": "Mill"}],
  "usages": [{"id": "u1", "process_operator_ref": "mill", "technical_resource_ref": "nope"}]
}`
	if _, err := ReadModel(strings.NewReader(in)); err == nil {
		t.Fatal("ReadModel() must reject a usage with an unknown resource")
	}
}

func TestReadModel_Malformed(t *testing.T) {
	if _, err := ReadModel(strings.NewReader("{not json")); err == nil {
		t.Fatal("ReadModel() must fail on malformed JSON")
	}
}

func TestDiagram_RoundTrip(t *testing.T) {
	m := fpb.Parse(testSource)
	d := layout.Compute(m, layout.DefaultConfig())

	var buf bytes.Buffer
	if err := WriteDiagram(d, &buf); err != nil {
		t.Fatalf("WriteDiagram() error = %v", err)
	}

	got, err := ReadDiagram(&buf)
	if err != nil {
		t.Fatalf("ReadDiagram() error = %v", err)
	}
	if len(got.Elements) != len(d.Elements) {
		t.Errorf("elements = %d, want %d", len(got.Elements), len(d.Elements))
	}
	if len(got.Connections) != len(d.Connections) {
		t.Errorf("connections = %d, want %d", len(got.Connections), len(d.Connections))
	}
}

func TestReadDiagram_RejectsDanglingConnection(t *testing.T) {
	in := `{
  "elements": [{"id": "a", "type": 0, "label": "A", "x": 0, "y": 0, "width": 10, "height": 10}],
  "connections": [{"id": "c1", "sourceId": "a", "targetId": "ghost", "isUsage": false}],
  "systemLimits": []
}`
	if _, err := ReadDiagram(strings.NewReader(in)); err == nil {
		t.Fatal("ReadDiagram() must reject a connection with an unknown element")
	}
}

func TestImportExport_Files(t *testing.T) {
	m := fpb.Parse(testSource)
	path := filepath.Join(t.TempDir(), "model.json")

	if err := ExportModel(m, path); err != nil {
		t.Fatalf("ExportModel() error = %v", err)
	}
	got, err := ImportModel(path)
	if err != nil {
		t.Fatalf("ImportModel() error = %v", err)
	}
	if got.Title != "Milling" {
		t.Errorf("Title = %q, want Milling", got.Title)
	}

	if _, err := ImportModel(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportModel() with missing file must fail")
	}
}
