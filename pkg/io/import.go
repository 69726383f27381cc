package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
)

// ReadModel decodes a process model from r.
//
// Beyond JSON well-formedness, ReadModel checks referential integrity:
// every flow must connect two known elements and every usage must pair a
// known process operator with a known technical resource. Validation
// failures identify the offending flow or usage by ID.
//
// The returned model is independent of r. ReadModel does not close r.
func ReadModel(r io.Reader) (*model.Model, error) {
	var m model.Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	ids := make(map[string]bool)
	operators := make(map[string]bool)
	resources := make(map[string]bool)
	for _, s := range m.States {
		ids[s.ID] = true
	}
	for _, op := range m.ProcessOperators {
		ids[op.ID] = true
		operators[op.ID] = true
	}
	for _, tr := range m.TechnicalResources {
		ids[tr.ID] = true
		resources[tr.ID] = true
	}

	for _, f := range m.Flows {
		if !ids[f.SourceRef] {
			return nil, fmt.Errorf("flow %s: unknown source %q", f.ID, f.SourceRef)
		}
		if !ids[f.TargetRef] {
			return nil, fmt.Errorf("flow %s: unknown target %q", f.ID, f.TargetRef)
		}
	}
	for _, u := range m.Usages {
		if !operators[u.ProcessOperatorRef] {
			return nil, fmt.Errorf("usage %s: unknown process operator %q", u.ID, u.ProcessOperatorRef)
		}
		if !resources[u.TechnicalResourceRef] {
			return nil, fmt.Errorf("usage %s: unknown technical resource %q", u.ID, u.TechnicalResourceRef)
		}
	}

	return &m, nil
}

// ImportModel reads a model JSON file at path.
// The error wraps the underlying cause with the file path for context.
func ImportModel(path string) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}

// ReadDiagram decodes a computed diagram from r. Connections must
// reference elements present in the diagram.
func ReadDiagram(r io.Reader) (*layout.Diagram, error) {
	var d layout.Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode diagram: %w", err)
	}

	ids := make(map[string]bool, len(d.Elements))
	for _, e := range d.Elements {
		ids[e.ID] = true
	}
	for _, c := range d.Connections {
		if !ids[c.SourceID] {
			return nil, fmt.Errorf("connection %s: unknown source %q", c.ID, c.SourceID)
		}
		if !ids[c.TargetID] {
			return nil, fmt.Errorf("connection %s: unknown target %q", c.ID, c.TargetID)
		}
	}

	return &d, nil
}

// ImportDiagram reads a diagram JSON file at path.
func ImportDiagram(path string) (*layout.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDiagram(f)
}
