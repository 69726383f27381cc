package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
)

// WriteModel encodes a process model as indented JSON and writes it to w.
// The output round-trips through [ReadModel].
func WriteModel(m *model.Model, w io.Writer) error {
	return writeIndented(m, w, "model")
}

// ExportModel writes a model to a JSON file at path.
func ExportModel(m *model.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteModel(m, f)
}

// WriteDiagram encodes a computed diagram as indented JSON and writes it
// to w. The output round-trips through [ReadDiagram].
func WriteDiagram(d *layout.Diagram, w io.Writer) error {
	return writeIndented(d, w, "diagram")
}

// ExportDiagram writes a diagram to a JSON file at path.
func ExportDiagram(d *layout.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDiagram(d, f)
}

func writeIndented(v any, w io.Writer, what string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", what, err)
	}
	return nil
}
