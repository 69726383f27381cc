// Package io provides JSON import and export for process models and
// computed diagrams.
//
// # Overview
//
// The CLI writes models and diagrams as JSON so they can be inspected,
// versioned, or fed into external tooling. This package owns that format:
// it is the indented JSON encoding of [model.Model] and [layout.Diagram],
// and the reader side validates referential integrity so a hand-edited
// file fails loudly instead of producing a broken render.
//
// # Model Format
//
// A model document mirrors the FPB text notation after parsing:
//
//	{
//	  "title": "Milling",
//	  "states": [{"id": "blank", "state_type": "product", "label": "Blank"}],
//	  "process_operators": [{"id": "mill", "label": "Mill"}],
//	  "flows": [{"id": "f1", "source_ref": "blank", "target_ref": "mill", "flow_type": "standard"}],
//	  "usages": [{"id": "u1", "process_operator_ref": "mill", "technical_resource_ref": "machine"}]
//	}
//
// # Import
//
// Use [ReadModel] or [ReadDiagram] to decode from any io.Reader, or the
// [ImportModel] and [ImportDiagram] wrappers for file paths. Readers return
// an error when the JSON is malformed or when a flow or usage references an
// element that does not exist.
//
// # Export
//
// Use [WriteModel] and [WriteDiagram] (or the Export file wrappers) to
// produce output that round-trips through the readers unchanged.
package io
