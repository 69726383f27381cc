// Package export converts models back into interchange formats.
//
// Exporters consume the model, not the positioned diagram: they describe
// the process, not its geometry. [Text] produces FPB source that re-parses
// to an equivalent model, preserving system blocks. [XML] produces VDI 3682
// XML following the HSU Hamburg FPD_Schema layout, where the flowContainer
// registers flow IDs and types while each element carries its own
// entry/exit bindings.
package export
