// Package render turns a positioned diagram into image artifacts.
//
// The primary renderer builds SVG directly from the diagram geometry, so
// the output matches the computed layout exactly. PDF and PNG are derived
// from the SVG via rsvg-convert. A secondary DOT renderer produces a
// Graphviz structure view of the process graph, useful for debugging the
// connectivity independent of the layout.
package render
