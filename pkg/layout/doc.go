// Package layout computes x,y positions for VDI 3682 process diagrams.
//
// # Overview
//
// The engine turns a [model.Model] into a positioned [Diagram]: every state,
// process operator, and technical resource receives a coordinate and size,
// each system receives a boundary rectangle, and every flow and usage becomes
// a connection with optional routing-side hints.
//
// Layout is a pure function. [Compute] never mutates its input, performs no
// I/O, and returns the same output for the same input. Degenerate input
// (empty models, dangling references, cyclic flows) degrades to a sensible
// diagram instead of an error.
//
// # Algorithm
//
// Each system is laid out independently through seven phases:
//
//  1. Build the connectivity graph from flows and usages
//  2. Rank process operators with a cycle-tolerant topological sort
//  3. Classify states into six placement categories
//  4. Assign each state a row affinity from its neighbors' ranks
//  5. Compute coordinates: operator rows top to bottom, intermediate
//     states between rows, feedback states in a left lane
//  6. Compute the system boundary and pin boundary states onto its edges
//  7. Emit connections with routing hints
//
// Multiple systems are arranged side by side, separated by three horizontal
// gaps, in the order the model declares them.
//
// # Classification
//
// States fall into one of six [Category] values. An explicit placement hint
// on the state always wins; a bare boundary hint auto-detects the side; with
// no hint the category follows connectivity. Products prefer the top and
// bottom edges (the VDI 3682 main flow axis) while energy and information
// prefer left and right.
//
// # Determinism
//
// Sibling order everywhere follows the order of the model's element lists,
// so two runs over the same model produce byte-identical diagrams. Producers
// control visual order by controlling declaration order.
package layout
