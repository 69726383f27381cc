// Package pkg provides the core libraries for fpdviz, an automatic layout
// and rendering engine for VDI 3682 formalized process descriptions.
//
// # Architecture
//
// The packages form a pipeline from FPB text notation to finished
// artifacts:
//
//	FPB text --> model --> diagram --> SVG / PDF / PNG / XML / DOT
//
// Each stage is an independent package with a small API, so callers can
// enter the pipeline at any point: parse text and stop at the model, feed
// a hand-built model into the layout, or render a previously computed
// diagram.
//
// # Packages
//
//   - fpb: parser and validator for the FPB text notation. Parsing never
//     fails; problems are collected on the model's error list.
//   - model: the process model types shared by every stage. States,
//     process operators, technical resources, flows, usages, and system
//     limits, with JSON and BSON tags for the API and session backends.
//   - layout: the layered layout algorithm. Assigns elements to layers,
//     orders them to reduce crossings, and produces absolute coordinates
//     for elements, connection routes, and system boundaries.
//   - render: turns a diagram into SVG, and converts SVG to PDF or PNG
//     via rsvg-convert. Also emits Graphviz DOT for external tooling.
//   - export: FPB text and VDI 3682 XML serialization, plus the XML
//     importer that accepts both current and legacy schema dialects.
//   - io: JSON import and export for models and diagrams, with
//     referential integrity checks on the import side.
//   - pipeline: the orchestration layer used by the CLI and the server.
//     Runs parse, layout, and render with content-addressed caching.
//   - cache: the byte-level cache behind the pipeline, with file-backed
//     and null implementations.
//   - session: session storage for the HTTP API, with memory, file,
//     Redis, and MongoDB backends behind one interface.
//   - server: the HTTP API. Parse, import, export, and session
//     endpoints built on chi.
//   - httputil: JSON response and request helpers, error code to status
//     mapping, CORS, and request logging middleware.
//   - errors: coded errors shared across the CLI and the API, plus
//     input validation helpers.
//   - observability: process-wide hook registries for pipeline, cache,
//     and HTTP instrumentation.
//   - buildinfo: version information embedded at build time.
//
// # Entry Points
//
// Most callers want [pipeline.Runner], which ties the stages together:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  source,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// For direct access, fpb.Parse, layout.Compute, and render.SVG compose
// the same way the runner composes them.
package pkg
