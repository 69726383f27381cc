// Package fpb implements the FPB text language front end: a lexer, a
// statement parser, and the VDI 3682 connection validator.
//
// FPB is a small line-oriented language for formalized process descriptions:
//
//	@startfpb
//	title "Milling Line"
//	product raw "Raw Part"
//	product finished "Finished Part" @boundary
//	process_operator milling "Milling"
//	technical_resource machine "Milling Machine"
//	raw --> milling
//	milling --> finished
//	milling <..> machine
//	@endfpb
//
// Element declarations name a keyword, an identifier, an optional quoted
// label, and for states an optional placement annotation. Connections use
// the operators --> (flow), -.-> (alternative flow), ==> (parallel flow),
// and <..> (usage). A system "..." { } block tags the statements inside it
// with a generated system ID.
//
// [Parse] never fails: syntax problems are collected as error and warning
// strings on the returned model, so a partially broken document still lays
// out and renders. [ValidateConnections] applies the VDI 3682 connection
// rules as a separate, equally non-blocking pass.
package fpb
