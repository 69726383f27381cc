package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/phindler/fpdviz/pkg/model"
)

// DOTOptions configures the structure view.
type DOTOptions struct {
	// Detailed includes element IDs next to labels.
	// When false, only the label is shown.
	Detailed bool
}

// ToDOT converts a process model to Graphviz DOT format for a structure
// view of the connectivity, independent of the computed layout. States are
// ellipses, process operators boxes, technical resources dashed boxes.
// The resulting DOT string can be rendered with [RenderDOT].
func ToDOT(m *model.Model, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph fpd {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range m.States {
		s := &m.States[i]
		fill, stroke := stateColors(string(s.Type))
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=%q, color=%q];\n",
			s.ID, dotLabel(s.ID, s.Label, opts.Detailed), fill, stroke)
	}
	for i := range m.ProcessOperators {
		po := &m.ProcessOperators[i]
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=\"rounded,filled\", fillcolor=%q, color=%q];\n",
			po.ID, dotLabel(po.ID, po.Label, opts.Detailed), operatorFill, operatorStroke)
	}
	for i := range m.TechnicalResources {
		tr := &m.TechnicalResources[i]
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=\"rounded,filled,dashed\", fillcolor=%q, color=%q];\n",
			tr.ID, dotLabel(tr.ID, tr.Label, opts.Detailed), resourceFill, resourceStroke)
	}

	buf.WriteString("\n")
	for _, f := range m.Flows {
		attrs := ""
		switch f.Type {
		case model.FlowAlternative:
			attrs = " [style=dashed, color=\"" + altFlowStroke + "\"]"
		case model.FlowParallel:
			attrs = " [penwidth=2.5]"
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", f.SourceRef, f.TargetRef, attrs)
	}
	for _, u := range m.Usages {
		fmt.Fprintf(&buf, "  %q -> %q [dir=both, style=dotted, color=%q];\n",
			u.ProcessOperatorRef, u.TechnicalResourceRef, resourceStroke)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(id, label string, detailed bool) string {
	if label == "" {
		return id
	}
	if detailed && label != id {
		return label + "\n(" + id + ")"
	}
	return label
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the view box starts
// at the origin and the pixel size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
