package render

import (
	"bytes"
	"fmt"

	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
)

// VDI 3682 color scheme.
const (
	productFill   = "#D4E6F1"
	productStroke = "#2980B9"
	energyFill    = "#FADBD8"
	energyStroke  = "#E74C3C"
	infoFill      = "#D5F5E3"
	infoStroke    = "#27AE60"

	operatorFill   = "#F9E79F"
	operatorStroke = "#F39C12"
	resourceFill   = "#E8DAEF"
	resourceStroke = "#8E44AD"

	flowStroke     = "#2C3E50"
	altFlowStroke  = "#7F8C8D"
	boundaryStroke = "#2C3E50"
	textColor      = "#2C3E50"
)

const (
	svgMargin     = 20.0
	fontSize      = 13.0
	titleFontSize = 18.0
	maxLabelChars = 18
)

// SVGOption configures the SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title string
}

// WithTitle draws a centered title above the diagram.
func WithTitle(title string) SVGOption {
	return func(r *svgRenderer) { r.title = title }
}

// SVG renders a positioned diagram as an SVG document. States are drawn as
// ellipses, process operators as rounded rectangles, technical resources as
// dashed rectangles, all in the VDI 3682 color scheme. System boundaries
// are dashed frames with the system name at the top left corner.
func SVG(d *layout.Diagram, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := d.Bounds()
	offX := svgMargin - minX
	offY := svgMargin - minY
	if r.title != "" {
		offY += titleFontSize + svgMargin
	}
	width := maxX - minX + 2*svgMargin
	height := maxY - minY + offY + svgMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	writeDefs(&buf)

	if r.title != "" {
		fmt.Fprintf(&buf,
			`  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="Helvetica, sans-serif" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			width/2, svgMargin+titleFontSize, titleFontSize, textColor, escapeText(r.title))
	}

	for i := range d.Boundaries {
		writeBoundary(&buf, &d.Boundaries[i], offX, offY)
	}
	for i := range d.Connections {
		writeConnection(&buf, d, &d.Connections[i], offX, offY)
	}
	for i := range d.Elements {
		writeElement(&buf, &d.Elements[i], offX, offY)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// writeDefs emits the arrowhead markers shared by all connections.
func writeDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, m := range []struct{ id, color string }{
		{"arrow", flowStroke},
		{"arrow-alt", altFlowStroke},
	} {
		fmt.Fprintf(buf,
			`    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
			m.id, m.color)
	}
	buf.WriteString("  </defs>\n")
}

func writeBoundary(buf *bytes.Buffer, b *layout.Boundary, offX, offY float64) {
	fmt.Fprintf(buf,
		`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="8,4"/>`+"\n",
		b.X+offX, b.Y+offY, b.Width, b.Height, boundaryStroke)
	if b.Label != "" {
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" font-family="Helvetica, sans-serif" font-size="%.0f" font-style="italic" fill="%s">%s</text>`+"\n",
			b.X+offX+6, b.Y+offY-6, fontSize-1, textColor, escapeText(b.Label))
	}
}

func writeElement(buf *bytes.Buffer, e *layout.Element, offX, offY float64) {
	x := e.X + offX
	y := e.Y + offY
	label := truncateLabel(labelOf(e))

	switch e.Kind {
	case model.KindState:
		fill, stroke := stateColors(string(e.StateType))
		fmt.Fprintf(buf,
			`  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			x+e.Width/2, y+e.Height/2, e.Width/2, e.Height/2, fill, stroke)
		writeLabel(buf, x+e.Width/2, y+e.Height/2, label, false)
	case model.KindProcessOperator:
		fmt.Fprintf(buf,
			`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			x, y, e.Width, e.Height, operatorFill, operatorStroke)
		writeLabel(buf, x+e.Width/2, y+e.Height/2, label, true)
	case model.KindTechnicalResource:
		fmt.Fprintf(buf,
			`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s" stroke-width="2" stroke-dasharray="6,3"/>`+"\n",
			x, y, e.Width, e.Height, resourceFill, resourceStroke)
		writeLabel(buf, x+e.Width/2, y+e.Height/2, label, false)
	}
}

func writeLabel(buf *bytes.Buffer, cx, cy float64, label string, bold bool) {
	weight := ""
	if bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, sans-serif" font-size="%.0f"%s fill="%s">%s</text>`+"\n",
		cx, cy, fontSize, weight, textColor, escapeText(label))
}

func writeConnection(buf *bytes.Buffer, d *layout.Diagram, c *layout.Connection, offX, offY float64) {
	src := d.Element(c.SourceID)
	dst := d.Element(c.TargetID)
	if src == nil || dst == nil {
		return
	}

	x1, y1 := anchor(src, c.SourceSide, dst)
	x2, y2 := anchor(dst, c.TargetSide, src)

	stroke := flowStroke
	width := 1.5
	dash := ""
	marker := ` marker-end="url(#arrow)"`

	if c.Usage {
		stroke = resourceStroke
		dash = ` stroke-dasharray="4,3"`
		marker = ""
	} else {
		switch model.FlowType(c.FlowType) {
		case model.FlowAlternative:
			stroke = altFlowStroke
			dash = ` stroke-dasharray="6,4"`
			marker = ` marker-end="url(#arrow-alt)"`
		case model.FlowParallel:
			width = 3
		}
	}

	fmt.Fprintf(buf,
		`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"%s%s/>`+"\n",
		x1+offX, y1+offY, x2+offX, y2+offY, stroke, width, dash, marker)
}

// anchor returns the attachment point on e. An explicit side pins the
// midpoint of that edge; otherwise the side facing the peer is chosen.
func anchor(e *layout.Element, side layout.Side, peer *layout.Element) (float64, float64) {
	if side == "" {
		dx := (peer.X + peer.Width/2) - (e.X + e.Width/2)
		dy := (peer.Y + peer.Height/2) - (e.Y + e.Height/2)
		if abs(dy) >= abs(dx) {
			if dy > 0 {
				side = layout.SideBottom
			} else {
				side = layout.SideTop
			}
		} else if dx > 0 {
			side = layout.SideRight
		} else {
			side = layout.SideLeft
		}
	}

	switch side {
	case layout.SideTop:
		return e.X + e.Width/2, e.Y
	case layout.SideBottom:
		return e.X + e.Width/2, e.Y + e.Height
	case layout.SideLeft:
		return e.X, e.Y + e.Height/2
	default:
		return e.X + e.Width, e.Y + e.Height/2
	}
}

func stateColors(t string) (fill, stroke string) {
	switch model.StateType(t) {
	case model.StateEnergy:
		return energyFill, energyStroke
	case model.StateInformation:
		return infoFill, infoStroke
	default:
		return productFill, productStroke
	}
}

func labelOf(e *layout.Element) string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= maxLabelChars {
		return label
	}
	return string(runes[:maxLabelChars-1]) + "…"
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
