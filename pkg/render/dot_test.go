package render

import (
	"strings"
	"testing"

	"github.com/phindler/fpdviz/pkg/fpb"
)

func TestToDOT_Structure(t *testing.T) {
	m := fpb.Parse(testSource)
	if len(m.Errors) != 0 {
		t.Fatalf("fixture does not parse: %v", m.Errors)
	}

	dot := ToDOT(m, DOTOptions{})

	if !strings.HasPrefix(dot, "digraph fpd {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("malformed DOT document:\n%s", dot)
	}
	if !strings.Contains(dot, `"raw" [label="Raw Part", shape=ellipse`) {
		t.Errorf("missing state node:\n%s", dot)
	}
	if !strings.Contains(dot, `"mill" [label="Milling", shape=box`) {
		t.Errorf("missing operator node:\n%s", dot)
	}
	if !strings.Contains(dot, `"raw" -> "mill";`) {
		t.Errorf("missing flow edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"mill" -> "machine" [dir=both, style=dotted`) {
		t.Errorf("missing usage edge:\n%s", dot)
	}
}

func TestToDOT_FlowStyles(t *testing.T) {
	m := fpb.Parse(`@startfpb
product a
product b
process_operator p
a -.-> p
p ==> b
@endfpb`)

	dot := ToDOT(m, DOTOptions{})

	if !strings.Contains(dot, `"a" -> "p" [style=dashed`) {
		t.Errorf("alternative flow must be dashed:\n%s", dot)
	}
	if !strings.Contains(dot, `"p" -> "b" [penwidth=2.5];`) {
		t.Errorf("parallel flow must be thicker:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	m := fpb.Parse("@startfpb\nproduct raw \"Raw Part\"\n@endfpb")

	dot := ToDOT(m, DOTOptions{Detailed: true})

	if !strings.Contains(dot, "Raw Part\\n(raw)") {
		t.Errorf("detailed label must include the ID:\n%s", dot)
	}
}

func TestToDOT_LabelFallsBackToID(t *testing.T) {
	m := fpb.Parse("@startfpb\nproduct s1\n@endfpb")

	if dot := ToDOT(m, DOTOptions{}); !strings.Contains(dot, `"s1" [label="s1"`) {
		t.Errorf("missing ID fallback:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("view box not normalized:\n%s", out)
	}
	if strings.Contains(out, "100pt") {
		t.Error("point-based size must be replaced")
	}
}

func TestNormalizeViewBox_NoMatch(t *testing.T) {
	in := []byte("<svg>no viewbox</svg>")
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("unmatched input must pass through, got %q", got)
	}
}
