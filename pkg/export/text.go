package export

import (
	"fmt"
	"strings"

	"github.com/phindler/fpdviz/pkg/model"
)

var flowOperators = map[model.FlowType]string{
	model.FlowRegular:     "-->",
	model.FlowAlternative: "-.->",
	model.FlowParallel:    "==>",
}

var stateTypeKeywords = []struct {
	typ     model.StateType
	keyword string
}{
	{model.StateProduct, "product"},
	{model.StateEnergy, "energy"},
	{model.StateInformation, "information"},
}

// escapeLabel backslash-escapes quotes so the label survives re-parsing.
func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	return strings.ReplaceAll(label, `"`, `\"`)
}

// Text converts a model back to FPB source.
//
// Models with system limits export one system block per limit; flat models
// export a flat statement list. The output re-parses to an equivalent
// model, so Text and the parser form a round trip.
func Text(m *model.Model) string {
	var b strings.Builder
	b.WriteString("@startfpb\n")

	if m.Title != "" {
		fmt.Fprintf(&b, "title \"%s\"\n", escapeLabel(m.Title))
	}
	b.WriteString("\n")

	if len(m.SystemLimits) > 0 {
		for i := range m.SystemLimits {
			sl := &m.SystemLimits[i]
			fmt.Fprintf(&b, "system \"%s\" {\n", escapeLabel(sl.Label))
			writeSystemElements(&b, m, sl.ID, "  ")
			b.WriteString("}\n\n")
		}
	} else {
		writeSystemElements(&b, m, "", "")
		b.WriteString("\n")
	}

	b.WriteString("@endfpb\n")
	return b.String()
}

func writeSystemElements(b *strings.Builder, m *model.Model, systemID, indent string) {
	wrote := false

	for _, st := range stateTypeKeywords {
		for i := range m.States {
			s := &m.States[i]
			if s.Type != st.typ || s.SystemID != systemID {
				continue
			}
			label := s.Label
			if label == "" {
				label = s.ID
			}
			fmt.Fprintf(b, "%s%s %s \"%s\"", indent, st.keyword, s.ID, escapeLabel(label))
			if s.Placement != model.PlacementNone {
				fmt.Fprintf(b, " @%s", s.Placement)
			}
			b.WriteString("\n")
			wrote = true
		}
	}

	for i := range m.ProcessOperators {
		po := &m.ProcessOperators[i]
		if po.SystemID != systemID {
			continue
		}
		label := po.Label
		if label == "" {
			label = po.ID
		}
		fmt.Fprintf(b, "%sprocess_operator %s \"%s\"\n", indent, po.ID, escapeLabel(label))
		wrote = true
	}

	for i := range m.TechnicalResources {
		tr := &m.TechnicalResources[i]
		if tr.SystemID != systemID {
			continue
		}
		label := tr.Label
		if label == "" {
			label = tr.ID
		}
		fmt.Fprintf(b, "%stechnical_resource %s \"%s\"\n", indent, tr.ID, escapeLabel(label))
		wrote = true
	}

	if wrote {
		b.WriteString("\n")
	}

	for i := range m.Flows {
		f := &m.Flows[i]
		if f.SystemID != systemID {
			continue
		}
		op, ok := flowOperators[f.Type]
		if !ok {
			op = flowOperators[model.FlowRegular]
		}
		fmt.Fprintf(b, "%s%s %s %s\n", indent, f.SourceRef, op, f.TargetRef)
	}

	for i := range m.Usages {
		u := &m.Usages[i]
		if u.SystemID != systemID {
			continue
		}
		fmt.Fprintf(b, "%s%s <..> %s\n", indent, u.ProcessOperatorRef, u.TechnicalResourceRef)
	}
}
