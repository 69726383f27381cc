package export

import (
	"encoding/xml"
	"strings"

	apperrors "github.com/phindler/fpdviz/pkg/errors"
	"github.com/phindler/fpdviz/pkg/model"
)

// Two XML dialects circulate: the HSU FPD_Schema, where the flowContainer
// only registers flow IDs and endpoints are reconstructed from per-element
// entry/exit bindings, and a legacy dialect carrying sourceRef/targetRef
// children directly on the container entries. ParseXML detects the dialect
// from the container shape.

type xmlImportEntry struct {
	ID        string `xml:"id,attr"`
	FlowType  string `xml:"flowType,attr"`
	SourceRef string `xml:"sourceRef"`
	TargetRef string `xml:"targetRef"`
}

type xmlImportContainer struct {
	Flows  []xmlImportEntry `xml:"flow"`
	Usages []xmlImportEntry `xml:"usage"`
}

type xmlImportSystemLimit struct {
	ID             string            `xml:"id,attr"`
	Name           string            `xml:"name,attr"`
	Identification xmlIdentification `xml:"identification"`
}

type xmlImportProcess struct {
	SystemLimit        xmlImportSystemLimit  `xml:"systemLimit"`
	States             xmlStates             `xml:"states"`
	ProcessOperators   xmlProcessOperators   `xml:"processOperators"`
	TechnicalResources xmlTechnicalResources `xml:"technicalResources"`
	FlowContainer      xmlImportContainer    `xml:"flowContainer"`
}

type xmlImportProject struct {
	Process xmlImportProcess `xml:"process"`
}

// ParseXML imports a VDI 3682 XML document into a process model. Both the
// HSU FPD_Schema dialect and the legacy dialect with endpoint references on
// the flowContainer are accepted.
func ParseXML(data []byte) (*model.Model, error) {
	var project xmlImportProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "invalid XML")
	}

	m := &model.Model{}
	proc := &project.Process

	importSystemLimit(m, &proc.SystemLimit)

	for i := range proc.States.States {
		s := &proc.States.States[i]
		id, label, short := importIdentification(&s.Identification)
		if id == "" {
			continue
		}
		m.States = append(m.States, model.State{
			ID:    id,
			Type:  stateTypeOf(s.StateType),
			Label: label,
			Identification: model.Identification{
				UniqueIdent: id, LongName: label, ShortName: short,
			},
		})
	}
	for i := range proc.ProcessOperators.Operators {
		po := &proc.ProcessOperators.Operators[i]
		id, label, short := importIdentification(&po.Identification)
		if id == "" {
			continue
		}
		m.ProcessOperators = append(m.ProcessOperators, model.ProcessOperator{
			ID:    id,
			Label: label,
			Identification: model.Identification{
				UniqueIdent: id, LongName: label, ShortName: short,
			},
		})
	}
	for i := range proc.TechnicalResources.Resources {
		tr := &proc.TechnicalResources.Resources[i]
		id, label, short := importIdentification(&tr.Identification)
		if id == "" {
			continue
		}
		m.TechnicalResources = append(m.TechnicalResources, model.TechnicalResource{
			ID:    id,
			Label: label,
			Identification: model.Identification{
				UniqueIdent: id, LongName: label, ShortName: short,
			},
		})
	}

	if isLegacyContainer(&proc.FlowContainer) {
		importLegacyConnections(m, &proc.FlowContainer)
	} else {
		importBoundConnections(m, proc)
	}

	return m, nil
}

// DetectFormat determines whether uploaded content is FPB text or VDI 3682
// XML, first from the filename extension and then from the content itself.
func DetectFormat(filename, content string) (string, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xml"):
		return "xml", nil
	case strings.HasSuffix(lower, ".fpb"), strings.HasSuffix(lower, ".txt"):
		return "text", nil
	}

	stripped := strings.TrimSpace(content)
	if strings.HasPrefix(stripped, "<?xml") || strings.HasPrefix(stripped, "<") {
		return "xml", nil
	}
	if strings.Contains(stripped, "@startfpb") {
		return "text", nil
	}

	return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
		"unable to detect file format, use .fpb, .txt, or .xml")
}

func importSystemLimit(m *model.Model, sl *xmlImportSystemLimit) {
	name := sl.Name
	if name == "" {
		name = sl.Identification.LongName
	}
	if sl.ID == "" && name == "" {
		return
	}
	id := sl.ID
	if id == "" {
		id = "sl_1"
	}
	m.Title = name
	m.SystemLimits = append(m.SystemLimits, model.SystemLimit{
		ID:    id,
		Label: name,
		Identification: model.Identification{
			UniqueIdent: id, LongName: name,
		},
	})
}

func importIdentification(ident *xmlIdentification) (id, label, short string) {
	id = ident.UniqueIdent
	label = ident.LongName
	if label == "" {
		label = id
	}
	return id, label, ident.ShortName
}

// isLegacyContainer reports whether the container carries its own endpoint
// references, which only the legacy dialect does.
func isLegacyContainer(fc *xmlImportContainer) bool {
	for i := range fc.Flows {
		if fc.Flows[i].SourceRef != "" {
			return true
		}
	}
	return len(fc.Usages) > 0
}

func importLegacyConnections(m *model.Model, fc *xmlImportContainer) {
	for _, f := range fc.Flows {
		if f.SourceRef == "" || f.TargetRef == "" {
			continue
		}
		m.Flows = append(m.Flows, model.Flow{
			ID:        f.ID,
			SourceRef: f.SourceRef,
			TargetRef: f.TargetRef,
			Type:      flowTypeOf(f.FlowType),
		})
	}
	for _, u := range fc.Usages {
		if u.SourceRef == "" || u.TargetRef == "" {
			continue
		}
		m.Usages = append(m.Usages, model.Usage{
			ID:                   u.ID,
			ProcessOperatorRef:   u.SourceRef,
			TechnicalResourceRef: u.TargetRef,
		})
	}
}

// importBoundConnections reconstructs flows from the HSU dialect: the
// container registers IDs and types, the elements carry exit (source) and
// entry (target) bindings.
func importBoundConnections(m *model.Model, proc *xmlImportProcess) {
	sources := make(map[string]string)
	targets := make(map[string]string)
	collect := func(flows xmlFlows) {
		for _, b := range flows.Flows {
			if b.Exit != nil && b.Exit.ID != "" {
				sources[b.ID] = b.Exit.ID
			}
			if b.Entry != nil && b.Entry.ID != "" {
				targets[b.ID] = b.Entry.ID
			}
		}
	}
	for i := range proc.States.States {
		collect(proc.States.States[i].Flows)
	}
	for i := range proc.ProcessOperators.Operators {
		collect(proc.ProcessOperators.Operators[i].Flows)
	}

	// Usage bindings live on operators and resources.
	usageEnds := make(map[string][]string)
	for i := range proc.ProcessOperators.Operators {
		po := &proc.ProcessOperators.Operators[i]
		for _, u := range po.Usages.Usages {
			usageEnds[u.ID] = append(usageEnds[u.ID], po.Identification.UniqueIdent)
		}
	}
	for i := range proc.TechnicalResources.Resources {
		tr := &proc.TechnicalResources.Resources[i]
		for _, u := range tr.Usages.Usages {
			usageEnds[u.ID] = append(usageEnds[u.ID], tr.Identification.UniqueIdent)
		}
	}

	operatorIDs := make(map[string]bool, len(m.ProcessOperators))
	for i := range m.ProcessOperators {
		operatorIDs[m.ProcessOperators[i].ID] = true
	}

	for _, entry := range proc.FlowContainer.Flows {
		if entry.FlowType == "usage" {
			poRef, trRef := classifyUsageEnds(usageEnds[entry.ID], operatorIDs)
			if poRef != "" && trRef != "" {
				m.Usages = append(m.Usages, model.Usage{
					ID:                   entry.ID,
					ProcessOperatorRef:   poRef,
					TechnicalResourceRef: trRef,
				})
			}
			continue
		}
		src, dst := sources[entry.ID], targets[entry.ID]
		if src == "" || dst == "" {
			continue
		}
		m.Flows = append(m.Flows, model.Flow{
			ID:        entry.ID,
			SourceRef: src,
			TargetRef: dst,
			Type:      flowTypeOf(entry.FlowType),
		})
	}
}

func classifyUsageEnds(ends []string, operatorIDs map[string]bool) (poRef, trRef string) {
	for _, id := range ends {
		if operatorIDs[id] {
			poRef = id
		} else {
			trRef = id
		}
	}
	return poRef, trRef
}

func stateTypeOf(name string) model.StateType {
	switch name {
	case "energy":
		return model.StateEnergy
	case "information":
		return model.StateInformation
	default:
		return model.StateProduct
	}
}

func flowTypeOf(name string) model.FlowType {
	switch name {
	case "alternativeFlow":
		return model.FlowAlternative
	case "parallelFlow":
		return model.FlowParallel
	default:
		return model.FlowRegular
	}
}
