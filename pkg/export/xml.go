package export

import (
	"encoding/xml"
	"fmt"

	"github.com/phindler/fpdviz/pkg/model"
)

// VDI3682Namespace is the XML namespace of the FPD schema.
const VDI3682Namespace = "http://www.vdivde.de/3682"

// The HSU FPD_Schema splits connection data in two: the flowContainer
// registers every flow ID with its type, while each element lists the
// entry/exit bindings it participates in. Usages register in the container
// with flowType "usage".

type xmlReferences struct{}

type xmlIdentification struct {
	UniqueIdent string        `xml:"uniqueIdent,attr"`
	LongName    string        `xml:"longName,attr,omitempty"`
	ShortName   string        `xml:"shortName,attr,omitempty"`
	References  xmlReferences `xml:"references"`
}

type xmlEndpoint struct {
	ID string `xml:"id,attr"`
}

type xmlFlowBinding struct {
	ID    string       `xml:"id,attr"`
	Exit  *xmlEndpoint `xml:"exit,omitempty"`
	Entry *xmlEndpoint `xml:"entry,omitempty"`
}

type xmlFlows struct {
	Flows []xmlFlowBinding `xml:"flow"`
}

type xmlUsageRef struct {
	ID string `xml:"id,attr"`
}

type xmlUsages struct {
	Usages []xmlUsageRef `xml:"usage"`
}

type xmlEmpty struct{}

type xmlState struct {
	StateType       string            `xml:"stateType,attr"`
	Identification  xmlIdentification `xml:"identification"`
	Characteristics xmlEmpty          `xml:"characteristics"`
	Assignments     xmlEmpty          `xml:"assignments"`
	Flows           xmlFlows          `xml:"flows"`
}

type xmlProcessOperator struct {
	Identification  xmlIdentification `xml:"identification"`
	Characteristics xmlEmpty          `xml:"characteristics"`
	Assignments     xmlEmpty          `xml:"assignments"`
	Flows           xmlFlows          `xml:"flows"`
	Usages          xmlUsages         `xml:"usages"`
}

type xmlTechnicalResource struct {
	Identification  xmlIdentification `xml:"identification"`
	Characteristics xmlEmpty          `xml:"characteristics"`
	Assignments     xmlEmpty          `xml:"assignments"`
	Usages          xmlUsages         `xml:"usages"`
}

type xmlSystemLimit struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlRegisteredFlow struct {
	ID       string `xml:"id,attr"`
	FlowType string `xml:"flowType,attr"`
}

type xmlFlowContainer struct {
	Flows []xmlRegisteredFlow `xml:"flow"`
}

type xmlStates struct {
	States []xmlState `xml:"state"`
}

type xmlProcessOperators struct {
	Operators []xmlProcessOperator `xml:"processOperator"`
}

type xmlTechnicalResources struct {
	Resources []xmlTechnicalResource `xml:"technicalResource"`
}

type xmlProcess struct {
	ID                 string                `xml:"id,attr"`
	SystemLimit        xmlSystemLimit        `xml:"systemLimit"`
	States             xmlStates             `xml:"states"`
	ProcessOperators   xmlProcessOperators   `xml:"processOperators"`
	TechnicalResources xmlTechnicalResources `xml:"technicalResources"`
	FlowContainer      xmlFlowContainer      `xml:"flowContainer"`
}

type xmlProjectInformation struct {
	EntryPoint string `xml:"entryPoint,attr"`
}

type xmlProject struct {
	XMLName            xml.Name              `xml:"project"`
	Namespace          string                `xml:"xmlns,attr"`
	ProjectInformation xmlProjectInformation `xml:"projectInformation"`
	Process            xmlProcess            `xml:"process"`
}

// XML converts a model to VDI 3682 XML following the HSU FPD_Schema.
func XML(m *model.Model) ([]byte, error) {
	sourceFlows := make(map[string][]model.Flow)
	targetFlows := make(map[string][]model.Flow)
	for _, f := range m.Flows {
		sourceFlows[f.SourceRef] = append(sourceFlows[f.SourceRef], f)
		targetFlows[f.TargetRef] = append(targetFlows[f.TargetRef], f)
	}
	operatorUsages := make(map[string][]model.Usage)
	resourceUsages := make(map[string][]model.Usage)
	for _, u := range m.Usages {
		operatorUsages[u.ProcessOperatorRef] = append(operatorUsages[u.ProcessOperatorRef], u)
		resourceUsages[u.TechnicalResourceRef] = append(resourceUsages[u.TechnicalResourceRef], u)
	}

	project := xmlProject{
		Namespace:          VDI3682Namespace,
		ProjectInformation: xmlProjectInformation{EntryPoint: "process_1"},
		Process:            xmlProcess{ID: "process_1"},
	}

	project.Process.SystemLimit = systemLimitFor(m)

	for i := range m.States {
		s := &m.States[i]
		project.Process.States.States = append(project.Process.States.States, xmlState{
			StateType:      stateTypeName(s.Type),
			Identification: identificationFor(s.Identification, s.Label),
			Flows:          bindingsFor(s.ID, sourceFlows[s.ID], targetFlows[s.ID]),
		})
	}

	for i := range m.ProcessOperators {
		po := &m.ProcessOperators[i]
		project.Process.ProcessOperators.Operators = append(project.Process.ProcessOperators.Operators,
			xmlProcessOperator{
				Identification: identificationFor(po.Identification, po.Label),
				Flows:          bindingsFor(po.ID, sourceFlows[po.ID], targetFlows[po.ID]),
				Usages:         usageRefsFor(operatorUsages[po.ID]),
			})
	}

	for i := range m.TechnicalResources {
		tr := &m.TechnicalResources[i]
		project.Process.TechnicalResources.Resources = append(project.Process.TechnicalResources.Resources,
			xmlTechnicalResource{
				Identification: identificationFor(tr.Identification, tr.Label),
				Usages:         usageRefsFor(resourceUsages[tr.ID]),
			})
	}

	for _, f := range m.Flows {
		project.Process.FlowContainer.Flows = append(project.Process.FlowContainer.Flows,
			xmlRegisteredFlow{ID: f.ID, FlowType: flowTypeName(f.Type)})
	}
	for _, u := range m.Usages {
		project.Process.FlowContainer.Flows = append(project.Process.FlowContainer.Flows,
			xmlRegisteredFlow{ID: u.ID, FlowType: "usage"})
	}

	body, err := xml.MarshalIndent(project, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal vdi3682 xml: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func systemLimitFor(m *model.Model) xmlSystemLimit {
	name := m.Title
	if name == "" {
		name = "System Boundary"
	}
	if len(m.SystemLimits) > 0 {
		sl := &m.SystemLimits[0]
		if sl.Label != "" {
			name = sl.Label
		}
		return xmlSystemLimit{ID: sl.Identification.UniqueIdent, Name: name}
	}
	return xmlSystemLimit{ID: "sl_1", Name: name}
}

func identificationFor(ident model.Identification, label string) xmlIdentification {
	return xmlIdentification{
		UniqueIdent: ident.UniqueIdent,
		LongName:    label,
		ShortName:   ident.ShortName,
	}
}

func bindingsFor(elementID string, asSource, asTarget []model.Flow) xmlFlows {
	var flows xmlFlows
	for _, f := range asSource {
		flows.Flows = append(flows.Flows, xmlFlowBinding{
			ID:   f.ID,
			Exit: &xmlEndpoint{ID: elementID},
		})
	}
	for _, f := range asTarget {
		flows.Flows = append(flows.Flows, xmlFlowBinding{
			ID:    f.ID,
			Entry: &xmlEndpoint{ID: elementID},
		})
	}
	return flows
}

func usageRefsFor(usages []model.Usage) xmlUsages {
	var refs xmlUsages
	for _, u := range usages {
		refs.Usages = append(refs.Usages, xmlUsageRef{ID: u.ID})
	}
	return refs
}

func stateTypeName(t model.StateType) string {
	switch t {
	case model.StateEnergy:
		return "energy"
	case model.StateInformation:
		return "information"
	default:
		return "product"
	}
}

func flowTypeName(t model.FlowType) string {
	switch t {
	case model.FlowAlternative:
		return "alternativeFlow"
	case model.FlowParallel:
		return "parallelFlow"
	default:
		return "flow"
	}
}
