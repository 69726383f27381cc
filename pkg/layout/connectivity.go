package layout

import "github.com/phindler/fpdviz/pkg/model"

// connectivity indexes the flows and usages of one system. Only flows
// between a known state and a known operator count; flows with dangling or
// same-kind endpoints still mark their endpoints as referenced but build no
// adjacency.
type connectivity struct {
	// downstream maps a state to the operators it feeds, in flow order.
	downstream map[string][]string

	// upstream maps a state to the operators that produce it, in flow order.
	upstream map[string][]string

	// operatorInputs and operatorOutputs are the reverse views.
	operatorInputs  map[string][]string
	operatorOutputs map[string][]string

	// resourceBinding maps a technical resource to the operator using it.
	// The last usage wins when a resource appears in several.
	resourceBinding map[string]string

	// referenced holds every ID that appears as a flow endpoint. IDs absent
	// from this set are disconnected.
	referenced map[string]bool
}

func buildConnectivity(states []model.State, operators []model.ProcessOperator, flows []model.Flow, usages []model.Usage) *connectivity {
	c := &connectivity{
		downstream:      make(map[string][]string, len(states)),
		upstream:        make(map[string][]string, len(states)),
		operatorInputs:  make(map[string][]string, len(operators)),
		operatorOutputs: make(map[string][]string, len(operators)),
		resourceBinding: make(map[string]string, len(usages)),
		referenced:      make(map[string]bool, 2*len(flows)),
	}

	stateIDs := make(map[string]bool, len(states))
	for i := range states {
		stateIDs[states[i].ID] = true
	}
	operatorIDs := make(map[string]bool, len(operators))
	for i := range operators {
		operatorIDs[operators[i].ID] = true
	}

	for i := range flows {
		f := &flows[i]
		c.referenced[f.SourceRef] = true
		c.referenced[f.TargetRef] = true

		switch {
		case stateIDs[f.SourceRef] && operatorIDs[f.TargetRef]:
			c.downstream[f.SourceRef] = append(c.downstream[f.SourceRef], f.TargetRef)
			c.operatorInputs[f.TargetRef] = append(c.operatorInputs[f.TargetRef], f.SourceRef)
		case operatorIDs[f.SourceRef] && stateIDs[f.TargetRef]:
			c.upstream[f.TargetRef] = append(c.upstream[f.TargetRef], f.SourceRef)
			c.operatorOutputs[f.SourceRef] = append(c.operatorOutputs[f.SourceRef], f.TargetRef)
		}
	}

	for i := range usages {
		c.resourceBinding[usages[i].TechnicalResourceRef] = usages[i].ProcessOperatorRef
	}

	return c
}
