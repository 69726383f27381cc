// Package model defines the VDI 3682 process description data model.
//
// A Model is the canonical in-memory representation of a formalized process
// description: states (product/energy/information), process operators,
// technical resources, the flows and usages connecting them, and optional
// system limits grouping elements into independently laid-out systems.
//
// The model is produced by the fpb parser or the JSON import path and is
// consumed by the layout engine and the exporters. It is a plain value with
// no behavior beyond lookups; all invariants (unique IDs, valid references)
// are established by the producer and checked by the validator.
package model

import "encoding/json"

// StateType distinguishes the three kinds of State elements in VDI 3682.
type StateType string

// State types.
const (
	StateProduct     StateType = "product"
	StateEnergy      StateType = "energy"
	StateInformation StateType = "information"
)

// Placement is an explicit hint for where a state sits relative to the
// system limit. The empty value means "no hint" and leaves the decision
// to the layout classifier.
type Placement string

// Placement hints.
const (
	PlacementNone           Placement = ""
	PlacementBoundary       Placement = "boundary"
	PlacementBoundaryTop    Placement = "boundary-top"
	PlacementBoundaryBottom Placement = "boundary-bottom"
	PlacementBoundaryLeft   Placement = "boundary-left"
	PlacementBoundaryRight  Placement = "boundary-right"
	PlacementInternal       Placement = "internal"
)

// FlowType distinguishes the three kinds of Flow connections.
type FlowType string

// Flow types.
const (
	FlowRegular     FlowType = "flow"
	FlowAlternative FlowType = "alternativeFlow"
	FlowParallel    FlowType = "parallelFlow"
)

// Identification carries the VDI 3682 element identification block:
// a unique identifier plus optional long and short names.
type Identification struct {
	UniqueIdent string `json:"unique_ident" bson:"unique_ident"`
	LongName    string `json:"long_name,omitempty" bson:"long_name,omitempty"`
	ShortName   string `json:"short_name,omitempty" bson:"short_name,omitempty"`
}

// State is a product, energy, or information element.
type State struct {
	ID             string         `json:"id" bson:"id"`
	Type           StateType      `json:"state_type" bson:"state_type"`
	Identification Identification `json:"identification" bson:"identification"`
	Label          string         `json:"label" bson:"label"`
	Placement      Placement      `json:"placement,omitempty" bson:"placement,omitempty"`
	Line           int            `json:"line_number,omitempty" bson:"line_number,omitempty"`
	SystemID       string         `json:"system_id,omitempty" bson:"system_id,omitempty"`
}

// ProcessOperator is a processing step element.
type ProcessOperator struct {
	ID             string         `json:"id" bson:"id"`
	Identification Identification `json:"identification" bson:"identification"`
	Label          string         `json:"label" bson:"label"`
	Line           int            `json:"line_number,omitempty" bson:"line_number,omitempty"`
	SystemID       string         `json:"system_id,omitempty" bson:"system_id,omitempty"`
}

// TechnicalResource is an element representing equipment employed by a
// process operator via a Usage.
type TechnicalResource struct {
	ID             string         `json:"id" bson:"id"`
	Identification Identification `json:"identification" bson:"identification"`
	Label          string         `json:"label" bson:"label"`
	Line           int            `json:"line_number,omitempty" bson:"line_number,omitempty"`
	SystemID       string         `json:"system_id,omitempty" bson:"system_id,omitempty"`
}

// Flow is a directed connection between a state and a process operator
// (in either direction).
type Flow struct {
	ID        string   `json:"id" bson:"id"`
	SourceRef string   `json:"source_ref" bson:"source_ref"`
	TargetRef string   `json:"target_ref" bson:"target_ref"`
	Type      FlowType `json:"flow_type" bson:"flow_type"`
	Line      int      `json:"line_number,omitempty" bson:"line_number,omitempty"`
	SystemID  string   `json:"system_id,omitempty" bson:"system_id,omitempty"`
}

// Usage binds a process operator to a technical resource it employs.
type Usage struct {
	ID                   string `json:"id" bson:"id"`
	ProcessOperatorRef   string `json:"process_operator_ref" bson:"process_operator_ref"`
	TechnicalResourceRef string `json:"technical_resource_ref" bson:"technical_resource_ref"`
	Line                 int    `json:"line_number,omitempty" bson:"line_number,omitempty"`
	SystemID             string `json:"system_id,omitempty" bson:"system_id,omitempty"`
}

// SystemLimit declares a named system grouping. Elements reference it via
// their SystemID field.
type SystemLimit struct {
	ID             string         `json:"id" bson:"id"`
	Identification Identification `json:"identification" bson:"identification"`
	Label          string         `json:"label" bson:"label"`
	Line           int            `json:"line_number,omitempty" bson:"line_number,omitempty"`
}

// Model is a complete process description. Element list order is
// significant: the layout engine uses it for deterministic tie-breaking,
// so producers must not re-sort lists.
type Model struct {
	Title              string              `json:"title" bson:"title"`
	SystemLimits       []SystemLimit       `json:"system_limits,omitempty" bson:"system_limits,omitempty"`
	States             []State             `json:"states,omitempty" bson:"states,omitempty"`
	ProcessOperators   []ProcessOperator   `json:"process_operators,omitempty" bson:"process_operators,omitempty"`
	TechnicalResources []TechnicalResource `json:"technical_resources,omitempty" bson:"technical_resources,omitempty"`
	Flows              []Flow              `json:"flows,omitempty" bson:"flows,omitempty"`
	Usages             []Usage             `json:"usages,omitempty" bson:"usages,omitempty"`

	// Errors and Warnings are accumulated by the parser and validator.
	// They never block layout; the engine lays out whatever is present.
	Errors   []string `json:"errors,omitempty" bson:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// ElementKind identifies which element list an ID belongs to.
type ElementKind int

// Element kinds.
const (
	KindUnknown ElementKind = iota
	KindState
	KindProcessOperator
	KindTechnicalResource
)

// String returns the serialized kind name.
func (k ElementKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindProcessOperator:
		return "processOperator"
	case KindTechnicalResource:
		return "technicalResource"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its serialized name.
func (k ElementKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a serialized kind name.
func (k *ElementKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "state":
		*k = KindState
	case "processOperator":
		*k = KindProcessOperator
	case "technicalResource":
		*k = KindTechnicalResource
	default:
		*k = KindUnknown
	}
	return nil
}

// KindOf reports which kind of element the given ID refers to, or
// KindUnknown if the model contains no element with that ID.
func (m *Model) KindOf(id string) ElementKind {
	for i := range m.States {
		if m.States[i].ID == id {
			return KindState
		}
	}
	for i := range m.ProcessOperators {
		if m.ProcessOperators[i].ID == id {
			return KindProcessOperator
		}
	}
	for i := range m.TechnicalResources {
		if m.TechnicalResources[i].ID == id {
			return KindTechnicalResource
		}
	}
	return KindUnknown
}

// State returns the state with the given ID, or nil.
func (m *Model) State(id string) *State {
	for i := range m.States {
		if m.States[i].ID == id {
			return &m.States[i]
		}
	}
	return nil
}

// ElementCount returns the total number of positionable elements
// (states, process operators, and technical resources).
func (m *Model) ElementCount() int {
	return len(m.States) + len(m.ProcessOperators) + len(m.TechnicalResources)
}

// IsEmpty reports whether the model contains no positionable elements.
func (m *Model) IsEmpty() bool { return m.ElementCount() == 0 }
