package fpb

import (
	"fmt"

	"github.com/phindler/fpdviz/pkg/model"
)

// ValidateConnections checks every flow and usage against the VDI 3682
// connection rules and returns the violations as messages.
//
// Rules: flows connect a state and a process operator in either direction;
// usages bind a process operator to a technical resource; the same pair may
// be connected only once. Dangling references are reported here, not by the
// layout engine.
//
// Validation never blocks layout. Callers typically append the result to
// the model's Errors via [Validate].
func ValidateConnections(m *model.Model) []string {
	var errs []string

	type pair struct{ a, b string }
	seenFlows := make(map[pair]bool, len(m.Flows))

	for i := range m.Flows {
		f := &m.Flows[i]
		sourceKind := m.KindOf(f.SourceRef)
		targetKind := m.KindOf(f.TargetRef)

		if sourceKind == model.KindUnknown {
			errs = append(errs, fmt.Sprintf("Flow '%s': source '%s' not found", f.ID, f.SourceRef))
			continue
		}
		if targetKind == model.KindUnknown {
			errs = append(errs, fmt.Sprintf("Flow '%s': target '%s' not found", f.ID, f.TargetRef))
			continue
		}

		p := pair{f.SourceRef, f.TargetRef}
		if seenFlows[p] {
			errs = append(errs, fmt.Sprintf("Flow '%s': duplicate connection from '%s' to '%s'",
				f.ID, f.SourceRef, f.TargetRef))
		} else {
			seenFlows[p] = true
		}

		validPair := (sourceKind == model.KindState && targetKind == model.KindProcessOperator) ||
			(sourceKind == model.KindProcessOperator && targetKind == model.KindState)
		if !validPair {
			errs = append(errs, fmt.Sprintf(
				"Flow '%s': invalid connection from %s '%s' to %s '%s'. Flows must connect State <-> ProcessOperator",
				f.ID, kindName(sourceKind), f.SourceRef, kindName(targetKind), f.TargetRef))
		}
	}

	seenUsages := make(map[pair]bool, len(m.Usages))

	for i := range m.Usages {
		u := &m.Usages[i]
		poKind := m.KindOf(u.ProcessOperatorRef)
		trKind := m.KindOf(u.TechnicalResourceRef)

		if poKind == model.KindUnknown {
			errs = append(errs, fmt.Sprintf("Usage '%s': process operator '%s' not found",
				u.ID, u.ProcessOperatorRef))
			continue
		}
		if trKind == model.KindUnknown {
			errs = append(errs, fmt.Sprintf("Usage '%s': technical resource '%s' not found",
				u.ID, u.TechnicalResourceRef))
			continue
		}

		if poKind != model.KindProcessOperator {
			errs = append(errs, fmt.Sprintf("Usage '%s': '%s' is not a ProcessOperator",
				u.ID, u.ProcessOperatorRef))
		}
		if trKind != model.KindTechnicalResource {
			errs = append(errs, fmt.Sprintf("Usage '%s': '%s' is not a TechnicalResource",
				u.ID, u.TechnicalResourceRef))
		}

		p := pair{u.ProcessOperatorRef, u.TechnicalResourceRef}
		if seenUsages[p] {
			errs = append(errs, fmt.Sprintf("Usage '%s': duplicate usage between '%s' and '%s'",
				u.ID, u.ProcessOperatorRef, u.TechnicalResourceRef))
		} else {
			seenUsages[p] = true
		}
	}

	return errs
}

// kindName spells an element kind the way the notation declares it, so
// messages quote the keyword the user actually wrote.
func kindName(k model.ElementKind) string {
	switch k {
	case model.KindProcessOperator:
		return "process_operator"
	case model.KindTechnicalResource:
		return "technical_resource"
	default:
		return k.String()
	}
}

// Validate appends the connection-rule violations to the model's error list
// and reports whether the model was clean.
func Validate(m *model.Model) bool {
	errs := ValidateConnections(m)
	m.Errors = append(m.Errors, errs...)
	return len(errs) == 0
}
