package layout

import "github.com/phindler/fpdviz/pkg/model"

// defaultSystemLabel names the implicit group of elements declared outside
// any system block.
const defaultSystemLabel = "System"

// Compute turns a model into a positioned diagram.
//
// Elements are grouped by their system ID, each group is laid out
// independently, and the groups are arranged side by side separated by three
// horizontal gaps. Systems appear in declaration order: declared system
// limits first, then systems discovered on elements, then the implicit
// untagged group. Empty groups produce nothing.
//
// Compute never mutates the model and never fails; degenerate input yields
// a well-formed (possibly empty) diagram.
func Compute(m *model.Model, cfg Config) *Diagram {
	systemIDs, labels := collectSystems(m)

	d := &Diagram{
		Elements:    []Element{},
		Connections: []Connection{},
		Boundaries:  []Boundary{},
	}

	systemGap := cfg.HGap * 3
	offsetX := 0.0

	for _, sid := range systemIDs {
		states := filterStates(m.States, sid)
		operators := filterOperators(m.ProcessOperators, sid)
		resources := filterResources(m.TechnicalResources, sid)
		if len(states) == 0 && len(operators) == 0 && len(resources) == 0 {
			continue
		}

		elements, connections, boundary := layoutSystem(
			states, operators, resources,
			filterFlows(m.Flows, sid), filterUsages(m.Usages, sid),
			cfg, offsetX, 0,
		)

		if boundary != nil {
			boundary.ID = sid
			boundary.Label = labels[sid]
			d.Boundaries = append(d.Boundaries, *boundary)
			offsetX = boundary.X + boundary.Width + systemGap
		} else if len(elements) > 0 {
			maxX := elements[0].X + elements[0].Width
			for i := range elements[1:] {
				e := &elements[i+1]
				maxX = max(maxX, e.X+e.Width)
			}
			offsetX = maxX + systemGap
		}

		d.Elements = append(d.Elements, elements...)
		d.Connections = append(d.Connections, connections...)
	}

	return d
}

// collectSystems returns the system IDs in declaration order plus their
// display labels. The empty ID stands for the untagged group.
func collectSystems(m *model.Model) ([]string, map[string]string) {
	var ids []string
	labels := make(map[string]string)
	seen := make(map[string]bool)

	for i := range m.SystemLimits {
		sl := &m.SystemLimits[i]
		if seen[sl.ID] {
			continue
		}
		ids = append(ids, sl.ID)
		labels[sl.ID] = sl.Label
		seen[sl.ID] = true
	}

	add := func(sid string) {
		if sid == "" || seen[sid] {
			return
		}
		ids = append(ids, sid)
		labels[sid] = sid
		seen[sid] = true
	}
	untagged := false
	for i := range m.States {
		add(m.States[i].SystemID)
		untagged = untagged || m.States[i].SystemID == ""
	}
	for i := range m.ProcessOperators {
		add(m.ProcessOperators[i].SystemID)
		untagged = untagged || m.ProcessOperators[i].SystemID == ""
	}
	for i := range m.TechnicalResources {
		add(m.TechnicalResources[i].SystemID)
		untagged = untagged || m.TechnicalResources[i].SystemID == ""
	}

	if untagged && !seen[""] {
		ids = append(ids, "")
		labels[""] = defaultSystemLabel
		seen[""] = true
	}
	if len(ids) == 0 {
		ids = []string{""}
		labels[""] = defaultSystemLabel
	}

	return ids, labels
}

func filterStates(items []model.State, sid string) []model.State {
	var out []model.State
	for i := range items {
		if items[i].SystemID == sid {
			out = append(out, items[i])
		}
	}
	return out
}

func filterOperators(items []model.ProcessOperator, sid string) []model.ProcessOperator {
	var out []model.ProcessOperator
	for i := range items {
		if items[i].SystemID == sid {
			out = append(out, items[i])
		}
	}
	return out
}

func filterResources(items []model.TechnicalResource, sid string) []model.TechnicalResource {
	var out []model.TechnicalResource
	for i := range items {
		if items[i].SystemID == sid {
			out = append(out, items[i])
		}
	}
	return out
}

func filterFlows(items []model.Flow, sid string) []model.Flow {
	var out []model.Flow
	for i := range items {
		if items[i].SystemID == sid {
			out = append(out, items[i])
		}
	}
	return out
}

func filterUsages(items []model.Usage, sid string) []model.Usage {
	var out []model.Usage
	for i := range items {
		if items[i].SystemID == sid {
			out = append(out, items[i])
		}
	}
	return out
}
