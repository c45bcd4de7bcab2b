package ingest

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/adas-hsched/hsched/sim"
)

// WriteJSON encodes model back into §6's authoritative JSON schema. It is
// the inverse of LoadJSON and backs `cmd convert` (JSON ⇄ YAML).
func WriteJSON(w io.Writer, model *sim.SystemModel) error {
	jm := modelToJSON(model)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jm)
}

// WriteYAML encodes model into the YAML mirror of §6's schema.
func WriteYAML(w io.Writer, model *sim.SystemModel) error {
	jm := modelToJSON(model)
	data, err := yaml.Marshal(yamlFromJSONModel(jm))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func modelToJSON(model *sim.SystemModel) *jsonModel {
	jm := &jsonModel{}
	for _, c := range model.Cores {
		jm.Cores = append(jm.Cores, jsonCore{ID: c.ID, Name: c.Name, PerformanceFactor: c.PerformanceFactor})
	}
	for _, root := range model.RootComponents {
		jm.RootComponents = append(jm.RootComponents, componentToJSON(root))
	}
	return jm
}

func componentToJSON(c *sim.Component) jsonComponent {
	jc := jsonComponent{
		ID:                  c.ID,
		Name:                c.Name,
		SchedulingAlgorithm: string(c.Algorithm),
	}
	if !c.IsRoot {
		alpha, delta := c.Interface.Alpha, c.Interface.Delta
		jc.Alpha = &alpha
		jc.Delta = &delta
	}
	for _, t := range c.Tasks {
		jc.Tasks = append(jc.Tasks, taskToJSON(t))
	}
	for _, child := range c.Children {
		jc.ChildComponents = append(jc.ChildComponents, componentToJSON(child))
	}
	return jc
}

func taskToJSON(t *sim.Task) jsonTask {
	jt := jsonTask{
		ID:       t.ID,
		Name:     t.Name,
		Type:     string(t.Kind),
		BCET:     t.BCET,
		WCET:     t.WCET,
		Deadline: t.Deadline,
		Priority: t.Priority,
	}
	switch t.Kind {
	case sim.Periodic:
		jt.Period = t.Period
	case sim.Sporadic:
		jt.MinimumInterArrival = t.MIT
	}
	return jt
}

// yamlFromJSONModel is the inverse of yamlToJSONModel, used only by WriteYAML
// so the two formats share a single canonical in-memory shape (jsonModel).
func yamlFromJSONModel(jm *jsonModel) *yamlModel {
	ym := &yamlModel{}
	for _, c := range jm.Cores {
		ym.Cores = append(ym.Cores, yamlCore{ID: c.ID, Name: c.Name, PerformanceFactor: c.PerformanceFactor})
	}
	for _, c := range jm.RootComponents {
		ym.RootComponents = append(ym.RootComponents, jsonComponentToYAML(c))
	}
	return ym
}

func jsonComponentToYAML(c jsonComponent) yamlComponent {
	yc := yamlComponent{
		ID:                  c.ID,
		Name:                c.Name,
		SchedulingAlgorithm: c.SchedulingAlgorithm,
		Alpha:               c.Alpha,
		Delta:               c.Delta,
	}
	for _, t := range c.Tasks {
		yc.Tasks = append(yc.Tasks, yamlTask{
			ID:                  t.ID,
			Name:                t.Name,
			Type:                t.Type,
			BCET:                t.BCET,
			WCET:                t.WCET,
			Deadline:            t.Deadline,
			Priority:            t.Priority,
			Period:              t.Period,
			MinimumInterArrival: t.MinimumInterArrival,
		})
	}
	for _, cc := range c.ChildComponents {
		yc.ChildComponents = append(yc.ChildComponents, jsonComponentToYAML(cc))
	}
	return yc
}
