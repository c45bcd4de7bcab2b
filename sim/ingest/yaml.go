package ingest

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adas-hsched/hsched/sim"
)

// yamlModel mirrors jsonModel field-for-field but with yaml tags, in the
// same declarative-tagged-struct style as the teacher's
// sim/workload/spec.go WorkloadSpec. It is an alternate encoding of exactly
// §6's schema, not a distinct format.
type yamlModel struct {
	Cores          []yamlCore      `yaml:"cores"`
	RootComponents []yamlComponent `yaml:"rootComponents"`
}

type yamlCore struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	PerformanceFactor float64 `yaml:"performanceFactor"`
}

type yamlComponent struct {
	ID                  string          `yaml:"id"`
	Name                string          `yaml:"name"`
	SchedulingAlgorithm string          `yaml:"schedulingAlgorithm"`
	Alpha               *float64        `yaml:"alpha,omitempty"`
	Delta               *float64        `yaml:"delta,omitempty"`
	Tasks               []yamlTask      `yaml:"tasks"`
	ChildComponents     []yamlComponent `yaml:"childComponents,omitempty"`
}

type yamlTask struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	Type                string   `yaml:"type"`
	BCET                *float64 `yaml:"bcet,omitempty"`
	WCET                float64  `yaml:"wcet"`
	Deadline            float64  `yaml:"deadline"`
	Priority            *int     `yaml:"priority,omitempty"`
	Period              float64  `yaml:"period,omitempty"`
	MinimumInterArrival float64  `yaml:"minimumInterArrivalTime,omitempty"`
}

// LoadYAML reads and decodes a SystemModel from the YAML mirror of §6's
// schema.
func LoadYAML(r io.Reader) (*sim.SystemModel, error) {
	var ym yamlModel
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrInvalidModel, err)
	}
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("%w: malformed yaml: %v", sim.ErrInvalidModel, err)
	}
	return decodeModel(yamlToJSONModel(&ym))
}

// LoadYAMLFile opens path and loads a SystemModel from it.
func LoadYAMLFile(path string) (*sim.SystemModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrInvalidModel, err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// yamlToJSONModel re-tags a decoded yamlModel as a jsonModel so both formats
// share decodeModel/decodeComponent/decodeTask — the two schemas differ only
// in tag, never in shape.
func yamlToJSONModel(ym *yamlModel) *jsonModel {
	jm := &jsonModel{}
	for _, c := range ym.Cores {
		jm.Cores = append(jm.Cores, jsonCore{ID: c.ID, Name: c.Name, PerformanceFactor: c.PerformanceFactor})
	}
	for _, c := range ym.RootComponents {
		jm.RootComponents = append(jm.RootComponents, yamlComponentToJSON(c))
	}
	return jm
}

func yamlComponentToJSON(c yamlComponent) jsonComponent {
	jc := jsonComponent{
		ID:                  c.ID,
		Name:                c.Name,
		SchedulingAlgorithm: c.SchedulingAlgorithm,
		Alpha:               c.Alpha,
		Delta:               c.Delta,
	}
	for _, t := range c.Tasks {
		jc.Tasks = append(jc.Tasks, jsonTask{
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
		jc.ChildComponents = append(jc.ChildComponents, yamlComponentToJSON(cc))
	}
	return jc
}
