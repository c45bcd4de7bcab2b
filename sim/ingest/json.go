// Package ingest loads a sim.SystemModel from the external formats §6
// describes: the authoritative JSON schema, an alternate YAML schema in the
// same shape, and a flat CSV task table. Ingestion is the one place this
// repo's code looks outside the `sim` tree for its input, mirroring the
// teacher's own workload-loading idiom (sim/cluster/workload.go: open file,
// decode, validate, skip-and-log malformed rows) rather than anything
// invented for this spec.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adas-hsched/hsched/sim"
)

// jsonModel mirrors §6's authoritative JSON schema field-for-field.
type jsonModel struct {
	Cores          []jsonCore      `json:"cores"`
	RootComponents []jsonComponent `json:"rootComponents"`
}

type jsonCore struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	PerformanceFactor float64 `json:"performanceFactor"`
}

type jsonComponent struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	SchedulingAlgorithm string          `json:"schedulingAlgorithm"`
	Alpha               *float64        `json:"alpha,omitempty"`
	Delta               *float64        `json:"delta,omitempty"`
	Tasks               []jsonTask      `json:"tasks"`
	ChildComponents     []jsonComponent `json:"childComponents,omitempty"`
}

type jsonTask struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Type                  string   `json:"type"`
	BCET                  *float64 `json:"bcet,omitempty"`
	WCET                  float64  `json:"wcet"`
	Deadline              float64  `json:"deadline"`
	Priority              *int     `json:"priority,omitempty"`
	Period                float64  `json:"period,omitempty"`
	MinimumInterArrival   float64  `json:"minimumInterArrivalTime,omitempty"`
}

// LoadJSON reads and decodes a SystemModel from JSON, per §6's authoritative
// schema. It validates presence of cores[] and rootComponents[] (the
// ingestion layer's own responsibility, per §6), and rejects a task whose
// type is unknown or that lacks the period (periodic) or
// minimumInterArrivalTime (sporadic) its type needs. Every other validation
// is left to the synthesizer/simulator via SystemModel.Validate.
func LoadJSON(r io.Reader) (*sim.SystemModel, error) {
	var jm jsonModel
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jm); err != nil {
		return nil, fmt.Errorf("%w: malformed json: %v", sim.ErrInvalidModel, err)
	}
	return decodeModel(&jm)
}

// LoadJSONFile opens path and loads a SystemModel from it.
func LoadJSONFile(path string) (*sim.SystemModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrInvalidModel, err)
	}
	defer f.Close()
	return LoadJSON(f)
}

func decodeModel(jm *jsonModel) (*sim.SystemModel, error) {
	if len(jm.Cores) == 0 {
		return nil, fmt.Errorf("%w: model has no cores[]", sim.ErrInvalidModel)
	}
	if len(jm.RootComponents) == 0 {
		return nil, fmt.Errorf("%w: model has no rootComponents[]", sim.ErrInvalidModel)
	}

	model := &sim.SystemModel{}
	for _, jc := range jm.Cores {
		model.Cores = append(model.Cores, &sim.Core{
			ID:                jc.ID,
			Name:              jc.Name,
			PerformanceFactor: jc.PerformanceFactor,
		})
	}

	for _, jc := range jm.RootComponents {
		comp, err := decodeComponent(&jc, true)
		if err != nil {
			return nil, err
		}
		comp.CoreID = coreIDFromComponent(jc.ID)
		model.RootComponents = append(model.RootComponents, comp)
	}

	return model, nil
}

// coreIDFromComponent resolves a root component's bound core from its id
// prefix `core-<coreId>...`, per §6's naming-convention binding. Ingestion
// layers that carry an explicit binding field should set Component.CoreID
// themselves instead of relying on this convention; LoadJSON only has the id
// to go on.
func coreIDFromComponent(componentID string) string {
	const prefix = "core-"
	if !strings.HasPrefix(componentID, prefix) {
		return ""
	}
	rest := componentID[len(prefix):]
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		return rest[:i]
	}
	return rest
}

func decodeComponent(jc *jsonComponent, isRoot bool) (*sim.Component, error) {
	comp := &sim.Component{
		ID:        jc.ID,
		Name:      jc.Name,
		Algorithm: sim.SchedulingAlgorithm(jc.SchedulingAlgorithm),
		IsRoot:    isRoot,
	}
	if isRoot {
		comp.Interface = sim.BDRInterface{Alpha: 1, Delta: 0}
	} else {
		if jc.Alpha != nil {
			comp.Interface.Alpha = *jc.Alpha
		}
		if jc.Delta != nil {
			comp.Interface.Delta = *jc.Delta
		}
	}

	for _, jt := range jc.Tasks {
		task, err := decodeTask(&jt)
		if err != nil {
			return nil, err
		}
		comp.Tasks = append(comp.Tasks, task)
	}

	for _, jcc := range jc.ChildComponents {
		child, err := decodeComponent(&jcc, false)
		if err != nil {
			return nil, err
		}
		comp.Children = append(comp.Children, child)
	}

	return comp, nil
}

func decodeTask(jt *jsonTask) (*sim.Task, error) {
	var kind sim.TaskKind
	switch jt.Type {
	case "periodic":
		kind = sim.Periodic
	case "sporadic":
		kind = sim.Sporadic
	default:
		return nil, fmt.Errorf("%w: task %q has unknown type %q", sim.ErrInvalidModel, jt.ID, jt.Type)
	}

	task := &sim.Task{
		ID:       jt.ID,
		Name:     jt.Name,
		Kind:     kind,
		BCET:     jt.BCET,
		WCET:     jt.WCET,
		Deadline: jt.Deadline,
		Priority: jt.Priority,
		Period:   jt.Period,
		MIT:      jt.MinimumInterArrival,
	}

	if kind == sim.Periodic && jt.Period <= 0 {
		return nil, fmt.Errorf("%w: periodic task %q is missing period", sim.ErrInvalidModel, jt.ID)
	}
	if kind == sim.Sporadic && jt.MinimumInterArrival <= 0 {
		return nil, fmt.Errorf("%w: sporadic task %q is missing minimumInterArrivalTime", sim.ErrInvalidModel, jt.ID)
	}

	return task, nil
}
