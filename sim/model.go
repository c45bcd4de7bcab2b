// Core types for the hierarchical scheduling model: cores, tasks, components,
// and the system model that ties them together (§3).

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Core is a physical processing unit. A task with reference WCET c executes on
// a core with performance factor p in wall-clock time c/p. Reference p = 1.
type Core struct {
	ID                string
	Name              string
	PerformanceFactor float64
}

// TaskKind distinguishes periodic tasks (fixed period T) from sporadic tasks
// (minimum inter-arrival time MIT, treated as periodic with T=MIT for analysis).
type TaskKind string

const (
	Periodic TaskKind = "periodic"
	Sporadic TaskKind = "sporadic"
)

// Task is the tagged periodic/sporadic variant described in §3 and §9's design
// note: all variant-specific math (period-or-MIT, next arrival) lives behind
// PeriodOrMIT and NextArrival so callers never branch on Kind themselves.
type Task struct {
	ID   string
	Name string
	Kind TaskKind

	BCET     *float64 // optional, >= 0
	WCET     float64  // reference WCET, > 0
	Deadline float64  // relative deadline D, > 0
	Priority *int     // optional; lower number = higher priority (FPS only)

	Period float64 // periodic tasks: T > 0
	MIT    float64 // sporadic tasks: minimum inter-arrival time > 0
}

// PeriodOrMIT returns the task's period for periodic tasks or its minimum
// inter-arrival time for sporadic tasks — the single value the kernel treats
// as "T" throughout §4.
func (t *Task) PeriodOrMIT() float64 {
	if t.Kind == Sporadic {
		return t.MIT
	}
	return t.Period
}

// NextArrival returns the next arrival instant after an arrival at t, under the
// variant's arrival rule: exactly t+T for periodic tasks, exactly t+MIT for
// sporadic tasks (simulated at the worst-case rate, per §3).
func (t *Task) NextArrival(t0 float64) float64 {
	return t0 + t.PeriodOrMIT()
}

// Utilization returns the task's utilization scaled by the hosting core's
// performance factor p — the only place performance enters analysis (§4.B).
func (t *Task) Utilization(p float64) float64 {
	return (t.WCET / p) / t.PeriodOrMIT()
}

// ScaledWCET returns the task's WCET scaled by 1/p.
func (t *Task) ScaledWCET(p float64) float64 {
	return t.WCET / p
}

// Validate checks the per-task invariants of §3: positive WCET/period/MIT,
// positive deadline, and constrained deadlines (WCET ≤ D). It does not
// enforce D ≤ T — that invariant is checked once context (relaxation) is
// known, by Component.Validate.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: task has empty id", ErrInvalidModel)
	}
	if t.WCET <= 0 {
		return fmt.Errorf("%w: task %q has non-positive wcet %v", ErrInvalidModel, t.ID, t.WCET)
	}
	if t.Deadline <= 0 {
		return fmt.Errorf("%w: task %q has non-positive deadline %v", ErrInvalidModel, t.ID, t.Deadline)
	}
	if t.BCET != nil && *t.BCET < 0 {
		return fmt.Errorf("%w: task %q has negative bcet %v", ErrInvalidModel, t.ID, *t.BCET)
	}
	switch t.Kind {
	case Periodic:
		if t.Period <= 0 {
			return fmt.Errorf("%w: periodic task %q has non-positive period %v", ErrInvalidModel, t.ID, t.Period)
		}
	case Sporadic:
		if t.MIT <= 0 {
			return fmt.Errorf("%w: sporadic task %q has non-positive minimum inter-arrival time %v", ErrInvalidModel, t.ID, t.MIT)
		}
	default:
		return fmt.Errorf("%w: task %q has unknown kind %q", ErrInvalidModel, t.ID, t.Kind)
	}
	if t.WCET > t.Deadline {
		return fmt.Errorf("%w: task %q violates constrained deadlines (wcet %v > deadline %v)", ErrInvalidModel, t.ID, t.WCET, t.Deadline)
	}
	return nil
}

// SchedulingAlgorithm selects the local scheduling discipline of a component.
type SchedulingAlgorithm string

const (
	EDF SchedulingAlgorithm = "EDF"
	FPS SchedulingAlgorithm = "FPS"
)

// BDRInterface is a Bounded-Delay Resource interface (α, Δ): the component is
// guaranteed at least α·(t−Δ) units of supply in any interval of length t > Δ.
type BDRInterface struct {
	Alpha float64
	Delta float64
}

// Component is a node in the strict component tree (§3). A root component is
// bound to exactly one core and has its interface fixed at (α=1, Δ=0); every
// other component's interface is written by the Interface Synthesizer.
type Component struct {
	ID        string
	Name      string
	Algorithm SchedulingAlgorithm
	Tasks     []*Task
	Children  []*Component

	Interface BDRInterface

	// IsRoot and CoreID are set by the ingestion layer / SystemModel wiring;
	// a root component's CoreID names the core it is bound to.
	IsRoot bool
	CoreID string

	// synthesizedSupplyTasks holds the periodic supply tasks contributed by
	// this component's children, appended explicitly during post-order
	// synthesis (§9 open question: child-supply-task demand is explicit).
	// AllTasks() returns Tasks plus these.
	synthesizedSupplyTasks []*Task
}

// AllTasks returns this component's own tasks plus any supply tasks
// synthesized from its children — the full demand set the kernel evaluates.
func (c *Component) AllTasks() []*Task {
	if len(c.synthesizedSupplyTasks) == 0 {
		return c.Tasks
	}
	all := make([]*Task, 0, len(c.Tasks)+len(c.synthesizedSupplyTasks))
	all = append(all, c.Tasks...)
	all = append(all, c.synthesizedSupplyTasks...)
	return all
}

// AddSupplyTask appends a synthesized child supply task to this component's
// demand set. Called once per child during post-order synthesis.
func (c *Component) AddSupplyTask(t *Task) {
	c.synthesizedSupplyTasks = append(c.synthesizedSupplyTasks, t)
}

// Utilization returns Σ u_i over this component's full task set (including
// synthesized child supply tasks), scaled by the hosting core's performance
// factor p.
func (c *Component) Utilization(p float64) float64 {
	var u float64
	for _, t := range c.AllTasks() {
		u += t.Utilization(p)
	}
	return u
}

// MaxDeadline returns the largest relative deadline among this component's
// full task set, or 0 if it has none.
func (c *Component) MaxDeadline() float64 {
	var m float64
	for _, t := range c.AllTasks() {
		if t.Deadline > m {
			m = t.Deadline
		}
	}
	return m
}

// Validate checks component-level invariants: a non-empty id, a known
// scheduling algorithm, valid tasks, a non-root interface with α in (0,1]
// (0 meaning not yet synthesized) and Δ ≥ 0, and D ≤ T for every task
// (logged, not fatal — §9: the synthesizer must not silently assume this).
// A component with no tasks is valid; duplicate ids are checked by
// SystemModel.Validate.
func (c *Component) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: component has empty id", ErrInvalidModel)
	}
	if c.Algorithm != EDF && c.Algorithm != FPS {
		return fmt.Errorf("%w: component %q has unknown scheduling algorithm %q", ErrInvalidModel, c.ID, c.Algorithm)
	}
	for _, t := range c.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if t.Deadline > t.PeriodOrMIT() {
			logrus.Warnf("[model] task %q in component %q has deadline %v greater than its period/MIT %v", t.ID, c.ID, t.Deadline, t.PeriodOrMIT())
		}
	}
	if !c.IsRoot {
		if c.Interface.Alpha != 0 && (c.Interface.Alpha <= 0 || c.Interface.Alpha > 1) {
			return fmt.Errorf("%w: component %q has alpha %v outside (0,1]", ErrInvalidModel, c.ID, c.Interface.Alpha)
		}
		if c.Interface.Delta < 0 {
			return fmt.Errorf("%w: component %q has negative delta %v", ErrInvalidModel, c.ID, c.Interface.Delta)
		}
	}
	return nil
}

// Walk visits c and every descendant in pre-order.
func (c *Component) Walk(visit func(*Component)) {
	visit(c)
	for _, child := range c.Children {
		child.Walk(visit)
	}
}

// WalkPostOrder visits every descendant of c, then c itself — the order the
// Interface Synthesizer relies on (§4.C: children before parents).
func (c *Component) WalkPostOrder(visit func(*Component)) {
	for _, child := range c.Children {
		child.WalkPostOrder(visit)
	}
	visit(c)
}

// SystemModel is a set of cores and a set of root components, each root bound
// to exactly one core (§3).
type SystemModel struct {
	Cores          []*Core
	RootComponents []*Component
}

// CoreByID returns the core with the given id, or nil.
func (m *SystemModel) CoreByID(id string) *Core {
	for _, c := range m.Cores {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Validate checks SystemModel-wide invariants: unique ids across cores,
// components, and tasks; every root bound to a declared core; at most one
// root per core. Called by the synthesizer before any analysis (§7).
func (m *SystemModel) Validate() error {
	if len(m.Cores) == 0 {
		return fmt.Errorf("%w: system model has no cores", ErrInvalidModel)
	}
	if len(m.RootComponents) == 0 {
		return fmt.Errorf("%w: system model has no root components", ErrInvalidModel)
	}

	seen := make(map[string]bool)
	checkDup := func(kind, id string) error {
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q (%s)", ErrDuplicateID, id, kind)
		}
		seen[id] = true
		return nil
	}

	for _, c := range m.Cores {
		if c.PerformanceFactor <= 0 {
			return fmt.Errorf("%w: core %q has non-positive performance factor %v", ErrInvalidModel, c.ID, c.PerformanceFactor)
		}
		if err := checkDup("core", c.ID); err != nil {
			return err
		}
	}

	coreUsed := make(map[string]string) // coreID -> root component ID
	var walkErr error
	for _, root := range m.RootComponents {
		root.Walk(func(comp *Component) {
			if walkErr != nil {
				return
			}
			if err := checkDup("component", comp.ID); err != nil {
				walkErr = err
				return
			}
			for _, t := range comp.Tasks {
				if err := checkDup("task", t.ID); err != nil {
					walkErr = err
					return
				}
			}
			if err := comp.Validate(); err != nil {
				walkErr = err
			}
		})
		if walkErr != nil {
			return walkErr
		}

		if root.CoreID == "" {
			return fmt.Errorf("%w: root component %q is not bound to a core", ErrUnboundComponent, root.ID)
		}
		if m.CoreByID(root.CoreID) == nil {
			return fmt.Errorf("%w: root component %q is bound to unknown core %q", ErrUnboundComponent, root.ID, root.CoreID)
		}
		if existing, ok := coreUsed[root.CoreID]; ok {
			return fmt.Errorf("%w: core %q is bound to both %q and %q", ErrInvalidModel, root.CoreID, existing, root.ID)
		}
		coreUsed[root.CoreID] = root.ID
	}

	return nil
}
