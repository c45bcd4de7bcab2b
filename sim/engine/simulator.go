package engine

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adas-hsched/hsched/sim"
	"github.com/adas-hsched/hsched/sim/trace"
)

// SimulationResults is the public output of a simulation run (§6): per-task
// response-time statistics, per-component utilization, and the raw execution
// log, alongside cooperative-cancellation bookkeeping (§5).
type SimulationResults struct {
	TaskResponseTimes    []trace.TaskResponseTime
	ComponentUtilizations []trace.ComponentUtilization
	SimulationTime       float64
	Timestamp            time.Time
	ExecutionLogs        []trace.ExecutionRecord

	// Truncated is true if the run was cancelled before reaching Horizon.
	Truncated         bool
	LastProcessedTime float64
}

// activeSlot tracks the currently-executing job on a run's single core.
type activeSlot struct {
	job           *Job
	dispatchStart float64
	generation    int
}

// run is one independent simulator instance bound to a single root component
// and its core (§4.D: "one simulator instance per root"). Nothing here is
// shared across roots, so Simulate can run them one after another with no
// synchronization.
type run struct {
	root *sim.Component
	p    float64 // core performance factor
	horizon float64

	clock      float64
	nextEvtID  uint64
	queue      *EventHeap
	stopped    bool
	lastClock  float64

	parentOf  map[string]*sim.Component
	componentOf map[string]*sim.Component
	taskOwner map[string]string // taskID -> owning component id

	resourceAvailable map[string]bool
	readyQueue        map[string][]*Job
	jobsByKey         map[jobKey]*Job
	nextInstanceSeq   map[string]uint64

	active *activeSlot

	responseTimes map[string][]float64
	missed        map[string]int
	executedTime  map[string]float64
	allocatedAlpha map[string]float64
	log           trace.Log
}

func newRun(root *sim.Component, p, horizon float64) *run {
	r := &run{
		root:              root,
		p:                 p,
		horizon:           horizon,
		queue:             NewEventHeap(),
		parentOf:          make(map[string]*sim.Component),
		componentOf:       make(map[string]*sim.Component),
		taskOwner:         make(map[string]string),
		resourceAvailable: make(map[string]bool),
		readyQueue:        make(map[string][]*Job),
		jobsByKey:         make(map[jobKey]*Job),
		nextInstanceSeq:   make(map[string]uint64),
		responseTimes:     make(map[string][]float64),
		missed:            make(map[string]int),
		executedTime:      make(map[string]float64),
		allocatedAlpha:    make(map[string]float64),
	}

	var index func(c, parent *sim.Component)
	index = func(c, parent *sim.Component) {
		r.componentOf[c.ID] = c
		if parent != nil {
			r.parentOf[c.ID] = parent
		}
		for _, t := range c.Tasks {
			r.taskOwner[t.ID] = c.ID
		}
		r.allocatedAlpha[c.ID] = c.Interface.Alpha
		for _, child := range c.Children {
			index(child, c)
		}
	}
	index(root, nil)
	r.resourceAvailable[root.ID] = true

	return r
}

func (r *run) schedule(e Event) {
	r.queue.Schedule(e)
}

func (r *run) newEventID() uint64 {
	r.nextEvtID++
	return r.nextEvtID
}

// resourceChainAvailable reports whether every component from root down to
// componentID currently has supply (§4.D nested-scheduling note): a job is
// only valid to keep running if its entire ancestor chain is still supplied.
func (r *run) resourceChainAvailable(componentID string) bool {
	for id := componentID; ; {
		if !r.resourceAvailable[id] {
			return false
		}
		parent, ok := r.parentOf[id]
		if !ok {
			return true
		}
		id = parent.ID
	}
}

// seed queues the first arrival of every task reachable from root, and,
// via scheduleSupplyWindows, the BDR on/off cycle of every non-root component.
func (r *run) seed() {
	r.root.Walk(func(c *sim.Component) {
		for _, t := range c.Tasks {
			r.schedule(&ArrivalEvent{
				BaseEvent: BaseEvent{time: 0, id: r.newEventID(), kind: EventTypeArrival},
				TaskID:    t.ID,
			})
		}
		if c.IsRoot {
			return
		}
		r.scheduleSupplyWindows(c)
	})
}

// scheduleSupplyWindows generates the component's on/off BDR cycle for
// [0, horizon] via the Half-Half transform (Q, P). Δ=0 degenerates to
// permanently-available supply (sim.HalfHalf's dedicated-server case, kept
// consistent here by never scheduling events for it at all).
func (r *run) scheduleSupplyWindows(c *sim.Component) {
	if c.Interface.Delta <= 0 {
		r.resourceAvailable[c.ID] = true
		return
	}
	q, p := sim.HalfHalf(c.Interface.Alpha, c.Interface.Delta)
	for k := 0.0; k*p < r.horizon; k++ {
		start := k * p
		end := start + q
		r.schedule(&SupplyStartEvent{
			BaseEvent:   BaseEvent{time: start, id: r.newEventID(), kind: EventTypeSupplyStart},
			ComponentID: c.ID,
		})
		r.schedule(&SupplyEndEvent{
			BaseEvent:   BaseEvent{time: end, id: r.newEventID(), kind: EventTypeSupplyEnd},
			ComponentID: c.ID,
		})
	}
}

// Execute drains the event queue up to horizon, checking ctx between events
// for cooperative cancellation (§5).
func (r *run) Execute(ctx context.Context) {
	r.seed()

	for {
		if err := ctx.Err(); err != nil {
			r.stopped = true
			logrus.Debugf("[engine] run for root %q cancelled at t=%v", r.root.ID, r.clock)
			break
		}
		ev := r.queue.PopNext()
		if ev == nil {
			break
		}
		if ev.Timestamp() > r.horizon {
			break
		}
		r.clock = ev.Timestamp()
		r.lastClock = r.clock
		logrus.Tracef("[engine] t=%v executing %T", r.clock, ev)
		ev.Execute(r)
	}

	if r.active != nil {
		elapsed := r.clock - r.active.dispatchStart
		r.executedTime[r.active.job.ComponentID] += elapsed
	}
}

// dispatch picks the next job to run, if the core is currently idle. It never
// preempts a running job itself — preemption happens in SupplyEndEvent, which
// clears r.active before dispatch is called.
func (r *run) dispatch() {
	if r.active != nil {
		return
	}
	job := r.headJob(r.root)
	if job == nil {
		return
	}
	r.removeFromReadyQueue(job)
	job.generation++
	r.active = &activeSlot{job: job, dispatchStart: r.clock, generation: job.generation}
	r.schedule(&CompletionEvent{
		BaseEvent:  BaseEvent{time: r.clock + job.Remaining, id: r.newEventID(), kind: EventTypeCompletion},
		TaskID:     job.TaskID,
		InstanceSeq: job.InstanceSeq,
		Generation: job.generation,
	})
}

// headJob implements the root-down tree walk of §4.D step 3: at every level,
// a component's own ready queue and the head job of each resource-available
// child compete as peers, arbitrated by that component's own algorithm.
func (r *run) headJob(c *sim.Component) *Job {
	var candidates []*Job
	if j := r.peekOwnQueue(c); j != nil {
		candidates = append(candidates, j)
	}
	for _, child := range c.Children {
		if !r.resourceAvailable[child.ID] {
			continue
		}
		if j := r.headJob(child); j != nil {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return r.selectByDiscipline(c.Algorithm, candidates)
}

func (r *run) peekOwnQueue(c *sim.Component) *Job {
	jobs := r.readyQueue[c.ID]
	if len(jobs) == 0 {
		return nil
	}
	return r.selectByDiscipline(c.Algorithm, jobs)
}

// selectByDiscipline picks the highest-priority job under alg, breaking ties
// deterministically by (TaskID, InstanceSeq) so repeated runs agree exactly.
func (r *run) selectByDiscipline(alg sim.SchedulingAlgorithm, candidates []*Job) *Job {
	best := candidates[0]
	for _, j := range candidates[1:] {
		if r.lessUrgent(alg, best, j) {
			best = j
		}
	}
	return best
}

// lessUrgent reports whether candidate b is more urgent than the current best
// a, under alg. Nil Priority (a synthesized child server has no FPS priority
// of its own) sorts first, matching fpsPriorityOrder's convention that a
// server preempts ordinary tasks whenever it has pending demand.
func (r *run) lessUrgent(alg sim.SchedulingAlgorithm, a, b *Job) bool {
	switch alg {
	case sim.FPS:
		switch {
		case a.Priority == nil && b.Priority == nil:
		case a.Priority == nil:
			return false
		case b.Priority == nil:
			return true
		case *a.Priority != *b.Priority:
			return *b.Priority < *a.Priority
		}
	default: // EDF
		if a.Deadline != b.Deadline {
			return b.Deadline < a.Deadline
		}
	}
	if a.TaskID != b.TaskID {
		return b.TaskID < a.TaskID
	}
	return b.InstanceSeq < a.InstanceSeq
}

func (r *run) removeFromReadyQueue(job *Job) {
	q := r.readyQueue[job.ComponentID]
	for i, j := range q {
		if j == job {
			r.readyQueue[job.ComponentID] = append(q[:i], q[i+1:]...)
			return
		}
	}
}

// Simulate runs an independent event-driven simulation over every root
// component in model for [0, horizon], merging their results. Each root is a
// fully independent run sharing no mutable state with the others (§4.D), so
// they execute sequentially in a single goroutine. The per-root entry points
// (newRun and run.Execute) are unexported.
func Simulate(ctx context.Context, model *sim.SystemModel, horizon float64) (*SimulationResults, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	results := &SimulationResults{SimulationTime: horizon}
	sawTruncated := false

	for _, root := range model.RootComponents {
		core := model.CoreByID(root.CoreID) // model.Validate guarantees this resolves
		r := newRun(root, core.PerformanceFactor, horizon)
		r.Execute(ctx)

		tasks, components := trace.Summarize(r.responseTimes, r.missed, r.executedTime, r.allocatedAlpha, horizon)
		results.TaskResponseTimes = append(results.TaskResponseTimes, tasks...)
		results.ComponentUtilizations = append(results.ComponentUtilizations, components...)
		results.ExecutionLogs = append(results.ExecutionLogs, r.log.Records()...)

		if r.stopped {
			results.Truncated = true
			if !sawTruncated || r.lastClock < results.LastProcessedTime {
				results.LastProcessedTime = r.lastClock
			}
			sawTruncated = true
		}
	}

	sort.Slice(results.TaskResponseTimes, func(i, j int) bool {
		return results.TaskResponseTimes[i].TaskID < results.TaskResponseTimes[j].TaskID
	})
	sort.Slice(results.ComponentUtilizations, func(i, j int) bool {
		return results.ComponentUtilizations[i].ComponentID < results.ComponentUtilizations[j].ComponentID
	})

	return results, nil
}
