package engine

import (
	"github.com/adas-hsched/hsched/sim"
	"github.com/adas-hsched/hsched/sim/trace"
)

// equalF mirrors sim.FloatsEqual's tolerance-based comparison for the
// deadline-miss check below.
func equalF(a, b float64) bool { return sim.FloatsEqual(a, b) }

// taskByID returns the task with the given id among c's own tasks (not its
// synthesized child supply tasks — a component's own arrivals never include
// those).
func taskByID(c *sim.Component, id string) *sim.Task {
	if c == nil {
		return nil
	}
	for _, t := range c.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// ArrivalEvent instantiates a new job of TaskID at the event's timestamp,
// enqueues it on its owning component's ready queue, schedules the job's
// deadline check and the task's next arrival, then re-arbitrates the core.
type ArrivalEvent struct {
	BaseEvent
	TaskID string
}

func (e *ArrivalEvent) Execute(r *run) {
	componentID := r.taskOwner[e.TaskID]
	task := taskByID(r.componentOf[componentID], e.TaskID)
	if task == nil {
		return
	}

	seq := r.nextInstanceSeq[e.TaskID]
	r.nextInstanceSeq[e.TaskID] = seq + 1

	job := &Job{
		TaskID:      e.TaskID,
		ComponentID: componentID,
		InstanceSeq: seq,
		Arrival:     r.clock,
		Deadline:    r.clock + task.Deadline,
		Priority:    task.Priority,
		Remaining:   task.ScaledWCET(r.p),
	}
	r.jobsByKey[job.key()] = job
	r.readyQueue[componentID] = append(r.readyQueue[componentID], job)

	r.schedule(&DeadlineEvent{
		BaseEvent:   BaseEvent{time: job.Deadline, id: r.newEventID(), kind: EventTypeDeadline},
		TaskID:      e.TaskID,
		InstanceSeq: seq,
	})

	next := task.NextArrival(r.clock)
	if next <= r.horizon {
		r.schedule(&ArrivalEvent{
			BaseEvent: BaseEvent{time: next, id: r.newEventID(), kind: EventTypeArrival},
			TaskID:    e.TaskID,
		})
	}

	r.dispatch()
}

// DeadlineEvent checks whether the job instance (TaskID, InstanceSeq) has
// completed by its deadline. A missed deadline is recorded but the job is
// never cancelled — it keeps running, exactly as §4.D specifies.
type DeadlineEvent struct {
	BaseEvent
	TaskID      string
	InstanceSeq uint64
}

func (e *DeadlineEvent) Execute(r *run) {
	job, ok := r.jobsByKey[jobKey{taskID: e.TaskID, seq: e.InstanceSeq}]
	if !ok {
		return
	}
	if job.Remaining > 0 && !r.completesExactlyNow(job) {
		r.missed[e.TaskID]++
	}
	r.dispatch()
}

// completesExactlyNow reports whether job is currently dispatched and its
// CompletionEvent falls at r.clock — i.e. the deadline and completion share
// this instant and completion simply hasn't fired yet because deadline
// events are ordered before completion events at the same timestamp (§4.D).
// Without this check such a job is wrongly counted as missed even though it
// finishes exactly on time.
func (r *run) completesExactlyNow(job *Job) bool {
	if r.active == nil || r.active.job != job {
		return false
	}
	completionTime := r.active.dispatchStart + job.Remaining
	return completionTime <= r.clock || equalF(completionTime, r.clock)
}

// CompletionEvent fires when a dispatched job is expected to finish. It
// carries the Generation it was dispatched under; if the job was preempted
// (and perhaps redispatched) since then, Generation no longer matches the
// active slot and the event is a stale no-op.
type CompletionEvent struct {
	BaseEvent
	TaskID      string
	InstanceSeq uint64
	Generation  int
}

func (e *CompletionEvent) Execute(r *run) {
	if r.active == nil {
		return
	}
	job := r.active.job
	if job.TaskID != e.TaskID || job.InstanceSeq != e.InstanceSeq || r.active.generation != e.Generation {
		return
	}

	elapsed := r.clock - r.active.dispatchStart
	r.executedTime[job.ComponentID] += elapsed
	r.responseTimes[job.TaskID] = append(r.responseTimes[job.TaskID], r.clock-job.Arrival)

	r.log.Append(trace.ExecutionRecord{
		TaskID:         job.TaskID,
		ComponentID:    job.ComponentID,
		InstanceSeq:    job.InstanceSeq,
		ArrivalTime:    job.Arrival,
		StartTime:      r.active.dispatchStart,
		EndTime:        r.clock,
		Deadline:       job.Deadline,
		MissedDeadline: r.clock > job.Deadline && !equalF(r.clock, job.Deadline),
	})

	job.Remaining = 0
	delete(r.jobsByKey, job.key())
	r.active = nil
	r.dispatch()
}

// SupplyStartEvent marks the beginning of a component's BDR on-phase.
type SupplyStartEvent struct {
	BaseEvent
	ComponentID string
}

func (e *SupplyStartEvent) Execute(r *run) {
	r.resourceAvailable[e.ComponentID] = true
	r.dispatch()
}

// SupplyEndEvent marks the end of a component's BDR on-phase. If the active
// job's supply chain now passes through a revoked component, it is preempted:
// elapsed time is charged to its owning component and the job is pushed back
// onto its ready queue to compete again once supply resumes.
type SupplyEndEvent struct {
	BaseEvent
	ComponentID string
}

func (e *SupplyEndEvent) Execute(r *run) {
	r.resourceAvailable[e.ComponentID] = false

	if r.active != nil && !r.resourceChainAvailable(r.active.job.ComponentID) {
		job := r.active.job
		elapsed := r.clock - r.active.dispatchStart
		job.Remaining -= elapsed
		r.executedTime[job.ComponentID] += elapsed
		r.log.Append(trace.ExecutionRecord{
			TaskID:      job.TaskID,
			ComponentID: job.ComponentID,
			InstanceSeq: job.InstanceSeq,
			ArrivalTime: job.Arrival,
			StartTime:   r.active.dispatchStart,
			EndTime:     r.clock,
			Deadline:    job.Deadline,
		})
		r.readyQueue[job.ComponentID] = append(r.readyQueue[job.ComponentID], job)
		r.active = nil
	}

	r.dispatch()
}
