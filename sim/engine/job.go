package engine

// Job is one instance of a task's periodic or sporadic arrival stream.
// Instances are keyed by (TaskID, InstanceSeq) rather than a random id or a
// bare pointer so that a deadline check that outlives preemption always
// attributes the miss to the correct instance (§9 open question).
type Job struct {
	TaskID      string
	ComponentID string
	InstanceSeq uint64

	Arrival  float64
	Deadline float64
	Priority *int // only meaningful for FPS components; mirrors Task.Priority, nil sorts first

	Remaining float64 // scaled execution time still owed

	// generation is bumped every time this job is dispatched. A Completion
	// event carries the generation it was scheduled under; if the job was
	// preempted (and possibly redispatched) in the meantime the generation
	// no longer matches and the stale event is ignored.
	generation int
}

func (j *Job) key() jobKey {
	return jobKey{taskID: j.TaskID, seq: j.InstanceSeq}
}

type jobKey struct {
	taskID string
	seq    uint64
}
