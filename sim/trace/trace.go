// Package trace provides execution-log recording for simulator runs. It has
// no dependency on sim/engine — it stores the plain data records described by
// §6's executionLogs contract.
package trace

// ExecutionRecord is one contiguous execution slice of a job (§6). A
// preempted job emits multiple records sharing the same TaskID/ComponentID/
// InstanceSeq but with disjoint [StartTime, EndTime) ranges.
type ExecutionRecord struct {
	TaskID        string
	ComponentID   string
	InstanceSeq   uint64 // per-task instance sequence number (§9 open question)
	ArrivalTime   float64
	StartTime     float64
	EndTime       float64
	Deadline      float64
	MissedDeadline bool
}

// Log is an ordered, append-only sequence of ExecutionRecords.
type Log struct {
	records []ExecutionRecord
}

// Append adds a record to the log, preserving insertion order.
func (l *Log) Append(r ExecutionRecord) {
	l.records = append(l.records, r)
}

// Records returns the log's records in recording order.
func (l *Log) Records() []ExecutionRecord {
	return l.records
}

// Len returns the number of recorded execution slices.
func (l *Log) Len() int {
	return len(l.records)
}
