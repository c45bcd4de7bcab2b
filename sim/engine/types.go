// Package engine implements the hierarchical Event-Driven Simulator (§4.D): a
// priority-queue-driven run over [0, T] that replays arrivals, deadlines,
// completions, and BDR supply windows for every component in a root's
// subtree, honoring each core's performance factor.
package engine

// EventType distinguishes the five kinds of simulation events.
type EventType string

const (
	EventTypeSupplyEnd   EventType = "supply-end"
	EventTypeArrival     EventType = "arrival"
	EventTypeDeadline    EventType = "deadline"
	EventTypeSupplyStart EventType = "supply-start"
	EventTypeCompletion  EventType = "completion"
)

// EventTypePriority orders events sharing the same timestamp (§4.D, §5):
// supply revocation preempts before new supply begins, and deadlines are
// checked after the arrivals that share their instant are queued. Lower
// values are processed first.
var EventTypePriority = map[EventType]int{
	EventTypeSupplyEnd:   1,
	EventTypeArrival:     2,
	EventTypeDeadline:    3,
	EventTypeSupplyStart: 4,
	EventTypeCompletion:  5,
}
