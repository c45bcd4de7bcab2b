package engine

import "container/heap"

// Event is anything the simulator's priority queue can order and execute.
// Ordering is (Timestamp, EventTypePriority, EventID) so two runs over the
// same model produce byte-identical traces (§4.D, §5).
type Event interface {
	Timestamp() float64
	EventID() uint64
	Type() EventType
	Execute(s *run)
}

// BaseEvent is embedded by every concrete event type to supply the fields
// the heap needs for ordering, mirroring the teacher's event/eventEntry split
// but folded into a single embeddable struct since every event here already
// knows its own type.
type BaseEvent struct {
	time float64
	id   uint64
	kind EventType
}

func (b BaseEvent) Timestamp() float64 { return b.time }
func (b BaseEvent) EventID() uint64    { return b.id }
func (b BaseEvent) Type() EventType    { return b.kind }

// EventHeap implements heap.Interface with deterministic ordering:
// timestamp, then type priority, then event id.
type EventHeap struct {
	events []Event
}

func NewEventHeap() *EventHeap {
	h := &EventHeap{events: make([]Event, 0)}
	heap.Init(h)
	return h
}

func (h *EventHeap) Len() int { return len(h.events) }

func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]
	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}
	pi, pj := EventTypePriority[ei.Type()], EventTypePriority[ej.Type()]
	if pi != pj {
		return pi < pj
	}
	return ei.EventID() < ej.EventID()
}

func (h *EventHeap) Swap(i, j int) { h.events[i], h.events[j] = h.events[j], h.events[i] }

func (h *EventHeap) Push(x any) { h.events = append(h.events, x.(Event)) }

func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[:n-1]
	return item
}

// Schedule pushes an event onto the heap.
func (h *EventHeap) Schedule(e Event) { heap.Push(h, e) }

// PopNext removes and returns the next event, or nil if the heap is empty.
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(Event)
}

// Peek returns the next event without removing it, or nil if the heap is empty.
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0]
}
