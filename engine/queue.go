package engine

import "container/heap"

// event is a single scheduled callback. Ordering is strictly by
// deadline; ties are broken by seq (FIFO insertion order), per spec §4.1.
type event struct {
	deadline float64
	seq      uint64
	callback func()
}

// eventQueue is a container/heap priority queue of events, grounded on
// the event-queue shape used by the pack's own discrete-event cluster
// simulator (container/heap over a slice of timestamped callbacks).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(*event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

var _ heap.Interface = (*eventQueue)(nil)
