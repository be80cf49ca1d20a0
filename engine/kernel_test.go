package engine

import "testing"

func TestSimulation_ScheduleAfter_FIFOTieBreak(t *testing.T) {
	s := New()
	var order []int
	s.ScheduleAfter(1, func() { order = append(order, 1) })
	s.ScheduleAfter(1, func() { order = append(order, 2) })
	s.ScheduleAfter(1, func() { order = append(order, 3) })

	if err := s.Run(10); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestSimulation_ScheduleAfter_DeadlineOrdering(t *testing.T) {
	s := New()
	var order []string
	s.ScheduleAfter(5, func() { order = append(order, "late") })
	s.ScheduleAfter(1, func() { order = append(order, "early") })

	if err := s.Run(10); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("order = %v, want [early late]", order)
	}
}

func TestSimulation_ScheduleAfter_NegativeDelayClampedToZero(t *testing.T) {
	s := New()
	fired := false
	s.ScheduleAfter(-5, func() {
		fired = true
		if s.Now() != 0 {
			t.Errorf("Now() = %v, want 0", s.Now())
		}
	})
	if err := s.Run(1); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !fired {
		t.Error("callback did not fire")
	}
}

func TestSimulation_Run_StopsAtUntilWhenQueueEmpty(t *testing.T) {
	s := New()
	if err := s.Run(5); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Now() != 5 {
		t.Errorf("Now() = %v, want 5", s.Now())
	}
}

func TestSimulation_Run_PanicBecomesInvariantViolation(t *testing.T) {
	s := New()
	s.ScheduleAfter(1, func() { panic("mesh hop overflow") })
	err := s.Run(10)
	if err == nil {
		t.Fatal("expected an error from a panicking callback")
	}
	if _, ok := err.(*InvariantViolation); !ok {
		t.Errorf("err = %T, want *InvariantViolation", err)
	}
}

type fakePeer struct {
	gui       int
	x, y      float64
	txRange   float64
	delivered []any
}

func (f *fakePeer) GUI() int                    { return f.gui }
func (f *fakePeer) Position() (float64, float64) { return f.x, f.y }
func (f *fakePeer) TxRange() float64            { return f.txRange }
func (f *fakePeer) Deliver(now, distance float64, pck any) { f.delivered = append(f.delivered, pck) }

func TestSimulation_Send_OnlyWithinRange(t *testing.T) {
	s := New()
	a := &fakePeer{gui: 0, x: 0, y: 0, txRange: 100}
	b := &fakePeer{gui: 1, x: 50, y: 0, txRange: 100}
	c := &fakePeer{gui: 2, x: 500, y: 0, txRange: 100}
	s.Topology.AddNode(a)
	s.Topology.AddNode(b)
	s.Topology.AddNode(c)

	s.Send(a, "hello")
	if err := s.Run(1); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(b.delivered) != 1 {
		t.Errorf("b.delivered = %v, want 1 packet", b.delivered)
	}
	if len(c.delivered) != 0 {
		t.Errorf("c.delivered = %v, want 0 packets (out of range)", c.delivered)
	}
}
