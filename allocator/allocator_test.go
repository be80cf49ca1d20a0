package allocator

import "testing"

func TestPool_Lease_FirstFree(t *testing.T) {
	p := NewPool(1, 3)
	slot, err := p.Lease("a")
	if err != nil {
		t.Fatalf("Lease() error = %v", err)
	}
	if slot != 1 {
		t.Errorf("slot = %d, want 1", slot)
	}
}

func TestPool_Lease_IdempotentForSameHolder(t *testing.T) {
	p := NewPool(1, 3)
	s1, _ := p.Lease("a")
	s2, err := p.Lease("a")
	if err != nil {
		t.Fatalf("Lease() error = %v", err)
	}
	if s1 != s2 {
		t.Errorf("repeated lease by same holder changed slot: %d != %d", s1, s2)
	}
}

func TestPool_Lease_SkipsTakenSlots(t *testing.T) {
	p := NewPool(1, 3)
	_, _ = p.Lease("a")
	slot, err := p.Lease("b")
	if err != nil {
		t.Fatalf("Lease() error = %v", err)
	}
	if slot != 2 {
		t.Errorf("slot = %d, want 2", slot)
	}
}

func TestPool_Lease_ExhaustedReturnsError(t *testing.T) {
	p := NewPool(1, 1)
	_, _ = p.Lease("a")
	_, err := p.Lease("b")
	if err != ErrExhausted {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
}

func TestPool_Release_FreesSlotForReuse(t *testing.T) {
	p := NewPool(1, 1)
	_, _ = p.Lease("a")
	p.Release("a")
	slot, err := p.Lease("b")
	if err != nil {
		t.Fatalf("Lease() error = %v", err)
	}
	if slot != 1 {
		t.Errorf("slot = %d, want 1", slot)
	}
}
