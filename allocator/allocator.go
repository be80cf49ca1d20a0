// Package allocator implements the per-node address pools described in
// spec §4.4: a net-id pool held by the root, and a node-id pool held
// by every cluster head and the root. Both follow the same
// first-free-or-same-holder rule and are idempotent under duplicate
// requests from the same holder.
package allocator

import "fmt"

// Holder identifies whoever leased a slot: a requesting gui for the
// node-id pool, or a requesting source address (formatted via its
// String method) for the net-id pool. The allocator itself only cares
// that holders compare equal, so callers pass whatever comparable key
// their layer already has.
type Holder string

// Pool leases slots numbered low..high (inclusive) to holders,
// following a first-free-or-same-holder rule.
type Pool struct {
	low, high int
	lease     map[int]Holder
}

// NewPool creates a pool with slots low..high inclusive.
func NewPool(low, high int) *Pool {
	return &Pool{low: low, high: high, lease: make(map[int]Holder)}
}

// ErrExhausted is returned when no slot is free or already held by the
// requester. Per spec §7 this is a resource-exhaustion condition: the
// caller logs it and lets the requester's own retry timer reclaim
// liveness, it is never fatal.
var ErrExhausted = fmt.Errorf("allocator: no free slot")

// Lease returns the slot already held by holder if one exists;
// otherwise it leases the first free slot to holder. Calling Lease
// again with the same holder after a prior successful call returns the
// same slot (idempotent under duplicate requests, spec §4.4 and P6).
func (p *Pool) Lease(holder Holder) (int, error) {
	for slot := p.low; slot <= p.high; slot++ {
		if h, taken := p.lease[slot]; !taken || h == holder {
			p.lease[slot] = holder
			return slot, nil
		}
	}
	return 0, ErrExhausted
}

// Release frees holder's slot, if any, making it available again.
func (p *Pool) Release(holder Holder) {
	for slot, h := range p.lease {
		if h == holder {
			delete(p.lease, slot)
			return
		}
	}
}

// HolderOf reports the current holder of slot, if leased.
func (p *Pool) HolderOf(slot int) (Holder, bool) {
	h, ok := p.lease[slot]
	return h, ok
}
