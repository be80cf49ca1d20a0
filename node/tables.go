package node

import "github.com/kprusa/wsnsim/address"

// NeighborEntry caches the last-heard state of a peer: either directly
// (neighbor_hop_count=1, learned from HEART_BEAT) or via mesh table
// sharing (neighbor_hop_count up to MESH_HOP_N+1). Spec §3, "Tables".
type NeighborEntry struct {
	GUI    int
	Addr   address.Address
	ChAddr address.Address
	Role   Role

	// RootHopCount is the neighbor's own distance from the root, as
	// advertised in its HEART_BEAT.
	RootHopCount int

	ArrivalTime float64
	Distance    float64

	// NeighborHopCount is this node's mesh distance to the neighbor:
	// 1 when heard directly, up to MESH_HOP_N+1 when learned via
	// TABLE_SHARE (spec §4.5.6).
	NeighborHopCount int

	// NextHop is the address to forward through to reach this entry
	// when NeighborHopCount > 1 (a mesh shortcut, spec §4.5.5 point 4).
	NextHop address.Address
}

// childNetworkSet tracks the net-addrs reachable through one child CH,
// preserving first-insertion order so routing's child-cluster scan
// (spec §4.5.5 point 3) matches the reference's mapping-iteration
// order.
type childNetworkSet struct {
	order []uint8
	has   map[uint8]bool
}

func newChildNetworkSet() *childNetworkSet {
	return &childNetworkSet{has: make(map[uint8]bool)}
}

func (s *childNetworkSet) add(net uint8) {
	if s.has[net] {
		return
	}
	s.has[net] = true
	s.order = append(s.order, net)
}

func (s *childNetworkSet) contains(net uint8) bool {
	return s.has[net]
}

func (s *childNetworkSet) list() []uint8 {
	return append([]uint8(nil), s.order...)
}
