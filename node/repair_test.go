package node

import (
	"testing"

	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/config"
	"github.com/kprusa/wsnsim/engine"
	"github.com/kprusa/wsnsim/trace"
)

func TestOnExpiryScanEvictsStaleNeighborAndTriggersParentLoss(t *testing.T) {
	cfg := config.Default()
	cfg.RepairingMethod = config.FindAnotherParent
	cfg.HeartBeatInterval = 10
	sim := engine.New()

	n := New(Params{GUI: 1}, &cfg, sim, trace.NopRecorder{})
	sim.Topology.AddNode(n)
	n.role = Registered
	n.parentGUI = 2
	n.candidateParents = nil
	n.neighbors[2] = &NeighborEntry{GUI: 2, ArrivalTime: -100, Addr: address.ClusterHead(5), ChAddr: address.ClusterHead(5)}

	n.onExpiryScan()

	if _, stillThere := n.neighbors[2]; stillThere {
		t.Error("stale neighbor entry should have been evicted")
	}
	if n.role != Undiscovered {
		t.Errorf("role = %v, want Undiscovered after losing sole parent with no candidates (FIND_ANOTHER_PARENT falls back to orphan)", n.role)
	}
}

func TestHandleIAmOrphanCascadesOnlyFromOwnParent(t *testing.T) {
	cfg := config.Default()
	cfg.RepairingMethod = config.AllOrphan
	sim := engine.New()

	n := New(Params{GUI: 1}, &cfg, sim, trace.NopRecorder{})
	sim.Topology.AddNode(n)
	n.role = Registered
	n.parentGUI = 2
	n.neighbors[2] = &NeighborEntry{GUI: 2}
	n.neighbors[3] = &NeighborEntry{GUI: 3}

	n.handleIAmOrphan(&Packet{Type: MsgIAmOrphan, SourceGUI: 3})
	if n.role != Registered {
		t.Errorf("an orphan announcement from a non-parent neighbor must not affect role, got %v", n.role)
	}

	n.handleIAmOrphan(&Packet{Type: MsgIAmOrphan, SourceGUI: 2})
	if n.role != Undiscovered {
		t.Errorf("role = %v, want Undiscovered after own parent announced orphan (ALL_ORPHAN)", n.role)
	}
}

func TestHandleParentLossFindAnotherParentPrefersCandidate(t *testing.T) {
	cfg := config.Default()
	cfg.RepairingMethod = config.FindAnotherParent
	sim := engine.New()

	n := New(Params{GUI: 1}, &cfg, sim, trace.NopRecorder{})
	sim.Topology.AddNode(n)
	n.role = Registered
	n.parentGUI = 2
	n.candidateParents = []int{3}
	n.neighbors[3] = &NeighborEntry{GUI: 3, Addr: address.ClusterHead(9), RootHopCount: 1}

	n.handleParentLoss()

	if n.role != Registered {
		t.Errorf("role = %v, want Registered (still mid re-join, not yet torn down)", n.role)
	}
}
