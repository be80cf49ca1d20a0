package node

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/config"
	"github.com/kprusa/wsnsim/trace"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(nullWriter{})
	return logrus.NewEntry(l)
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestResolveNextHop(t *testing.T) {
	cfg := config.Default()
	childSet := newChildNetworkSet()
	childSet.add(7)

	tests := []struct {
		name        string
		n           *Node
		dest        address.Address
		wantHop     address.Address
		wantPath    trace.PathType
		wantOK      bool
	}{
		{
			name: "cluster-local routes directly",
			n: &Node{
				cfg:    &cfg,
				chAddr: address.ClusterHead(3),
				neighbors: map[int]*NeighborEntry{},
			},
			dest:     address.New(3, 9),
			wantHop:  address.New(3, 9),
			wantPath: trace.PathTree,
			wantOK:   true,
		},
		{
			name: "child-network match routes down",
			n: &Node{
				cfg:           &cfg,
				chAddr:        address.ClusterHead(1),
				childNetworks: map[int]*childNetworkSet{42: childSet},
				childNetOrder: []int{42},
				neighbors: map[int]*NeighborEntry{
					42: {GUI: 42, Addr: address.ClusterHead(7)},
				},
			},
			dest:     address.New(7, 5),
			wantHop:  address.ClusterHead(7),
			wantPath: trace.PathTree,
			wantOK:   true,
		},
		{
			name: "default routes upward to parent's ch_addr",
			n: &Node{
				cfg:       &cfg,
				chAddr:    address.ClusterHead(1),
				parentGUI: 2,
				role:      Registered,
				neighbors: map[int]*NeighborEntry{
					2: {GUI: 2, ChAddr: address.Root},
				},
			},
			dest:     address.New(9, 9),
			wantHop:  address.Root,
			wantPath: trace.PathTree,
			wantOK:   true,
		},
		{
			name: "direct neighbor override beats tree default",
			n: &Node{
				cfg:       &cfg,
				chAddr:    address.ClusterHead(1),
				parentGUI: 2,
				role:      Registered,
				neighbors: map[int]*NeighborEntry{
					2:  {GUI: 2, ChAddr: address.Root},
					99: {GUI: 99, Addr: address.New(9, 9), NeighborHopCount: 1},
				},
			},
			dest:     address.New(9, 9),
			wantHop:  address.New(9, 9),
			wantPath: trace.PathDirect,
			wantOK:   true,
		},
		{
			name: "mesh neighbor override uses cached next hop",
			n: &Node{
				cfg:       &cfg,
				chAddr:    address.ClusterHead(1),
				parentGUI: 2,
				role:      Registered,
				neighbors: map[int]*NeighborEntry{
					2:  {GUI: 2, ChAddr: address.Root},
					99: {GUI: 99, Addr: address.New(9, 9), NeighborHopCount: 2, NextHop: address.New(4, 1)},
				},
			},
			dest:     address.New(9, 9),
			wantHop:  address.New(4, 1),
			wantPath: trace.PathMesh,
			wantOK:   true,
		},
		{
			name: "no route",
			n: &Node{
				cfg:       &cfg,
				chAddr:    address.ClusterHead(1),
				role:      Root,
				neighbors: map[int]*NeighborEntry{},
			},
			dest:   address.New(9, 9),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHop, gotPath, gotOK := tt.n.resolveNextHop(tt.dest)
			if gotOK != tt.wantOK {
				t.Fatalf("ok = %v, want %v", gotOK, tt.wantOK)
			}
			if !gotOK {
				return
			}
			if gotHop != tt.wantHop {
				t.Errorf("nextHop = %v, want %v", gotHop, tt.wantHop)
			}
			if gotPath != tt.wantPath {
				t.Errorf("pathType = %v, want %v", gotPath, tt.wantPath)
			}
		})
	}
}

func TestMergeMeshEntryRejectsBeyondMeshHopLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MeshHopN = 1
	n := &Node{cfg: &cfg, gui: 1, neighbors: map[int]*NeighborEntry{}, log: testLogger()}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for a mesh entry exceeding MESH_HOP_N+1")
		}
	}()
	n.mergeMeshEntry(MeshShareEntry{GUI: 2, NeighborHopCount: 2}, address.New(0, 1))
}

func TestMergeMeshEntryDoesNotOverwriteExisting(t *testing.T) {
	cfg := config.Default()
	n := &Node{
		cfg: &cfg,
		neighbors: map[int]*NeighborEntry{
			2: {GUI: 2, NeighborHopCount: 1},
		},
	}
	n.mergeMeshEntry(MeshShareEntry{GUI: 2, NeighborHopCount: 1}, address.New(0, 1))

	if n.neighbors[2].NeighborHopCount != 1 {
		t.Errorf("existing entry should not be overwritten by a mesh share, got hop count %d", n.neighbors[2].NeighborHopCount)
	}
}
