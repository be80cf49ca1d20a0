package engine

import "testing"

func TestTopologyIndex_NeighborsSortedByDistance(t *testing.T) {
	idx := NewTopologyIndex()
	a := &fakePeer{gui: 0, x: 0, y: 0, txRange: 1000}
	b := &fakePeer{gui: 1, x: 30, y: 0, txRange: 1000}
	c := &fakePeer{gui: 2, x: 10, y: 0, txRange: 1000}

	idx.AddNode(a)
	idx.AddNode(b)
	idx.AddNode(c)

	neighbors := idx.Neighbors(0)
	if len(neighbors) != 2 {
		t.Fatalf("len(neighbors) = %d, want 2", len(neighbors))
	}
	if neighbors[0].peer.GUI() != 2 || neighbors[1].peer.GUI() != 1 {
		t.Errorf("neighbors = %v, want [2 1] (nearest first)", neighborGUIs(neighbors))
	}
}

func TestTopologyIndex_NeverContainsSelf(t *testing.T) {
	idx := NewTopologyIndex()
	a := &fakePeer{gui: 0, x: 0, y: 0, txRange: 1000}
	idx.AddNode(a)
	for _, n := range idx.Neighbors(0) {
		if n.peer.GUI() == 0 {
			t.Error("a node must never appear in its own neighbor list (spec I5)")
		}
	}
}

func TestTopologyIndex_MoveRepositions(t *testing.T) {
	idx := NewTopologyIndex()
	a := &fakePeer{gui: 0, x: 0, y: 0, txRange: 1000}
	b := &fakePeer{gui: 1, x: 30, y: 0, txRange: 1000}
	idx.AddNode(a)
	idx.AddNode(b)

	a.x, a.y = 100, 0
	idx.Move(a)

	neighbors := idx.Neighbors(1)
	if len(neighbors) != 1 || neighbors[0].distance != 70 {
		t.Errorf("neighbors(1) after move = %v, want distance 70", neighbors)
	}
}

func neighborGUIs(list []neighborEntry) []int {
	out := make([]int, len(list))
	for i, n := range list {
		out[i] = n.peer.GUI()
	}
	return out
}
