package engine

import "math"

// Peer is the subset of a node's behavior the kernel needs to place it
// in space, bound its radio, and hand it a packet. node.Node implements
// this; the engine package never imports node, so the dependency runs
// one way (node depends on engine), matching the cyclic-graph design
// note in spec §9 (nodes referenced only through ids/interfaces, never
// ownership pointers).
type Peer interface {
	GUI() int
	Position() (x, y float64)
	TxRange() float64
	Deliver(now, distance float64, pck any)
}

// neighborEntry is one row of a per-node neighbor-by-distance list.
type neighborEntry struct {
	distance float64
	peer     Peer
}

// TopologyIndex maintains, for every node, a list of (distance, peer)
// sorted ascending by distance, so packet dispatch can stop as soon as
// it walks past the sender's transmission range (spec §4.2).
type TopologyIndex struct {
	peers map[int]Peer
	lists map[int][]neighborEntry
}

// NewTopologyIndex creates an empty index.
func NewTopologyIndex() *TopologyIndex {
	return &TopologyIndex{
		peers: make(map[int]Peer),
		lists: make(map[int][]neighborEntry),
	}
}

func distance(a, b Peer) float64 {
	ax, ay := a.Position()
	bx, by := b.Position()
	dx, dy := ax-bx, ay-by
	return math.Sqrt(dx*dx + dy*dy)
}

// AddNode inserts p into the index: a fresh list is computed for p
// from every existing peer, and p is inserted/repositioned within
// every existing peer's own list (spec I5: a node never appears in its
// own list, so self is skipped both ways).
func (t *TopologyIndex) AddNode(p Peer) {
	gui := p.GUI()
	t.peers[gui] = p
	t.rebuildListFor(p)
	for otherGUI, other := range t.peers {
		if otherGUI == gui {
			continue
		}
		t.rebuildListFor(other)
	}
}

// Move recomputes the affected node's list from scratch and
// repositions it within every other node's list (spec §4.2).
func (t *TopologyIndex) Move(p Peer) {
	t.AddNode(p)
}

// rebuildListFor recomputes p's neighbor list from the full peer set.
func (t *TopologyIndex) rebuildListFor(p Peer) {
	gui := p.GUI()
	list := make([]neighborEntry, 0, len(t.peers))
	for otherGUI, other := range t.peers {
		if otherGUI == gui {
			continue
		}
		list = append(list, neighborEntry{distance: distance(p, other), peer: other})
	}
	sortByDistance(list)
	t.lists[gui] = list
}

func sortByDistance(list []neighborEntry) {
	// Small insertion sort: neighbor counts in this simulator's scale
	// (hundreds of nodes at most) make this cheap and keeps ties in a
	// stable, deterministic order (insertion order of the peer map
	// iteration is arbitrary, so ties on distance fall back to gui).
	for i := 1; i < len(list); i++ {
		j := i
		for j > 0 && less(list[j], list[j-1]) {
			list[j], list[j-1] = list[j-1], list[j]
			j--
		}
	}
}

func less(a, b neighborEntry) bool {
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.peer.GUI() < b.peer.GUI()
}

// Neighbors returns gui's neighbor list, sorted ascending by distance.
func (t *TopologyIndex) Neighbors(gui int) []neighborEntry {
	return t.lists[gui]
}

// Remove drops p from the index entirely (used for permanently killed
// nodes; a merely-sleeping node stays in the index so propagation
// delay/range accounting is unaffected by sleep state, per §4.3).
func (t *TopologyIndex) Remove(gui int) {
	delete(t.peers, gui)
	delete(t.lists, gui)
	for otherGUI, other := range t.peers {
		_ = otherGUI
		t.rebuildListFor(other)
	}
}
