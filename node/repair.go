package node

import (
	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/config"
)

// armExpiryScan starts the periodic neighbor-table sweep that detects a
// silent (not explicitly orphaned) parent: an entry is stale once
// 3*HEART_BEAT_TIME_INTERVAL has passed since it was last heard (spec
// §4.5.8).
func (n *Node) armExpiryScan() {
	n.SetTimer("EXPIRY_SCAN", n.cfg.HeartBeatInterval, n.onExpiryScan)
}

func (n *Node) onExpiryScan() {
	threshold := 3 * n.cfg.HeartBeatInterval
	now := n.sim.Now()
	parentLost := false
	for gui, nb := range n.neighbors {
		if now-nb.ArrivalTime <= threshold {
			continue
		}
		delete(n.neighbors, gui)
		n.removeCandidateParent(gui)
		if gui == n.parentGUI {
			parentLost = true
		}
	}
	if parentLost {
		n.handleParentLoss()
	}
	if n.role == Registered || n.role == ClusterHead {
		n.armExpiryScan()
	}
}

// handleParentLoss reacts to losing the route upward, either by
// broadcasting I_AM_ORPHAN and falling all the way back to probing
// (ALL_ORPHAN), or by trying another candidate parent first and only
// orphaning once none remain (FIND_ANOTHER_PARENT); spec §4.5.8.
func (n *Node) handleParentLoss() {
	switch n.cfg.RepairingMethod {
	case config.AllOrphan:
		n.broadcastOrphan()
		n.becomeUnregistered()
	case config.FindAnotherParent:
		if len(n.candidateParents) > 0 {
			n.selectAndJoin()
			return
		}
		n.broadcastOrphan()
		n.becomeUnregistered()
	}
}

func (n *Node) broadcastOrphan() {
	n.send(&Packet{Type: MsgIAmOrphan, Dest: address.Broadcast, Source: n.addr, SourceGUI: n.gui})
}

// handleIAmOrphan cascades an orphan announcement down the tree: a
// child hearing its own parent declare itself orphaned immediately
// applies the same repair rule, rather than waiting out its own
// expiry timeout (spec §4.5.8).
func (n *Node) handleIAmOrphan(p *Packet) {
	if p.SourceGUI != n.parentGUI {
		return
	}
	delete(n.neighbors, p.SourceGUI)
	n.removeCandidateParent(p.SourceGUI)
	n.handleParentLoss()
}
