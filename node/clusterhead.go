package node

import (
	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/allocator"
)

// ensureNetworkRequested starts (if not already pending) the
// NETWORK_REQUEST/NETWORK_REPLY round trip that promotes a REGISTERED
// node to CLUSTER_HEAD once it has a would-be child of its own (spec
// §4.5.4).
func (n *Node) ensureNetworkRequested() {
	if n.netRequestPending {
		return
	}
	n.netRequestPending = true
	n.sendNetworkRequest()
}

func (n *Node) sendNetworkRequest() {
	n.forward(&Packet{Type: MsgNetworkRequest, Dest: address.Root, Source: n.addr, SourceGUI: n.gui})
	n.SetTimer("NETWORK_REQUEST", n.cfg.JoinRequestInterval, n.retryNetworkRequest)
}

func (n *Node) retryNetworkRequest() {
	if !n.netRequestPending {
		return
	}
	n.sendNetworkRequest()
}

// handleNetworkRequestLocal runs only at the ROOT (the sole holder of
// the net-id pool): lease a net-id to the requester and route the
// reply back down the tree (spec §4.4, §4.5.4).
func (n *Node) handleNetworkRequestLocal(p *Packet) {
	if n.role != Root {
		return
	}
	slot, err := n.netPool.Lease(allocator.Holder(p.Source.String()))
	if err != nil {
		n.log.WithField("requester", p.Source).Warn("net-id pool exhausted, dropping NETWORK_REPLY")
		return
	}
	n.forward(&Packet{
		Type:    MsgNetworkReply,
		Dest:    p.Source,
		Source:  n.addr,
		Payload: NetworkReplyPayload{AssignedNetAddr: uint8(slot)},
	})
}

// handleNetworkReplyLocal completes CH promotion for the node that
// requested a net-id: it becomes the head of its own new net, replies
// to every JOIN_REQUEST it deferred while waiting, and announces its
// (so far empty) child-network set upward (spec §4.5.4, §4.5.7).
func (n *Node) handleNetworkReplyLocal(p *Packet) {
	nr := p.Payload.(NetworkReplyPayload)
	n.KillTimer("NETWORK_REQUEST")
	n.netRequestPending = false

	n.chAddr = address.ClusterHead(nr.AssignedNetAddr)
	n.addr = n.chAddr
	n.role = ClusterHead
	n.nodePool = allocator.NewPool(1, n.cfg.NumOfChildren)

	n.broadcastHeartbeat()
	n.sendNetworkUpdate()
	n.recordRegistered()

	pending := n.receivedJR
	n.receivedJR = nil
	for _, gui := range pending {
		n.allocateAndReply(gui)
	}
}

// sendNetworkUpdate reports this node's own net plus every net reachable
// through its children to its parent. ROOT has no parent to report to
// (spec §4.5.7).
func (n *Node) sendNetworkUpdate() {
	if n.role == Root {
		return
	}
	nets := []uint8{n.chAddr.NetAddr}
	for _, childGUI := range n.childNetOrder {
		nets = append(nets, n.childNetworks[childGUI].list()...)
	}
	parent, ok := n.neighbors[n.parentGUI]
	if !ok {
		return
	}
	n.send(&Packet{
		Type:    MsgNetworkUpdate,
		Dest:    parent.Addr,
		NextHop: parent.Addr,
		Source:  n.addr,
		Payload: NetworkUpdatePayload{ChildNetworks: nets},
	})
}

// handleNetworkUpdate merges a child's reported net set into this
// node's own child-network table and, if anything new was learned,
// re-propagates upward (spec §4.5.7).
func (n *Node) handleNetworkUpdate(p *Packet) {
	nu := p.Payload.(NetworkUpdatePayload)
	senderGUI := p.SourceGUI

	set, ok := n.childNetworks[senderGUI]
	if !ok {
		set = newChildNetworkSet()
		n.childNetworks[senderGUI] = set
		n.childNetOrder = append(n.childNetOrder, senderGUI)
	}
	changed := false
	for _, net := range nu.ChildNetworks {
		if !set.contains(net) {
			set.add(net)
			changed = true
		}
	}
	if changed {
		n.sendNetworkUpdate()
	}
}
