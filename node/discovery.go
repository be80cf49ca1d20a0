package node

import (
	"strconv"

	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/allocator"
	"github.com/kprusa/wsnsim/trace"
)

// ScheduleArrival arms the node's ARRIVAL event: a root-eligible node
// wakes almost immediately so it can finish probing before anyone else
// hears a HEART_BEAT; every other node wakes at a random offset in
// [0, NODE_ARRIVAL_MAX) (spec §4.5.3, §6).
func (n *Node) ScheduleArrival() {
	delay := n.sim.Rand().Float64() * n.cfg.NodeArrivalMax
	if n.isRootEligible {
		delay = 0.1
	}
	n.sim.ScheduleAfter(delay, n.onArrival)
}

// onArrival is the ARRIVAL handler: the node wakes, starts its clock
// for registration-delay tracking, and arms PROBE.
func (n *Node) onArrival() {
	n.isSleep = false
	n.wakeUpTime = n.sim.Now()
	n.probeCounter = 0
	n.longRetry = false
	n.armProbe()
}

func (n *Node) armProbe() {
	n.SetTimer("PROBE", n.cfg.SleepProbeInterval, n.onProbeFire)
}

// onProbeFire broadcasts PROBE up to th_probe times at SLEEP_MODE_PROBE_TIME_INTERVAL
// cadence; if the threshold is exhausted without ever hearing a
// HEART_BEAT, a root-eligible node promotes itself and everyone else
// falls back to a long, indefinite retry at 30x that cadence (spec
// §4.5.3).
func (n *Node) onProbeFire() {
	if n.role != Undiscovered {
		return
	}
	n.broadcastProbe()
	n.probeCounter++
	if n.probeCounter < n.cfg.ProbeThreshold {
		n.SetTimer("PROBE", n.cfg.SleepProbeInterval, n.onProbeFire)
		return
	}
	if n.isRootEligible {
		n.becomeRoot()
		return
	}
	n.longRetry = true
	n.SetTimer("PROBE", 30*n.cfg.SleepProbeInterval, n.onProbeFireLongRetry)
}

func (n *Node) onProbeFireLongRetry() {
	if n.role != Undiscovered {
		return
	}
	n.broadcastProbe()
	n.SetTimer("PROBE", 30*n.cfg.SleepProbeInterval, n.onProbeFireLongRetry)
}

func (n *Node) broadcastProbe() {
	n.send(&Packet{Type: MsgProbe, Dest: address.Broadcast})
}

func (n *Node) broadcastHeartbeat() {
	n.send(&Packet{
		Type:     MsgHeartBeat,
		Dest:     address.Broadcast,
		HopCount: n.hopCount,
		Payload:  HeartbeatPayload{Role: n.role, ChAddr: n.chAddr},
	})
}

func (n *Node) onHeartbeatFire() {
	n.broadcastHeartbeat()
	n.SetTimer("HEART_BEAT", n.cfg.HeartBeatInterval, n.onHeartbeatFire)
}

// handleProbe: a CH or ROOT answers a PROBE immediately rather than
// waiting for its own HEART_BEAT cadence, so a freshly-arrived neighbor
// doesn't have to wait out the full interval (spec §4.5.3).
func (n *Node) handleProbe(p *Packet) {
	if n.role == ClusterHead || n.role == Root {
		n.broadcastHeartbeat()
	}
}

// handleHeartbeat records the sender as a direct neighbor and, on the
// first HEART_BEAT this node ever hears, starts registration: cancel
// PROBE, move to UNREGISTERED, arm JOIN_REQUEST (spec §4.5.3).
func (n *Node) handleHeartbeat(p *Packet, distance float64) {
	hb := p.Payload.(HeartbeatPayload)
	n.upsertDirectNeighbor(p.SourceGUI, p.Source, hb.ChAddr, hb.Role, p.HopCount, distance)

	if n.role == Undiscovered {
		n.role = Unregistered
		n.KillTimer("PROBE")
		n.armJoinRequestTimer()
	}
	if n.role == Unregistered {
		n.addCandidateParent(p.SourceGUI, p.Source)
	}
}

// addCandidateParent adds a heard neighbor as a candidate parent unless
// it is already both a child network and a member of this node (spec
// §4.5.3 step 5, "unless already a member or child of this node").
func (n *Node) addCandidateParent(gui int, addr address.Address) {
	_, isChildNet := n.childNetworks[gui]
	if isChildNet && n.members[addr] {
		return
	}
	for _, g := range n.candidateParents {
		if g == gui {
			return
		}
	}
	n.candidateParents = append(n.candidateParents, gui)
}

func (n *Node) removeCandidateParent(gui int) {
	for i, g := range n.candidateParents {
		if g == gui {
			n.candidateParents = append(n.candidateParents[:i], n.candidateParents[i+1:]...)
			return
		}
	}
}

func (n *Node) armJoinRequestTimer() {
	n.SetTimer("JOIN_REQUEST", n.cfg.JoinRequestInterval, n.onJoinRequestFire)
}

// onJoinRequestFire selects the candidate parent minimising
// (root_hop_count, gui) and sends it a JOIN_REQUEST, retrying on the
// same cadence until a JOIN_REPLY arrives. With no candidates left, the
// node gives up and resumes probing (spec §4.5.3).
func (n *Node) onJoinRequestFire() {
	n.selectAndJoin()
}

func (n *Node) selectAndJoin() {
	if len(n.candidateParents) == 0 {
		n.becomeUnregistered()
		return
	}
	target := n.selectParent()
	n.sendJoinRequestTo(target)
	n.armJoinRequestTimer()
}

// selectParent picks the candidate minimising (root hop count, gui),
// lexicographically, matching the reference tie-break.
func (n *Node) selectParent() int {
	best := n.candidateParents[0]
	for _, gui := range n.candidateParents[1:] {
		bh, gh := n.neighbors[best].RootHopCount, n.neighbors[gui].RootHopCount
		if gh < bh || (gh == bh && gui < best) {
			best = gui
		}
	}
	return best
}

func (n *Node) sendJoinRequestTo(parentGUI int) {
	parent := n.neighbors[parentGUI]
	n.send(&Packet{Type: MsgJoinRequest, Dest: parent.Addr, DestGUI: parentGUI})
}

// becomeUnregistered resets this node's tree position (preserving its
// own cluster if it was a CLUSTER_HEAD) and resumes probing for a new
// parent (spec §4.5.3, §4.5.8).
func (n *Node) becomeUnregistered() {
	preserve := n.role == ClusterHead
	n.KillAllTimers()
	n.resetTables(preserve)
	n.role = Undiscovered
	n.probeCounter = 0
	n.longRetry = false
	n.armProbe()
}

// becomeRoot self-promotes a root-eligible node that exhausted PROBE
// without hearing any HEART_BEAT (spec §4.5.3).
func (n *Node) becomeRoot() {
	n.addr = address.Root
	n.chAddr = address.Root
	n.rootAddr = address.Root
	n.hopCount = 0
	n.role = Root
	n.netPool = allocator.NewPool(1, n.cfg.NumOfClusters()-1)
	n.nodePool = allocator.NewPool(1, n.cfg.NumOfChildren)
	n.onJoinedTree()
}

// handleJoinRequest dispatches on role: a CH/ROOT parent leases a
// node-id and replies directly; a plain REGISTERED node defers the
// request and requests its own net-id so it can become a CH (spec
// §4.5.3, §4.5.4).
func (n *Node) handleJoinRequest(p *Packet) {
	if p.DestGUI != n.gui {
		return
	}
	switch n.role {
	case ClusterHead, Root:
		n.allocateAndReply(p.SourceGUI)
	case Registered:
		n.receivedJR = append(n.receivedJR, p.SourceGUI)
		n.ensureNetworkRequested()
	default:
		// UNDISCOVERED/UNREGISTERED have no address to offer; ignore.
	}
}

// allocateAndReply leases a node-id for requesterGUI and replies. The
// requester has no addr yet, so it cannot be addressed by anything
// local-net-scoped; JOIN_REPLY goes out as a global broadcast and
// DestGUI disambiguates the intended recipient (spec §4.5.3).
func (n *Node) allocateAndReply(requesterGUI int) {
	slot, err := n.nodePool.Lease(allocator.Holder(guiHolder(requesterGUI)))
	if err != nil {
		n.log.WithField("requester", requesterGUI).Warn("node-id pool exhausted, dropping JOIN_REPLY")
		return
	}
	assigned := address.New(n.chAddr.NetAddr, uint8(slot))
	n.send(&Packet{
		Type:    MsgJoinReply,
		Dest:    address.Broadcast,
		DestGUI: requesterGUI,
		Source:  n.addr,
		Payload: JoinReplyPayload{AssignedAddr: assigned, RootAddr: n.rootAddr, TxPower: n.txPower, HopCount: n.hopCount + 1},
	})
}

// handleJoinReply completes registration for the requester named in
// DestGUI: adopt addr/parent/root/hop_count (unless this node is a
// CLUSTER_HEAD reattaching, which keeps its own addr/ch_addr), start
// the steady-state timers, and ack the parent (spec §4.5.3).
func (n *Node) handleJoinReply(p *Packet) {
	if p.DestGUI != n.gui {
		return
	}
	jr := p.Payload.(JoinReplyPayload)
	n.KillTimer("JOIN_REQUEST")
	n.parentGUI = p.SourceGUI
	n.rootAddr = jr.RootAddr
	n.hopCount = jr.HopCount

	alreadyCH := n.chAddr != (address.Address{})
	if !alreadyCH {
		n.addr = jr.AssignedAddr
		if parent, ok := n.neighbors[p.SourceGUI]; ok {
			n.chAddr = parent.ChAddr
		} else {
			n.chAddr = p.Source
		}
		n.role = Registered
	} else {
		n.role = ClusterHead
	}

	n.send(&Packet{Type: MsgJoinAck, Dest: p.Source})
	n.onJoinedTree()
}

// handleJoinAck lets a parent record a newly-joined direct member.
func (n *Node) handleJoinAck(p *Packet) {
	n.members[p.Source] = true
}

// onJoinedTree arms the steady-state timers shared by every role that
// has a place in the tree (REGISTERED, CLUSTER_HEAD, ROOT) and records
// the registration-delay trace row (spec §4.5.3, §6).
func (n *Node) onJoinedTree() {
	n.broadcastHeartbeat()
	n.SetTimer("HEART_BEAT", n.cfg.HeartBeatInterval, n.onHeartbeatFire)
	n.armExpiryScan()
	n.armTableShare()
	n.recordRegistered()
}

func (n *Node) recordRegistered() {
	n.registeredTime = n.sim.Now()
	n.rec.RecordRegistration(trace.RegistrationRow{
		NodeID:         n.gui,
		StartTime:      n.wakeUpTime,
		RegisteredTime: n.registeredTime,
		DeltaTime:      n.registeredTime - n.wakeUpTime,
	})
}

// upsertDirectNeighbor records a neighbor heard directly over radio
// (neighbor_hop_count=1, strictly better than any mesh-learned entry),
// always refreshing its arrival time.
func (n *Node) upsertDirectNeighbor(gui int, addr, chAddr address.Address, role Role, rootHop int, distance float64) {
	n.neighbors[gui] = &NeighborEntry{
		GUI:              gui,
		Addr:             addr,
		ChAddr:           chAddr,
		Role:             role,
		RootHopCount:     rootHop,
		ArrivalTime:      n.sim.Now(),
		Distance:         distance,
		NeighborHopCount: 1,
	}
}

func guiHolder(gui int) string {
	return "gui:" + strconv.Itoa(gui)
}
