// Package node implements the Node Base (timers, sleep gating,
// send/receive plumbing) and the Protocol State Machine (roles,
// message handlers, tables, routing, repair) of spec §4.3-§4.5. A Node
// is the only type in this system that satisfies engine.Peer; the
// kernel never knows anything about addresses, roles, or clusters.
package node

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/allocator"
	"github.com/kprusa/wsnsim/config"
	"github.com/kprusa/wsnsim/engine"
	"github.com/kprusa/wsnsim/trace"
)

// InfiniteHops is the hop_count a node starts with before it joins a
// tree (spec §3: "hop_count (distance in hops from root; initialised ∞)").
const InfiniteHops = math.MaxInt32

// noParent is the sentinel parentGUI value meaning "no parent selected".
const noParent = -1

// Node is a single simulated WSN node: identity, radio, addressing,
// lifecycle flags, and every table named in spec §3.
type Node struct {
	gui  int
	x, y float64

	cfg *config.Config
	sim *engine.Simulation
	rec trace.Recorder
	log *logrus.Entry

	txPower int
	txRange float64

	addr      address.Address
	chAddr    address.Address
	parentGUI int
	rootAddr  address.Address
	hopCount  int

	role              Role
	isSleep           bool
	isRootEligible    bool
	probeCounter      int
	longRetry         bool
	netRequestPending bool

	neighbors        map[int]*NeighborEntry
	candidateParents []int
	members          map[address.Address]bool
	childNetworks    map[int]*childNetworkSet
	childNetOrder    []int
	receivedJR       []int

	timers *timerRegistry

	netPool  *allocator.Pool // held only by ROOT
	nodePool *allocator.Pool // held by every CH and ROOT

	wakeUpTime     float64
	registeredTime float64
}

// Params bundles a Node's construction-time parameters.
type Params struct {
	GUI            int
	X, Y           float64
	TxPower        int
	IsRootEligible bool
}

// New creates a Node wired to a running Simulation. The node starts
// UNDISCOVERED and asleep; ARRIVAL (armed by the caller, typically via
// ScheduleArrival) wakes it.
func New(p Params, cfg *config.Config, sim *engine.Simulation, rec trace.Recorder) *Node {
	rng, ok := cfg.NodeTxRanges[p.TxPower]
	if !ok {
		rng = cfg.NodeTxRanges[cfg.NodeDefaultTxPower]
	}
	n := &Node{
		gui:              p.GUI,
		x:                p.X,
		y:                p.Y,
		cfg:              cfg,
		sim:              sim,
		rec:              rec,
		log:              sim.Logger().WithField("gui", p.GUI),
		txPower:          p.TxPower,
		txRange:          rng,
		parentGUI:        noParent,
		hopCount:         InfiniteHops,
		role:             Undiscovered,
		isSleep:          true,
		isRootEligible:   p.IsRootEligible,
		neighbors:        make(map[int]*NeighborEntry),
		members:          make(map[address.Address]bool),
		childNetworks:    make(map[int]*childNetworkSet),
		timers:           newTimerRegistry(),
	}
	return n
}

// --- engine.Peer ---

func (n *Node) GUI() int                     { return n.gui }
func (n *Node) Position() (float64, float64) { return n.x, n.y }
func (n *Node) TxRange() float64             { return n.txRange }

// Deliver is called by the kernel once per in-range neighbor, after
// propagation delay. Sleep gating (spec §4.3, on_receive_check) means
// a sleeping node drops the packet before it ever reaches a handler.
func (n *Node) Deliver(now, distance float64, pck any) {
	if n.isSleep {
		return
	}
	p, ok := pck.(*Packet)
	if !ok {
		return
	}
	if !n.canReceive(p) {
		return
	}
	n.handle(p, distance)
}

// matches implements spec §4.3's can_receive predicate against a
// single address: global broadcast, this node's own addr, its
// ch_addr, or a local-net broadcast matching either net.
func (n *Node) matches(dest address.Address) bool {
	if dest.IsBroadcast() {
		return true
	}
	if dest == n.addr {
		return true
	}
	if n.addr != (address.Address{}) && dest == n.chAddr {
		return true
	}
	if dest.IsLocalBroadcast() {
		if n.addr != (address.Address{}) && dest.NetAddr == n.addr.NetAddr {
			return true
		}
		if n.chAddr != (address.Address{}) && dest.NetAddr == n.chAddr.NetAddr {
			return true
		}
	}
	return false
}

// canReceive is the radio-layer admission test for an incoming packet:
// a multi-hop tree-routed packet is radio-addressed to NextHop for
// this leg, while single-hop messages carry no NextHop and are
// evaluated against Dest directly.
func (n *Node) canReceive(p *Packet) bool {
	target := p.NextHop
	if target == (address.Address{}) {
		target = p.Dest
	}
	return n.matches(target)
}

// isFinalDest reports whether this node is the logical (not just
// radio-layer) destination of a tree-routed packet.
func (n *Node) isFinalDest(p *Packet) bool {
	return n.matches(p.Dest)
}

// send broadcasts pck through the kernel from this node's position.
func (n *Node) send(pck *Packet) {
	pck.SourceGUI = n.gui
	if pck.Source == (address.Address{}) {
		pck.Source = n.addr
	}
	n.sim.Send(n, pck)
}

// resetTables clears every table on a transition to UNREGISTERED (spec
// §3, "Lifecycles"). A node that was a CLUSTER_HEAD keeps its own
// cluster identity (addr, ch_addr, member/child-network tables, node
// pool) across the reset: losing a route upward dissolves the node's
// place in the tree, not the cluster it already heads.
func (n *Node) resetTables(preserveClusterIdentity bool) {
	n.neighbors = make(map[int]*NeighborEntry)
	n.candidateParents = nil
	n.parentGUI = noParent
	n.hopCount = InfiniteHops
	n.rootAddr = address.Address{}
	n.KillTimer("NETWORK_REQUEST")
	n.netRequestPending = false
	if !preserveClusterIdentity {
		n.members = make(map[address.Address]bool)
		n.childNetworks = make(map[int]*childNetworkSet)
		n.childNetOrder = nil
		n.receivedJR = nil
		n.netPool = nil
		n.nodePool = nil
		n.addr = address.Address{}
		n.chAddr = address.Address{}
	}
}

// Role reports the node's current role.
func (n *Node) Role() Role { return n.role }

// Addr reports the node's current network address (zero value before
// registration).
func (n *Node) Addr() address.Address { return n.addr }

// ChAddr reports the node's cluster head's address.
func (n *Node) ChAddr() address.Address { return n.chAddr }

// HopCount reports the node's current distance from the root.
func (n *Node) HopCount() int { return n.hopCount }

// ParentGUI reports the gui of the node's current parent, or -1.
func (n *Node) ParentGUI() int { return n.parentGUI }

// IsAsleep reports the node's sleep flag.
func (n *Node) IsAsleep() bool { return n.isSleep }

// handle de-multiplexes a packet to its handler (spec §4.5.2, §9:
// "pattern-match in the handler").
func (n *Node) handle(p *Packet, distance float64) {
	switch p.Type {
	case MsgProbe:
		n.handleProbe(p)
	case MsgHeartBeat:
		n.handleHeartbeat(p, distance)
	case MsgJoinRequest:
		n.handleJoinRequest(p)
	case MsgJoinReply:
		n.handleJoinReply(p)
	case MsgJoinAck:
		n.handleJoinAck(p)
	case MsgNetworkRequest:
		n.forwardOrHandle(p, n.handleNetworkRequestLocal)
	case MsgNetworkReply:
		n.forwardOrHandle(p, n.handleNetworkReplyLocal)
	case MsgSensorData:
		n.forwardOrHandle(p, n.handleSensorDataLocal)
	case MsgNetworkUpdate:
		n.handleNetworkUpdate(p)
	case MsgTableShare:
		n.handleTableShare(p)
	case MsgIAmOrphan:
		n.handleIAmOrphan(p)
	default:
		n.log.WithField("msg_type", p.Type).Panic("node: unknown message type")
	}
}
