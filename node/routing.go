package node

import (
	"github.com/kprusa/wsnsim/address"
	"github.com/kprusa/wsnsim/trace"
)

// Address is a package-local alias so routing's next-hop signatures
// read the way the rest of this file does.
type Address = address.Address

// forwardOrHandle is the entry point for tree-routed message types
// (NETWORK_REQUEST, NETWORK_REPLY, SENSOR_DATA): if this node is the
// packet's logical destination it runs the handler, otherwise it
// resolves the next hop and re-sends (spec §4.5.5).
func (n *Node) forwardOrHandle(p *Packet, handler func(*Packet)) {
	if n.isFinalDest(p) {
		handler(p)
		return
	}
	n.forward(p)
}

// forward resolves the next hop for p.Dest and re-sends it one hop
// closer. A node with no route (mid-repair, with an expired parent
// entry) drops the packet; the sender's own retry timer will try again
// once the route heals (spec §4.5.5, §7).
func (n *Node) forward(p *Packet) {
	nextHop, pathType, ok := n.resolveNextHop(p.Dest)
	if !ok {
		n.log.WithField("dest", p.Dest).Debug("no route to destination, dropping")
		return
	}
	p.NextHop = nextHop
	n.rec.RecordRoute(trace.PacketRouteRow{
		Time:       n.sim.Now(),
		PacketType: string(p.Type),
		Source:     p.Source.String(),
		Current:    n.addr.String(),
		NextHop:    nextHop.String(),
		Dest:       p.Dest.String(),
		HopCount:   n.hopCount,
		PathType:   pathType,
	})
	n.send(p)
}

// resolveNextHop implements the priority list of spec §4.5.5: a
// destination inside this node's own net routes directly; one inside a
// child's reported net set routes down to that child; anything else
// routes up to the parent's ch_addr. A direct or mesh-learned neighbor
// entry exactly matching dest always overrides the tree choice.
func (n *Node) resolveNextHop(dest Address) (Address, trace.PathType, bool) {
	nextHop, pathType, ok := n.treeRoute(dest)
	if override, overridePath, found := n.meshOrDirectOverride(dest); found {
		return override, overridePath, true
	}
	return nextHop, pathType, ok
}

func (n *Node) treeRoute(dest Address) (Address, trace.PathType, bool) {
	if n.chAddr != (Address{}) && dest.NetAddr == n.chAddr.NetAddr {
		return dest, trace.PathTree, true
	}
	for _, childGUI := range n.childNetOrder {
		if n.childNetworks[childGUI].contains(dest.NetAddr) {
			if child, ok := n.neighbors[childGUI]; ok {
				return child.Addr, trace.PathTree, true
			}
		}
	}
	if n.role != Root {
		if parent, ok := n.neighbors[n.parentGUI]; ok {
			return parent.ChAddr, trace.PathTree, true
		}
	}
	return Address{}, "", false
}

func (n *Node) meshOrDirectOverride(dest Address) (Address, trace.PathType, bool) {
	for _, nb := range n.neighbors {
		if nb.Addr != dest {
			continue
		}
		if nb.NeighborHopCount <= 1 {
			return dest, trace.PathDirect, true
		}
		return nb.NextHop, trace.PathMesh, true
	}
	if n.members[dest] {
		return dest, trace.PathDirect, true
	}
	return Address{}, "", false
}

// handleSensorDataLocal is the terminal handler for a SENSOR_DATA
// packet that has arrived at its destination.
func (n *Node) handleSensorDataLocal(p *Packet) {
	sd := p.Payload.(SensorDataPayload)
	n.log.WithField("from", p.Source).WithField("data", sd.Data).Info("sensor data delivered")
}

// SendSensorData originates an application-level SENSOR_DATA packet
// toward dest, tree-routed like any other payload (spec §4.5.5,
// "SENSOR/SENSOR_DATA are synonyms for the same application payload").
func (n *Node) SendSensorData(dest Address, data string) {
	n.forward(&Packet{Type: MsgSensorData, Dest: dest, Source: n.addr, SourceGUI: n.gui, Payload: SensorDataPayload{Data: data}})
}

// armTableShare starts this node's periodic mesh table exchange (spec
// §4.5.6).
func (n *Node) armTableShare() {
	n.SetTimer("TABLE_SHARE", n.cfg.TableShareInterval, n.onTableShareFire)
}

// onTableShareFire shares every neighbor entry heard at exactly
// MESH_HOP_N hops with each direct neighbor, letting mesh knowledge
// propagate one hop per round without unbounded growth (spec §4.5.6).
func (n *Node) onTableShareFire() {
	var entries []MeshShareEntry
	for gui, nb := range n.neighbors {
		if nb.NeighborHopCount == n.cfg.MeshHopN {
			entries = append(entries, MeshShareEntry{
				GUI: gui, Addr: nb.Addr, ChAddr: nb.ChAddr, Role: nb.Role,
				RootHopCount: nb.RootHopCount, NeighborHopCount: nb.NeighborHopCount,
			})
		}
	}
	if len(entries) > 0 {
		for _, nb := range n.neighbors {
			if nb.NeighborHopCount != 1 {
				continue
			}
			n.send(&Packet{Type: MsgTableShare, Dest: nb.Addr, NextHop: nb.Addr, Source: n.addr, Payload: TableSharePayload{Entries: entries}})
		}
	}
	n.SetTimer("TABLE_SHARE", n.cfg.TableShareInterval, n.onTableShareFire)
}

// handleTableShare merges every entry not already present in this
// node's own neighbor table, one hop further than the sharer held it,
// rejecting anything beyond MESH_HOP_N+1 as a protocol invariant
// violation (spec §4.5.6).
func (n *Node) handleTableShare(p *Packet) {
	ts := p.Payload.(TableSharePayload)
	for _, e := range ts.Entries {
		if e.GUI == n.gui {
			continue
		}
		n.mergeMeshEntry(e, p.Source)
	}
}

func (n *Node) mergeMeshEntry(e MeshShareEntry, shareSource Address) {
	if _, exists := n.neighbors[e.GUI]; exists {
		return
	}
	hop := e.NeighborHopCount + 1
	if hop > n.cfg.MeshHopN+1 {
		n.log.WithField("neighbor_hop_count", hop).Panic("mesh hop count exceeds MESH_HOP_N+1")
	}
	n.neighbors[e.GUI] = &NeighborEntry{
		GUI: e.GUI, Addr: e.Addr, ChAddr: e.ChAddr, Role: e.Role,
		RootHopCount: e.RootHopCount, ArrivalTime: n.sim.Now(),
		NeighborHopCount: hop, NextHop: shareSource,
	}
}
