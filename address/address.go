// Package address implements the two-octet network address used to
// locate a node within the cluster tree: (net_addr, node_addr).
package address

import "fmt"

// Reserved node_addr values (see spec §3).
const (
	// BroadcastOctet is used in both fields to mean "every node".
	BroadcastOctet uint8 = 255

	// ClusterHeadOctet is the node_addr reserved for the cluster head
	// of a net.
	ClusterHeadOctet uint8 = 254
)

// Address is a pair of unsigned 8-bit fields. Equality is
// component-wise (the zero value, the struct's own == operator,
// already gives us that).
type Address struct {
	NetAddr  uint8
	NodeAddr uint8
}

// Broadcast is the sentinel (255,255) meaning "every node on every net".
var Broadcast = Address{NetAddr: BroadcastOctet, NodeAddr: BroadcastOctet}

// New builds an address from its two octets.
func New(net, node uint8) Address {
	return Address{NetAddr: net, NodeAddr: node}
}

// LocalBroadcast returns the local-net broadcast address for net.
func LocalBroadcast(net uint8) Address {
	return Address{NetAddr: net, NodeAddr: BroadcastOctet}
}

// ClusterHead returns the address of the cluster head of net.
func ClusterHead(net uint8) Address {
	return Address{NetAddr: net, NodeAddr: ClusterHeadOctet}
}

// IsBroadcast reports whether a is the global broadcast sentinel.
func (a Address) IsBroadcast() bool {
	return a == Broadcast
}

// IsLocalBroadcast reports whether a is a local-net broadcast, i.e.
// node_addr=255 with a concrete net_addr.
func (a Address) IsLocalBroadcast() bool {
	return a.NodeAddr == BroadcastOctet && a.NetAddr != BroadcastOctet
}

// IsClusterHead reports whether a denotes the cluster head of its net.
func (a Address) IsClusterHead() bool {
	return a.NodeAddr == ClusterHeadOctet
}

// Root is the well-known address of the network root: net 0, node 254.
var Root = Address{NetAddr: 0, NodeAddr: ClusterHeadOctet}

func (a Address) String() string {
	return fmt.Sprintf("%d.%d", a.NetAddr, a.NodeAddr)
}
