package node

import "github.com/kprusa/wsnsim/address"

// MsgType tags a Packet's payload. Names are normative per spec §4.5.2.
type MsgType string

const (
	MsgProbe          MsgType = "PROBE"
	MsgHeartBeat      MsgType = "HEART_BEAT"
	MsgJoinRequest    MsgType = "JOIN_REQUEST"
	MsgJoinReply      MsgType = "JOIN_REPLY"
	MsgJoinAck        MsgType = "JOIN_ACK"
	MsgNetworkRequest MsgType = "NETWORK_REQUEST"
	MsgNetworkReply   MsgType = "NETWORK_REPLY"
	MsgNetworkUpdate  MsgType = "NETWORK_UPDATE"
	MsgTableShare     MsgType = "TABLE_SHARE"
	MsgIAmOrphan      MsgType = "I_AM_ORPHAN"
	MsgSensorData     MsgType = "SENSOR_DATA"
)

// Packet is the common envelope every message travels in (spec §9,
// Design Notes: "a tagged-variant packet type with a common envelope").
// Dest is the logical destination; canReceive admits a packet on
// NextHop when it is set and on Dest otherwise. DestGUI additionally pins a specific (possibly still-unaddressed)
// node for JOIN_REQUEST/JOIN_REPLY, which happen before the requester
// has a network address of its own.
type Packet struct {
	Type MsgType

	Dest    address.Address
	NextHop address.Address

	Source    address.Address
	SourceGUI int
	DestGUI   int

	HopCount int

	Payload any
}

// HeartbeatPayload is carried by MsgHeartBeat.
type HeartbeatPayload struct {
	Role   Role
	ChAddr address.Address
}

// JoinReplyPayload is carried by MsgJoinReply.
type JoinReplyPayload struct {
	AssignedAddr address.Address
	RootAddr     address.Address
	TxPower      int
	HopCount     int
}

// NetworkReplyPayload is carried by MsgNetworkReply.
type NetworkReplyPayload struct {
	AssignedNetAddr uint8
}

// NetworkUpdatePayload is carried by MsgNetworkUpdate.
type NetworkUpdatePayload struct {
	ChildNetworks []uint8
}

// MeshShareEntry is one row of a TABLE_SHARE payload: a neighbor the
// sharer has heard at exactly MESH_HOP_N hops (spec §4.5.6).
type MeshShareEntry struct {
	GUI              int
	Addr             address.Address
	ChAddr           address.Address
	Role             Role
	RootHopCount     int
	NeighborHopCount int
}

// TableSharePayload is carried by MsgTableShare.
type TableSharePayload struct {
	Entries []MeshShareEntry
}

// SensorDataPayload is carried by MsgSensorData.
type SensorDataPayload struct {
	Data string
}
