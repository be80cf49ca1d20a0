package node

// Role is a node's position in the protocol state machine (spec §3).
type Role int

const (
	Undiscovered Role = iota
	Unregistered
	Registered
	ClusterHead
	Root
)

func (r Role) String() string {
	switch r {
	case Undiscovered:
		return "UNDISCOVERED"
	case Unregistered:
		return "UNREGISTERED"
	case Registered:
		return "REGISTERED"
	case ClusterHead:
		return "CLUSTER_HEAD"
	case Root:
		return "ROOT"
	default:
		return "UNKNOWN"
	}
}
