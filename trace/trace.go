// Package trace implements the append-only CSV row emitters named in
// spec §6: packet routing, registration timing, and the distance
// exports consumed by the out-of-scope analytics scripts in
// original_source/ (average_power_analysis.py, plot.py,
// measure_network_service_delay.py). The simulator core only ever
// writes rows through the Recorder interface; whether those rows land
// on disk, in memory, or nowhere is a concern of the recorder
// implementation the caller wires in.
package trace

// PathType labels how a hop's next_hop was resolved (spec §4.5.5).
type PathType string

const (
	PathTree   PathType = "TREE"
	PathDirect PathType = "DIRECT"
	PathMesh   PathType = "MESH"
)

// PacketRouteRow is one row of packet_routes.csv.
type PacketRouteRow struct {
	Time      float64
	PacketType string
	Source    string
	Current   string
	NextHop   string
	Dest      string
	HopCount  int
	PathType  PathType
}

// RegistrationRow is one row of registration_log.csv.
type RegistrationRow struct {
	NodeID        int
	StartTime     float64
	RegisteredTime float64
	DeltaTime     float64
}

// DistanceRow is one row of node_distances.csv / neighbor_distances.csv
// / clusterhead_distances.csv / node_distance_matrix.csv: a pairwise
// Euclidean distance between two node guis, the shape consumed by
// average_power_analysis.py in the original source.
type DistanceRow struct {
	GUIA     int
	GUIB     int
	Distance float64
}

// TopologyRow is one row of topology.csv: a snapshot of a node's
// addressing and tree position.
type TopologyRow struct {
	GUI       int
	NetAddr   uint8
	NodeAddr  uint8
	ParentGUI int
	HopCount  int
	Role      string
}

// Recorder is the sink every CSV trace file is written through. The
// core never opens files directly; a Recorder implementation (CSV to
// disk, or NopRecorder in tests) is injected at simulation-construction
// time.
type Recorder interface {
	RecordRoute(row PacketRouteRow)
	RecordRegistration(row RegistrationRow)
	RecordDistance(file string, row DistanceRow)
	RecordTopology(row TopologyRow)
}

// NopRecorder discards every row. It is the default for unit tests and
// any run that does not need trace output.
type NopRecorder struct{}

func (NopRecorder) RecordRoute(PacketRouteRow)             {}
func (NopRecorder) RecordRegistration(RegistrationRow)     {}
func (NopRecorder) RecordDistance(string, DistanceRow)     {}
func (NopRecorder) RecordTopology(TopologyRow)             {}

var _ Recorder = NopRecorder{}
