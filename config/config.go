// Package config decodes the simulator's parameter bundle (spec §6)
// from YAML, the way getployz-ployz's adapters decode their layered
// YAML config with gopkg.in/yaml.v3, applying literal defaults for any
// key the file omits (mirroring the teacher's own literal constants in
// main.go).
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// RepairMethod selects the orphan-repair strategy of spec §4.5.8.
type RepairMethod string

const (
	AllOrphan         RepairMethod = "ALL_ORPHAN"
	FindAnotherParent RepairMethod = "FIND_ANOTHER_PARENT"
)

// Config is the full parameter bundle named in spec §6.
type Config struct {
	// Radio / topology.
	NodeTxRanges      map[int]float64 `yaml:"node_tx_ranges"`
	NodeDefaultTxPower int            `yaml:"node_default_tx_power"`
	TxPowerLevels     int             `yaml:"tx_power_levels"`
	NodeLossChance    float64         `yaml:"node_loss_chance"`
	TotalBits         int             `yaml:"total_bits"`
	NumOfChildren     int             `yaml:"num_of_children"`

	// Simulation.
	SimNodeCount           int     `yaml:"sim_node_count"`
	SimNodePlacingCellSize float64 `yaml:"sim_node_placing_cell_size"`
	SimDuration            float64 `yaml:"sim_duration"`
	SimTimeScale           float64 `yaml:"sim_time_scale"`
	SimTerrainSize         float64 `yaml:"sim_terrain_size"`
	SimVisualization       bool    `yaml:"sim_visualization"`
	Scale                  float64 `yaml:"scale"`
	Seed                   int64   `yaml:"seed"`
	NodeArrivalMax         float64 `yaml:"node_arrival_max"`

	// Protocol.
	HeartBeatInterval      float64      `yaml:"heart_beat_time_interval"`
	JoinRequestInterval    float64      `yaml:"join_request_time_interval"`
	SleepProbeInterval     float64      `yaml:"sleep_mode_probe_time_interval"`
	DataInterval           float64      `yaml:"data_interval"`
	MeshHopN               int          `yaml:"mesh_hop_n"`
	TableShareInterval     float64      `yaml:"table_share_interval"`
	RepairingMethod        RepairMethod `yaml:"repairing_method"`
	ExportCHCSVInterval    float64      `yaml:"export_ch_csv_interval"`
	ExportNeighborCSVInterval float64   `yaml:"export_neighbor_csv_interval"`
	ProbeThreshold         int          `yaml:"probe_threshold"`
}

// NumOfClusters implements the formula in spec §6:
// (1 << (TOTAL_BITS - ceil(log2(NUM_OF_CHILDREN)))) - 1.
func (c Config) NumOfClusters() int {
	bits := int(math.Ceil(math.Log2(float64(c.NumOfChildren))))
	return (1 << (c.TotalBits - bits)) - 1
}

// Default returns the bundle's literal defaults, matching the values
// the teacher hard-codes in main.go and the ranges named in spec §6
// and supplemented from original_source/wsnlab/source/config.py.
func Default() Config {
	return Config{
		NodeTxRanges: map[int]float64{
			0: 30,
			1: 60,
			2: 100,
			3: 150,
		},
		NodeDefaultTxPower: 2,
		TxPowerLevels:      4,
		NodeLossChance:     0,
		TotalBits:          16,
		NumOfChildren:      253,

		SimNodeCount:           20,
		SimNodePlacingCellSize: 50,
		SimDuration:            600,
		SimTimeScale:           0,
		SimTerrainSize:         500,
		SimVisualization:       false,
		Scale:                  1,
		Seed:                   1,
		NodeArrivalMax:         5,

		HeartBeatInterval:         10,
		JoinRequestInterval:       2,
		SleepProbeInterval:        1,
		DataInterval:              30,
		MeshHopN:                  2,
		TableShareInterval:        15,
		RepairingMethod:           FindAnotherParent,
		ExportCHCSVInterval:       30,
		ExportNeighborCSVInterval: 30,
		ProbeThreshold:            10,
	}
}

// Load reads a YAML config file, applying Default() for any key the
// file omits (a key the file sets explicitly, even to zero, overrides
// the default). An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	// Decode on top of the defaults so a partial file only overrides
	// the keys it names.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a coherent
// simulation (negative intervals, a children count that yields zero
// clusters, etc). This is the one config-time error path; everything
// else in this system follows the discrete-event error policy of §7.
func (c Config) Validate() error {
	if c.SimNodeCount <= 0 {
		return fmt.Errorf("sim_node_count must be positive, got %d", c.SimNodeCount)
	}
	if c.HeartBeatInterval <= 0 {
		return fmt.Errorf("heart_beat_time_interval must be positive, got %v", c.HeartBeatInterval)
	}
	if c.JoinRequestInterval <= 0 {
		return fmt.Errorf("join_request_time_interval must be positive, got %v", c.JoinRequestInterval)
	}
	if c.NodeLossChance < 0 || c.NodeLossChance >= 1 {
		return fmt.Errorf("node_loss_chance must be in [0,1), got %v", c.NodeLossChance)
	}
	if c.NumOfChildren <= 0 {
		return fmt.Errorf("num_of_children must be positive, got %d", c.NumOfChildren)
	}
	if c.NumOfClusters() <= 0 {
		return fmt.Errorf("num_of_children=%d produces zero clusters for total_bits=%d", c.NumOfChildren, c.TotalBits)
	}
	if c.MeshHopN < 0 {
		return fmt.Errorf("mesh_hop_n must be >= 0, got %d", c.MeshHopN)
	}
	if _, ok := c.NodeTxRanges[c.NodeDefaultTxPower]; !ok {
		return fmt.Errorf("node_default_tx_power %d has no entry in node_tx_ranges", c.NodeDefaultTxPower)
	}
	switch c.RepairingMethod {
	case AllOrphan, FindAnotherParent:
	default:
		return fmt.Errorf("repairing_method must be ALL_ORPHAN or FIND_ANOTHER_PARENT, got %q", c.RepairingMethod)
	}
	return nil
}
