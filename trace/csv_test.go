package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCSVRecorder_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	r, err := NewCSVRecorder(dir)
	if err != nil {
		t.Fatalf("NewCSVRecorder() error = %v", err)
	}
	r.RecordRoute(PacketRouteRow{Time: 1, PacketType: "SENSOR_DATA", Source: "1.2", Current: "1.2", NextHop: "1.3", Dest: "1.3", HopCount: 2, PathType: PathDirect})
	r.RecordRoute(PacketRouteRow{Time: 2, PacketType: "SENSOR_DATA", Source: "1.2", Current: "1.2", NextHop: "1.3", Dest: "1.3", HopCount: 2, PathType: PathDirect})
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "packet_routes.csv"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows): %q", len(lines), string(data))
	}
	if lines[0] != "time,packet_type,source,current_node,next_hop,dest,hop_count,path_type" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestCSVRecorder_AppendsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	r1, _ := NewCSVRecorder(dir)
	r1.RecordRegistration(RegistrationRow{NodeID: 1, StartTime: 0, RegisteredTime: 10, DeltaTime: 10})
	r1.Close()

	r2, _ := NewCSVRecorder(dir)
	r2.RecordRegistration(RegistrationRow{NodeID: 2, StartTime: 0, RegisteredTime: 12, DeltaTime: 12})
	r2.Close()

	data, err := os.ReadFile(filepath.Join(dir, "registration_log.csv"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (one header, two rows): %v", len(lines), lines)
	}
}
