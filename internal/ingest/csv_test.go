package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/openlaps/lapdelta/internal/telemetry"
)

const fixture = `distance_m,time_s,speed_kmh
0.0,0.0,210.5
12.5,0.25,215.0
25.0,0.5,220.0
`

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lap.csv")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	stream, err := ReadCSV(path, "VER", "2023_monza_Q")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	want := &telemetry.Stream{
		Driver:  "VER",
		Session: "2023_monza_Q",
		Samples: []telemetry.Sample{
			{Distance: 0, Timestamp: 0, Speed: 210.5},
			{Distance: 12.5, Timestamp: 250 * time.Millisecond, Speed: 215},
			{Distance: 25, Timestamp: 500 * time.Millisecond, Speed: 220},
		},
	}
	if diff := cmp.Diff(want, stream); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConvertsSpeedUnits(t *testing.T) {
	stream, err := Read(strings.NewReader("distance_m,time_s,speed_mps\n0,0,10\n100,4,20\n"), "A", "s")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := stream.Samples[0].Speed; got != 36 {
		t.Errorf("speed = %v km/h, want 36", got)
	}
}

func TestReadHeaderIsCaseInsensitive(t *testing.T) {
	stream, err := Read(strings.NewReader("Distance_M, Time_S, Speed_KMH\n0,0,100\n50,2,120\n"), "A", "s")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if stream.Len() != 2 {
		t.Errorf("sample count = %d, want 2", stream.Len())
	}
}

func TestReadAllowsRepeatedDistances(t *testing.T) {
	// Repeated distance readings happen at near-zero speed; the resampler
	// deduplicates them, so ingest must pass them through.
	stream, err := Read(strings.NewReader("distance_m,time_s,speed_kmh\n0,0,1\n0,0.5,1\n5,1,30\n"), "A", "s")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if stream.Len() != 3 {
		t.Errorf("sample count = %d, want 3", stream.Len())
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty file", ""},
		{"header only", "distance_m,time_s,speed_kmh\n"},
		{"missing distance column", "d,time_s,speed_kmh\n0,0,1\n"},
		{"missing time column", "distance_m,t,speed_kmh\n0,0,1\n"},
		{"missing speed column", "distance_m,time_s,velocity\n0,0,1\n"},
		{"bad float", "distance_m,time_s,speed_kmh\n0,zero,1\n"},
		{"negative distance", "distance_m,time_s,speed_kmh\n-5,0,1\n"},
		{"unordered distance", "distance_m,time_s,speed_kmh\n100,0,1\n50,1,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.body), "A", "s"); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
