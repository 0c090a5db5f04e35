package telemetry

import (
	"testing"
	"time"
)

func TestStreamAccessorsEmpty(t *testing.T) {
	var s Stream
	if s.Len() != 0 || s.MaxDistance() != 0 || s.LapTime() != 0 {
		t.Errorf("empty stream accessors: Len=%d MaxDistance=%v LapTime=%v, want zeros",
			s.Len(), s.MaxDistance(), s.LapTime())
	}
}

func TestStreamAccessors(t *testing.T) {
	s := Stream{Samples: []Sample{
		{Distance: 0, Timestamp: 10 * time.Minute, Speed: 100},
		{Distance: 2500, Timestamp: 10*time.Minute + 35*time.Second, Speed: 250},
		{Distance: 5000, Timestamp: 10*time.Minute + 72*time.Second, Speed: 220},
	}}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if s.MaxDistance() != 5000 {
		t.Errorf("MaxDistance() = %v, want 5000", s.MaxDistance())
	}
	if s.LapTime() != 72*time.Second {
		t.Errorf("LapTime() = %v, want 72s", s.LapTime())
	}
}
