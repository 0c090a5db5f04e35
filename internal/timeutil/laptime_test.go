package timeutil

import (
	"testing"
	"time"
)

func TestFormatLapTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00.000"},
		{9.5, "0:09.500"},
		{70, "1:10.000"},
		{125.4567, "2:05.457"},
		{3600, "60:00.000"},
		{-70, "-1:10.000"},
	}
	for _, tt := range tests {
		if got := FormatLapTime(tt.seconds); got != tt.want {
			t.Errorf("FormatLapTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatLapDuration(t *testing.T) {
	d := time.Minute + 10*time.Second + 123*time.Millisecond
	if got := FormatLapDuration(d); got != "1:10.123" {
		t.Errorf("FormatLapDuration(%v) = %q, want 1:10.123", d, got)
	}
}
