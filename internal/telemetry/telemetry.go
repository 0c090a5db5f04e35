// Package telemetry defines the lap telemetry data model shared by the
// ingest, resample, store, and export layers.
package telemetry

import "time"

// Sample is a single instrument reading on a lap.
type Sample struct {
	// Distance travelled from the start line, in metres.
	Distance float64
	// Timestamp is the session time of the reading. Only differences
	// between timestamps within one stream are meaningful.
	Timestamp time.Duration
	// Speed in km/h unless the source declared another unit; the unit is
	// carried through unchanged by the resampler.
	Speed float64
}

// Stream is one driver's ordered telemetry for a single lap.
//
// Samples must be ordered by non-decreasing Distance. The resampler treats
// unordered input as undefined behaviour rather than scanning for it on the
// hot path; the ingest layer rejects unordered files at the boundary.
type Stream struct {
	Driver  string
	Session string
	Samples []Sample
}

// Len returns the number of samples in the stream.
func (s *Stream) Len() int { return len(s.Samples) }

// MaxDistance returns the distance of the final sample, or 0 for an empty
// stream. With ordered input this is the maximum distance covered.
func (s *Stream) MaxDistance() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return s.Samples[len(s.Samples)-1].Distance
}

// LapTime returns the session time spanned by the stream.
func (s *Stream) LapTime() time.Duration {
	if len(s.Samples) == 0 {
		return 0
	}
	return s.Samples[len(s.Samples)-1].Timestamp - s.Samples[0].Timestamp
}
