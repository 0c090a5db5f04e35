package resample

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/openlaps/lapdelta/internal/telemetry"
)

var (
	// ErrEmptyInput is returned when a telemetry stream has no samples.
	ErrEmptyInput = errors.New("telemetry stream has no samples")
	// ErrInsufficientData is returned when fewer than two distinct
	// distance keys survive deduplication.
	ErrInsufficientData = errors.New("fewer than two distinct distance keys")
	// ErrInvalidStep is returned when the grid step is zero or negative.
	ErrInvalidStep = errors.New("grid step must be positive")
)

// Channel selects the dependent variable an Interpolator is built over.
type Channel int

const (
	// ChannelElapsedTime maps distance to seconds elapsed since the
	// stream's first sample.
	ChannelElapsedTime Channel = iota
	// ChannelSpeed maps distance to the recorded speed value.
	ChannelSpeed
)

func (c Channel) String() string {
	switch c {
	case ChannelElapsedTime:
		return "elapsed_time"
	case ChannelSpeed:
		return "speed"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Interpolator is a continuous, boundary-clamped function from distance to
// one telemetry channel. It holds a deduplicated, strictly increasing set of
// distance keys with co-indexed channel values; evaluation between keys is
// piecewise linear, and queries outside [MinKey, MaxKey] clamp to the
// nearest boundary value rather than extrapolating.
type Interpolator struct {
	keys   []float64
	values []float64
	pl     interp.PiecewiseLinear
}

// NewInterpolator builds an interpolator for one channel of a stream.
//
// Sensors emit repeated distance readings at near-zero speed, so the raw
// distance column is not strictly increasing. Deduplication keeps the first
// sample seen at each distinct distance and discards the rest. The input is
// never mutated; the elapsed-time channel is derived on the fly relative to
// the stream's own first timestamp.
func NewInterpolator(stream *telemetry.Stream, ch Channel) (*Interpolator, error) {
	n := len(stream.Samples)
	if n == 0 {
		return nil, fmt.Errorf("build %s interpolator: %w", ch, ErrEmptyInput)
	}

	t0 := stream.Samples[0].Timestamp
	keys := make([]float64, 0, n)
	values := make([]float64, 0, n)
	for _, s := range stream.Samples {
		// First occurrence at each distance wins. Strict comparison also
		// guarantees the keys end up strictly increasing given
		// distance-ordered input.
		if len(keys) > 0 && s.Distance <= keys[len(keys)-1] {
			continue
		}
		keys = append(keys, s.Distance)
		switch ch {
		case ChannelSpeed:
			values = append(values, s.Speed)
		default:
			values = append(values, (s.Timestamp - t0).Seconds())
		}
	}

	if len(keys) < 2 {
		return nil, fmt.Errorf("build %s interpolator: %d distinct keys: %w", ch, len(keys), ErrInsufficientData)
	}

	it := &Interpolator{keys: keys, values: values}
	if err := it.pl.Fit(keys, values); err != nil {
		return nil, fmt.Errorf("build %s interpolator: %w", ch, err)
	}
	return it, nil
}

// Evaluate returns the channel value at the query distance. Queries outside
// the key range return the value at the nearest boundary key.
func (it *Interpolator) Evaluate(distance float64) float64 {
	return it.pl.Predict(distance)
}

// Len returns the number of distinct distance keys.
func (it *Interpolator) Len() int { return len(it.keys) }

// MinKey returns the smallest distance key.
func (it *Interpolator) MinKey() float64 { return it.keys[0] }

// MaxKey returns the largest distance key.
func (it *Interpolator) MaxKey() float64 { return it.keys[len(it.keys)-1] }
