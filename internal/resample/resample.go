// Package resample aligns two independently time-sampled telemetry streams
// onto a common distance grid so they become comparable point-by-point, and
// derives the running time delta between them.
package resample

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/openlaps/lapdelta/internal/telemetry"
)

// ResampledData holds two laps' telemetry evaluated on a shared distance
// grid. All six slices always have equal length. The struct is not modified
// after Resample returns.
type ResampledData struct {
	Distance []float64 // grid positions [m]
	TimeA    []float64 // elapsed time, stream A [s]
	TimeB    []float64 // elapsed time, stream B [s]
	SpeedA   []float64 // speed, stream A
	SpeedB   []float64 // speed, stream B
	Delta    []float64 // TimeA - TimeB [s]; negative means A is ahead
}

// Len returns the number of grid points.
func (r *ResampledData) Len() int { return len(r.Distance) }

// DeltaRange returns the minimum and maximum time delta over the grid, or
// zeros for an empty grid.
func (r *ResampledData) DeltaRange() (min, max float64) {
	if len(r.Delta) == 0 {
		return 0, 0
	}
	return floats.Min(r.Delta), floats.Max(r.Delta)
}

// FinalGap returns the delta at the last grid point, or 0 for an empty grid.
func (r *ResampledData) FinalGap() float64 {
	if len(r.Delta) == 0 {
		return 0
	}
	return r.Delta[len(r.Delta)-1]
}

// Resample evaluates both streams' elapsed-time and speed channels on a
// fixed-step distance grid bounded by the shorter stream, and computes the
// per-position time delta.
//
// The grid covers [0, min(maxDistA, maxDistB)) with spacing step; the upper
// bound is half-open, so every grid point lies inside both streams'
// coverage. A non-positive extent yields a result with all sequences empty,
// which is not an error. A non-positive step is.
func Resample(a, b *telemetry.Stream, step float64) (*ResampledData, error) {
	if !(step > 0) {
		return nil, fmt.Errorf("step %v: %w", step, ErrInvalidStep)
	}

	timeA, err := NewInterpolator(a, ChannelElapsedTime)
	if err != nil {
		return nil, fmt.Errorf("stream A: %w", err)
	}
	timeB, err := NewInterpolator(b, ChannelElapsedTime)
	if err != nil {
		return nil, fmt.Errorf("stream B: %w", err)
	}
	speedA, err := NewInterpolator(a, ChannelSpeed)
	if err != nil {
		return nil, fmt.Errorf("stream A: %w", err)
	}
	speedB, err := NewInterpolator(b, ChannelSpeed)
	if err != nil {
		return nil, fmt.Errorf("stream B: %w", err)
	}

	maxD := math.Min(a.MaxDistance(), b.MaxDistance())
	grid := makeGrid(maxD, step)

	r := &ResampledData{
		Distance: grid,
		TimeA:    make([]float64, len(grid)),
		TimeB:    make([]float64, len(grid)),
		SpeedA:   make([]float64, len(grid)),
		SpeedB:   make([]float64, len(grid)),
		Delta:    make([]float64, len(grid)),
	}
	for i, d := range grid {
		r.TimeA[i] = timeA.Evaluate(d)
		r.TimeB[i] = timeB.Evaluate(d)
		r.SpeedA[i] = speedA.Evaluate(d)
		r.SpeedB[i] = speedB.Evaluate(d)
		r.Delta[i] = r.TimeA[i] - r.TimeB[i]
	}
	return r, nil
}

// makeGrid returns evenly spaced distances 0, step, 2*step, ... stopping
// strictly before maxD. A ragged final point is never emitted; when step
// does not divide maxD the grid ends at the largest multiple below it.
func makeGrid(maxD, step float64) []float64 {
	if !(maxD > 0) {
		return []float64{}
	}
	n := int(math.Ceil(maxD / step))
	// Rounding in the division can land the last point on or past maxD;
	// the upper bound is half-open.
	for n > 0 && float64(n-1)*step >= maxD {
		n--
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = float64(i) * step
	}
	return grid
}
