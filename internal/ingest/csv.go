// Package ingest reads lap telemetry exports into the internal data model.
//
// The acquisition side of the pipeline (provider APIs, live capture) lives
// outside this repo; what arrives here are per-lap CSV exports with a
// distance column, a session-time column, and one speed column. Ingest is
// the boundary that enforces the resampler's distance-ordering
// precondition, so the hot path downstream never has to scan for it.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openlaps/lapdelta/internal/telemetry"
	"github.com/openlaps/lapdelta/internal/units"
)

// speedColumns maps recognised speed header names to their source unit.
var speedColumns = map[string]string{
	"speed_kmh": units.KMPH,
	"speed_mps": units.MPS,
	"speed_ms":  units.MPS,
	"speed_mph": units.MPH,
}

type columnLayout struct {
	distance  int
	time      int
	speed     int
	speedUnit string
}

func parseHeader(header []string) (columnLayout, error) {
	layout := columnLayout{distance: -1, time: -1, speed: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		switch {
		case name == "distance_m":
			layout.distance = i
		case name == "time_s":
			layout.time = i
		default:
			if unit, ok := speedColumns[name]; ok {
				layout.speed = i
				layout.speedUnit = unit
			}
		}
	}
	if layout.distance < 0 {
		return layout, fmt.Errorf("missing distance_m column")
	}
	if layout.time < 0 {
		return layout, fmt.Errorf("missing time_s column")
	}
	if layout.speed < 0 {
		return layout, fmt.Errorf("missing speed column (one of speed_kmh, speed_mps, speed_ms, speed_mph)")
	}
	return layout, nil
}

// ReadCSV parses one driver's lap telemetry from a CSV file. Speeds are
// converted to km/h when the source column declares another unit.
func ReadCSV(path, driver, session string) (*telemetry.Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}
	defer f.Close()

	stream, err := Read(f, driver, session)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stream, nil
}

// Read parses lap telemetry CSV from r.
func Read(r io.Reader, driver, session string) (*telemetry.Stream, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("telemetry file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	layout, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	stream := &telemetry.Stream{Driver: driver, Session: session}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		distance, err := strconv.ParseFloat(record[layout.distance], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad distance_m: %w", line, err)
		}
		seconds, err := strconv.ParseFloat(record[layout.time], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad time_s: %w", line, err)
		}
		speed, err := strconv.ParseFloat(record[layout.speed], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad speed: %w", line, err)
		}

		if distance < 0 {
			return nil, fmt.Errorf("line %d: negative distance %v", line, distance)
		}
		if n := len(stream.Samples); n > 0 && distance < stream.Samples[n-1].Distance {
			return nil, fmt.Errorf("line %d: distance %v decreases from %v; telemetry must be distance-ordered",
				line, distance, stream.Samples[n-1].Distance)
		}

		stream.Samples = append(stream.Samples, telemetry.Sample{
			Distance:  distance,
			Timestamp: time.Duration(seconds * float64(time.Second)),
			Speed:     units.ToKMH(speed, layout.speedUnit),
		})
	}

	if len(stream.Samples) == 0 {
		return nil, fmt.Errorf("telemetry file has no samples")
	}
	return stream, nil
}
