// Package export writes resampled comparison data as CSV and JSON for
// external analysis tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/resample"
)

// BaseName returns the session-and-drivers file stem, e.g.
// "2023_monza_VER_vs_SAI".
func BaseName(cfg *config.Config) string {
	return fmt.Sprintf("%d_%s_%s_vs_%s",
		cfg.Session.Year,
		strings.ToLower(cfg.Session.Circuit),
		cfg.Drivers.Reference,
		cfg.Drivers.Comparison,
	)
}

// WriteCSV exports the six aligned columns with 4-decimal formatting and
// returns the written path.
func WriteCSV(data *resample.ResampledData, cfg *config.Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, BaseName(cfg)+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	ref, comp := cfg.Drivers.Reference, cfg.Drivers.Comparison
	w := csv.NewWriter(f)
	header := []string{
		"distance_m",
		"speed_" + ref + "_kmh",
		"speed_" + comp + "_kmh",
		"elapsed_" + ref + "_s",
		"elapsed_" + comp + "_s",
		"delta_s",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return "", err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for i := 0; i < data.Len(); i++ {
		record := []string{
			format(data.Distance[i]),
			format(data.SpeedA[i]),
			format(data.SpeedB[i]),
			format(data.TimeA[i]),
			format(data.TimeB[i]),
			format(data.Delta[i]),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// Metadata summarises a comparison for the JSON export.
type Metadata struct {
	Session     SessionMeta `json:"session"`
	Drivers     DriversMeta `json:"drivers"`
	GridStepM   float64     `json:"grid_step_m"`
	GeneratedAt string      `json:"generated_at"`
	TotalPoints int         `json:"total_points"`
	DeltaRangeS RangeMeta   `json:"delta_range_s"`
	FinalGapS   float64     `json:"final_gap_s"`
}

type SessionMeta struct {
	Year    int    `json:"year"`
	Circuit string `json:"circuit"`
	Type    string `json:"type"`
}

type DriversMeta struct {
	Reference  string `json:"reference"`
	Comparison string `json:"comparison"`
}

type RangeMeta struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Payload is the full JSON export document.
type Payload struct {
	Metadata  Metadata             `json:"metadata"`
	Telemetry map[string][]float64 `json:"telemetry"`
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// BuildPayload assembles the JSON export document. The same payload backs
// the preview server's data endpoint.
func BuildPayload(data *resample.ResampledData, cfg *config.Config, now time.Time) Payload {
	ref, comp := cfg.Drivers.Reference, cfg.Drivers.Comparison
	min, max := data.DeltaRange()
	return Payload{
		Metadata: Metadata{
			Session: SessionMeta{
				Year:    cfg.Session.Year,
				Circuit: cfg.Session.Circuit,
				Type:    cfg.Session.Type,
			},
			Drivers:     DriversMeta{Reference: ref, Comparison: comp},
			GridStepM:   cfg.Grid.StepMetres,
			GeneratedAt: now.UTC().Format(time.RFC3339),
			TotalPoints: data.Len(),
			DeltaRangeS: RangeMeta{Min: round4(min), Max: round4(max)},
			FinalGapS:   round4(data.FinalGap()),
		},
		Telemetry: map[string][]float64{
			"distance_m":             data.Distance,
			"speed_" + ref + "_kmh":  data.SpeedA,
			"speed_" + comp + "_kmh": data.SpeedB,
			"elapsed_" + ref + "_s":  data.TimeA,
			"elapsed_" + comp + "_s": data.TimeB,
			"delta_s":                data.Delta,
		},
	}
}

// WriteJSON exports the payload with metadata and returns the written path.
func WriteJSON(data *resample.ResampledData, cfg *config.Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, BaseName(cfg)+".json")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildPayload(data, cfg, time.Now())); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
