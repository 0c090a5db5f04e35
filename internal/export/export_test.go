package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/resample"
	"github.com/openlaps/lapdelta/internal/testutil"
)

func testData(t *testing.T) *resample.ResampledData {
	t.Helper()
	a := testutil.SyntheticLap("VER", 100, 5000, 70)
	b := testutil.SyntheticLap("SAI", 100, 5000, 71)
	data, err := resample.Resample(a, b, 50)
	require.NoError(t, err)
	return data
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "2023_monza_VER_vs_SAI", BaseName(config.Default()))
}

func TestWriteCSV(t *testing.T) {
	data := testData(t)
	path, err := WriteCSV(data, config.Default(), t.TempDir())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	wantHeader := []string{
		"distance_m", "speed_VER_kmh", "speed_SAI_kmh",
		"elapsed_VER_s", "elapsed_SAI_s", "delta_s",
	}
	assert.Equal(t, wantHeader, records[0])
	assert.Len(t, records, data.Len()+1)

	// Values carry at most 4 decimal places.
	for _, field := range records[1] {
		if i := strings.IndexByte(field, '.'); i >= 0 {
			assert.LessOrEqual(t, len(field)-i-1, 4, "field %q", field)
		}
	}
}

func TestBuildPayload(t *testing.T) {
	data := testData(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	payload := BuildPayload(data, config.Default(), now)

	assert.Equal(t, 2023, payload.Metadata.Session.Year)
	assert.Equal(t, "VER", payload.Metadata.Drivers.Reference)
	assert.Equal(t, data.Len(), payload.Metadata.TotalPoints)
	assert.Equal(t, "2026-08-30T12:00:00Z", payload.Metadata.GeneratedAt)
	assert.Negative(t, payload.Metadata.FinalGapS)
	assert.LessOrEqual(t, payload.Metadata.DeltaRangeS.Min, payload.Metadata.DeltaRangeS.Max)

	for _, key := range []string{
		"distance_m", "speed_VER_kmh", "speed_SAI_kmh",
		"elapsed_VER_s", "elapsed_SAI_s", "delta_s",
	} {
		assert.Len(t, payload.Telemetry[key], data.Len(), "telemetry key %s", key)
	}
}

func TestWriteJSON(t *testing.T) {
	data := testData(t)
	path, err := WriteJSON(data, config.Default(), t.TempDir())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload Payload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, data.Len(), payload.Metadata.TotalPoints)
	assert.NotEmpty(t, payload.Metadata.GeneratedAt)
	assert.Len(t, payload.Telemetry["delta_s"], data.Len())
}

func TestWriteCSVCreatesOutputDir(t *testing.T) {
	dir := t.TempDir() + "/nested/output"
	_, err := WriteCSV(testData(t), config.Default(), dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
