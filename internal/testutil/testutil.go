// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openlaps/lapdelta/internal/telemetry"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta fails the test if got is NaN or not within tol of want.
func AssertInDelta(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("got %v, want %v (tolerance %v)", got, want, tol)
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// SyntheticLap builds a lap telemetry stream with evenly spaced samples, a
// linear elapsed-time ramp, and a sinusoidal speed trace:
//
//	speed(d) = 200 + 50*sin(4*pi*d/maxDist)
//
// Close enough in shape to real qualifying-lap telemetry for resampling,
// chart, and export tests.
func SyntheticLap(driver string, n int, maxDist, lapTime float64) *telemetry.Stream {
	samples := make([]telemetry.Sample, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		d := frac * maxDist
		samples[i] = telemetry.Sample{
			Distance:  d,
			Timestamp: time.Duration(frac * lapTime * float64(time.Second)),
			Speed:     200 + 50*math.Sin(d/maxDist*4*math.Pi),
		}
	}
	return &telemetry.Stream{Driver: driver, Session: "test", Samples: samples}
}
