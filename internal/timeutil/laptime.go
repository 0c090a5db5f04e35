// Package timeutil provides time formatting helpers for lap telemetry.
package timeutil

import (
	"fmt"
	"time"
)

// FormatLapTime renders a duration in seconds as "M:SS.mmm", the
// conventional lap time notation.
func FormatLapTime(seconds float64) string {
	if seconds < 0 {
		return "-" + FormatLapTime(-seconds)
	}
	m := int(seconds) / 60
	rem := seconds - float64(m)*60
	return fmt.Sprintf("%d:%06.3f", m, rem)
}

// FormatLapDuration renders a time.Duration as "M:SS.mmm".
func FormatLapDuration(d time.Duration) string {
	return FormatLapTime(d.Seconds())
}
