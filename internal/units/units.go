// Package units provides shared constants and validation for speed units
package units

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ToKMH converts a speed in the given unit to km/h. Telemetry is carried in
// km/h throughout the pipeline; sources recording m/s or mph are converted
// once at ingest.
func ToKMH(speed float64, fromUnit string) float64 {
	switch fromUnit {
	case MPS:
		return speed * 3.6 // m/s to km/h
	case MPH:
		return speed * 1.609344 // mph to km/h
	case KMPH, KPH:
		return speed // no conversion needed
	default:
		return speed // assume km/h if unknown unit
	}
}

// ConvertSpeed converts a speed from meters per second to the target units
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.23694 // m/s to mph
	case KMPH, KPH:
		return speedMPS * 3.6 // m/s to km/h
	case MPS:
		return speedMPS // no conversion needed
	default:
		return speedMPS // default to m/s if unknown unit
	}
}
