package errors

import (
	"math"
)

// IsMissing reports whether a value represents a missing measurement or
// prediction. NaN is the library-wide missing marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// CheckFinite returns an error if any value is NaN or Inf. Datasets are
// checked once at load time so that downstream code can assume finite
// measurements and reserve NaN for missing predictions.
func CheckFinite(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(operation, "non-finite value in input")
		}
	}
	return nil
}

// CheckScalarFinite checks a single value for NaN or Inf.
func CheckScalarFinite(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValueError(operation, "non-finite value in input")
	}
	return nil
}
