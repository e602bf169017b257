package shared

import (
	"math"
	"strconv"
)

// Unavailable is the display value for absent readings.
const Unavailable = "unavailable"

// Reading represents an optional indicator value. The zero value is an absent reading,
// which is distinct from a present reading of zero.
type Reading struct {
	value float64
	set   bool
}

// NewReading initializes a present reading. NaN and infinite values cannot be
// interpreted as numbers and yield an absent reading.
func NewReading(value float64) Reading {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Reading{}
	}

	return Reading{value: value, set: true}
}

// ParseReading parses the provided text as a reading, yielding an absent reading
// when the text is not numeric.
func ParseReading(text string) Reading {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Reading{}
	}

	return NewReading(value)
}

// IsSet returns whether the reading is present.
func (r Reading) IsSet() bool {
	return r.set
}

// Value returns the reading's value and whether it is present.
func (r Reading) Value() (float64, bool) {
	return r.value, r.set
}

// OrZero returns the reading's value, substituting zero for absent readings.
func (r Reading) OrZero() float64 {
	if !r.set {
		return 0
	}

	return r.value
}

// String stringifies the provided reading.
func (r Reading) String() string {
	if !r.set {
		return Unavailable
	}

	return strconv.FormatFloat(r.value, 'f', -1, 64)
}
