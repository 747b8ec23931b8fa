package util

import (
	"golang.org/x/exp/constraints"
	"strconv"
)

const (
	MinDutyCycle = 0.0
	MaxDutyCycle = 100.0
)

// Coerce returns value limited to the closed range [min, max]
func Coerce[T constraints.Ordered](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// ClampDutyCycle limits the given duty cycle percentage to [0..100]
func ClampDutyCycle(dutyCycle float64) float64 {
	return Coerce(dutyCycle, MinDutyCycle, MaxDutyCycle)
}

// IsValidDutyCycle reports whether the given percentage is within [0..100]
func IsValidDutyCycle(dutyCycle float64) bool {
	return dutyCycle >= MinDutyCycle && dutyCycle <= MaxDutyCycle
}

// FormatDutyCycle returns the shortest decimal representation of the given duty cycle
func FormatDutyCycle(dutyCycle float64) string {
	return strconv.FormatFloat(dutyCycle, 'f', -1, 64)
}

// Ratio calculates the ration that target has in comparison to rangeMin and rangeMax
// Make sure that:
// rangeMin <= target <= rangeMax
// rangeMax - rangeMin != 0
func Ratio(target float64, rangeMin float64, rangeMax float64) float64 {
	return (target - rangeMin) / (rangeMax - rangeMin)
}
