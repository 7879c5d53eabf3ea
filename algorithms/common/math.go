package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Shared numeric helpers used across algorithms, backed by gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Max returns the maximum value of a slice using gonum
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// Round rounds half-to-even, matching numpy's rounding. The melody constants
// were tuned against numpy output, so plain half-away rounding would shift
// values that land exactly on .5.
func Round(x float64) float64 {
	return math.RoundToEven(x)
}

// Round2 rounds to two decimal places, half-to-even
func Round2(x float64) float64 {
	return math.RoundToEven(x*100.0) / 100.0
}

// MeanInt calculates the mean of an int slice
func MeanInt(data []int) float64 {
	if len(data) == 0 {
		return 0.0
	}
	vals := make([]float64, len(data))
	for i, v := range data {
		vals[i] = float64(v)
	}
	return stat.Mean(vals, nil)
}
