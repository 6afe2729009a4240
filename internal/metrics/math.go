package metrics

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median finds the median value in a slice of floats.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// StdDev returns the population standard deviation of values, or 0 when fewer
// than two points are available.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mu := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mu
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
