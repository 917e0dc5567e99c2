// README: Descriptive statistics helpers shared by the aggregation engine.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Sum returns the sum of all values.
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Min returns the minimum value.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median calculates the median value.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Mode returns the most frequent value. Ties break toward the smallest
// value so repeated runs over the same data agree.
func Mode(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	freq := make(map[float64]int)
	for _, v := range values {
		freq[v]++
	}
	maxFreq := 0
	mode := math.Inf(1)
	for v, f := range freq {
		if f > maxFreq || (f == maxFreq && v < mode) {
			maxFreq = f
			mode = v
		}
	}
	return mode
}

// Variance calculates the sample variance.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(values)-1)
}

// StdDev calculates the sample standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Quantile calculates the q-th quantile (0 <= q <= 1) with linear
// interpolation between closest ranks.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Round2 rounds to two decimal places, the precision surfaced in evidence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
