package signal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a full trace.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Median float64 `json:"median" yaml:"median"`
}

// Float64s converts a trace to float64.
func Float64s[T Sample](samples []T) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}
	return out
}

// Normalize maps every sample to its standard score using the mean and
// population standard deviation of the whole trace. A constant or empty
// trace normalizes to zeros.
func Normalize[T Sample](samples []T) []float64 {
	values := Float64s(samples)
	if len(values) == 0 {
		return values
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		for i := range values {
			values[i] = 0
		}
		return values
	}

	for i, v := range values {
		values[i] = (v - mean) / std
	}
	return values
}

// Summarize computes count, extrema, mean, population standard deviation
// and median of a trace.
func Summarize[T Sample](samples []T) Summary {
	values := Float64s(samples)
	if len(values) == 0 {
		return Summary{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
		Median: medianInPlace(values),
	}
}

// Calibrate converts raw ADC counts to picoamperes: (adc + offset) * scale.
func Calibrate(adc []int16, offset, scale float64) []float64 {
	out := make([]float64, len(adc))
	for i, v := range adc {
		out[i] = (float64(v) + offset) * scale
	}
	return out
}

// Bounds returns the smallest and largest non-NaN value across traces.
// ok is false when no finite value exists.
func Bounds(traces ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, t := range traces {
		for _, v := range t {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
