package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrTooShort is returned when a series has too few finite samples to
// resolve a period.
var ErrTooShort = errors.New("analysis: series too short")

// ErrNoPeriod is returned for a constant series.
var ErrNoPeriod = errors.New("analysis: no periodic component")

// FFT is a radix-2 transform. len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Window drops trailing non-finite samples and truncates what is left to
// the largest power of two, so the result is always a valid FFT input. An
// empty series yields an empty window.
func Window(series []float64) []float64 {
	end := len(series)
	for end > 0 && (math.IsNaN(series[end-1]) || math.IsInf(series[end-1], 0)) {
		end--
	}
	if end == 0 {
		return nil
	}
	n := 1
	for n*2 <= end {
		n *= 2
	}
	return series[:n]
}

// DominantPeriod estimates the strongest period in a uniformly sampled
// series. The series is cut to its Window and the mean is removed.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	series = Window(series)
	n := len(series)
	if n < 8 {
		return 0, ErrTooShort
	}

	data := make([]float64, n)
	mean := 0.0
	for i := 0; i < n; i++ {
		if math.IsNaN(series[i]) || math.IsInf(series[i], 0) {
			return 0, ErrTooShort
		}
		mean += series[i]
	}
	mean /= float64(n)
	for i := 0; i < n; i++ {
		data[i] = series[i] - mean
	}

	ps := PowerSpectrum(data)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] < 1e-12*float64(n) {
		return 0, ErrNoPeriod
	}

	// parabolic interpolation around the peak bin
	k := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			k += 0.5 * (a - c) / d
		}
	}
	return float64(n) * math.Abs(dt) / k, nil
}
