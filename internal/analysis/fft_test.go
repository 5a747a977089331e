package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestFFT_Impulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0, 0, 0, 0, 0})
	for i, v := range out {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, v)
		}
	}
}

func TestPowerSpectrum_SinglePeak(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}
	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Fatalf("len = %d", len(ps))
	}
	for k, v := range ps {
		if k == 4 {
			if math.Abs(v-float64(n)/2) > 1e-9 {
				t.Errorf("peak = %v, want %v", v, n/2)
			}
		} else if v > 1e-9 {
			t.Errorf("leak at bin %d: %v", k, v)
		}
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		period float64
		dt     float64
		n      int
	}{
		{"orbit", 2, 0.03, 1100},
		{"slow", 40, 0.5, 2100},
		{"reverse time", 5, -0.1, 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]float64, tt.n)
			for i := range series {
				series[i] = 100 + 30*math.Cos(2*math.Pi*float64(i)*math.Abs(tt.dt)/tt.period)
			}
			got, err := DominantPeriod(series, tt.dt)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.period)/tt.period > 0.05 {
				t.Errorf("period = %v, want %v", got, tt.period)
			}
		})
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	if _, err := DominantPeriod([]float64{1, 2, 3}, 0.1); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 3
	}
	if _, err := DominantPeriod(flat, 0.1); !errors.Is(err, ErrNoPeriod) {
		t.Errorf("expected ErrNoPeriod, got %v", err)
	}

	gap := make([]float64, 64)
	gap[10] = math.NaN()
	if _, err := DominantPeriod(gap, 0.1); !errors.Is(err, ErrTooShort) {
		t.Errorf("interior NaN should fail, got %v", err)
	}

	tail := make([]float64, 40)
	for i := range tail {
		tail[i] = math.Sin(float64(i))
	}
	for i := 32; i < 40; i++ {
		tail[i] = math.NaN()
	}
	if _, err := DominantPeriod(tail, 0.1); err != nil {
		t.Errorf("trailing NaN should be trimmed, got %v", err)
	}
}

func TestWindow(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name   string
		series []float64
		want   int
	}{
		{"empty", nil, 0},
		{"all non-finite", []float64{nan, inf}, 0},
		{"exact power", make([]float64, 16), 16},
		{"truncated", make([]float64, 130), 128},
		{"tail trimmed", append(make([]float64, 120), nan, nan, inf, nan, nan, nan, nan, nan, nan, nan), 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.series)
			if len(got) != tt.want {
				t.Fatalf("len(Window) = %d, want %d", len(got), tt.want)
			}
			// every window must be a valid transform input
			PowerSpectrum(got)
		})
	}
}
