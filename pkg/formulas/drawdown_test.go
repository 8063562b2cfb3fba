package formulas

import (
	"math"
	"testing"
)

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		want      *float64
		tolerance float64
	}{
		{
			name:   "too few points",
			values: []float64{100.0},
			want:   nil,
		},
		{
			name:      "monotonic rise has no drawdown",
			values:    []float64{100.0, 105.0, 110.0},
			want:      ptr(0.0),
			tolerance: 1e-9,
		},
		{
			name:      "single decline",
			values:    []float64{100.0, 80.0},
			want:      ptr(0.20),
			tolerance: 1e-9,
		},
		{
			name:      "peak mid-series",
			values:    []float64{100.0, 120.0, 90.0, 110.0},
			want:      ptr(0.25),
			tolerance: 1e-9,
		},
		{
			name:      "recovery then deeper fall",
			values:    []float64{100.0, 90.0, 95.0, 60.0, 70.0},
			want:      ptr(0.40),
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.values)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("MaxDrawdown() = %v, want %v", got, tt.want)
			}
			if got != nil && math.Abs(*got-*tt.want) > tt.tolerance {
				t.Errorf("MaxDrawdown() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestDrawdownMetrics(t *testing.T) {
	values := []float64{100.0, 120.0, 90.0, 110.0}

	m := Drawdown(values)
	if m == nil {
		t.Fatal("Drawdown() returned nil for valid series")
	}
	if math.Abs(m.MaxDrawdown-0.25) > 1e-9 {
		t.Errorf("MaxDrawdown = %v, want 0.25", m.MaxDrawdown)
	}
	if m.PeakValue != 120.0 {
		t.Errorf("PeakValue = %v, want 120", m.PeakValue)
	}
	if m.TroughValue != 90.0 {
		t.Errorf("TroughValue = %v, want 90", m.TroughValue)
	}
	// Series ends below the 120 peak.
	if math.Abs(m.CurrentDrawdown-(120.0-110.0)/120.0) > 1e-9 {
		t.Errorf("CurrentDrawdown = %v", m.CurrentDrawdown)
	}
}

func TestRollingVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.01, -0.01, 0.01}

	got := RollingVolatility(returns, 3, TradingDaysPerYear)
	if len(got) != 3 {
		t.Fatalf("RollingVolatility() length = %v, want 3", len(got))
	}
	for i, v := range got {
		if v <= 0 {
			t.Errorf("RollingVolatility()[%d] = %v, want > 0", i, v)
		}
	}

	if got := RollingVolatility([]float64{0.01}, 3, TradingDaysPerYear); len(got) != 0 {
		t.Errorf("RollingVolatility() on short series = %v, want empty", got)
	}
}

func TestBeta(t *testing.T) {
	tests := []struct {
		name      string
		asset     []float64
		benchmark []float64
		want      *float64
		tolerance float64
	}{
		{
			name:      "too few points",
			asset:     []float64{0.01},
			benchmark: []float64{0.01},
			want:      nil,
		},
		{
			name:      "mismatched lengths",
			asset:     []float64{0.01, 0.02},
			benchmark: []float64{0.01},
			want:      nil,
		},
		{
			name:      "identical series has beta one",
			asset:     []float64{0.01, -0.02, 0.03, 0.01},
			benchmark: []float64{0.01, -0.02, 0.03, 0.01},
			want:      ptr(1.0),
			tolerance: 1e-9,
		},
		{
			name:      "double leverage has beta two",
			asset:     []float64{0.02, -0.04, 0.06, 0.02},
			benchmark: []float64{0.01, -0.02, 0.03, 0.01},
			want:      ptr(2.0),
			tolerance: 1e-9,
		},
		{
			name:      "flat benchmark undefined",
			asset:     []float64{0.01, 0.02, 0.03},
			benchmark: []float64{0.01, 0.01, 0.01},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Beta(tt.asset, tt.benchmark)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Beta() = %v, want %v", got, tt.want)
			}
			if got != nil && math.Abs(*got-*tt.want) > tt.tolerance {
				t.Errorf("Beta() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	if got := SharpeRatio(0.10, 0.02, 0.0); got != 0 {
		t.Errorf("SharpeRatio() with zero volatility = %v, want 0", got)
	}
	if got := SharpeRatio(0.10, 0.02, 0.16); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("SharpeRatio() = %v, want 0.5", got)
	}
}

func TestPairedCorrelation(t *testing.T) {
	asset := []float64{0.01, -0.02, 0.03, 0.01}
	inverse := []float64{-0.01, 0.02, -0.03, -0.01}

	got := PairedCorrelation(asset, asset)
	if got == nil || math.Abs(*got-1.0) > 1e-9 {
		t.Errorf("PairedCorrelation() self = %v, want 1", got)
	}

	got = PairedCorrelation(asset, inverse)
	if got == nil || math.Abs(*got+1.0) > 1e-9 {
		t.Errorf("PairedCorrelation() inverse = %v, want -1", got)
	}

	if got := PairedCorrelation([]float64{0.01}, []float64{0.01}); got != nil {
		t.Errorf("PairedCorrelation() on single point = %v, want nil", got)
	}
}

func ptr(v float64) *float64 { return &v }
