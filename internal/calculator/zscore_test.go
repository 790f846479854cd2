package calculator

import "testing"

func flatSeries(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func rampSeries(from, to int) []float64 {
	s := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		s = append(s, float64(i))
	}
	return s
}

func TestCalculateZScore_ShortSeries(t *testing.T) {
	for _, n := range []int{0, 1, 10, 20} {
		if z := CalculateZScore(flatSeries(n, 100), 100); z != 0 {
			t.Errorf("length %d: expected 0, got %v", n, z)
		}
	}
}

func TestCalculateZScore_FlatSeries(t *testing.T) {
	// median 50, MAD 0 → no detectable anomaly
	if z := CalculateZScore(flatSeries(21, 50), 50); z != 0 {
		t.Errorf("expected 0 for flat series, got %v", z)
	}
	if z := CalculateZScore(flatSeries(21, 50), 999); z != 0 {
		t.Errorf("expected 0 even for an outlier current when MAD is 0, got %v", z)
	}
}

func TestCalculateZScore_Ramp(t *testing.T) {
	// 1..21: median 11, MAD 5 → z(21) = (21-11)/5 = 2
	prices := rampSeries(1, 21)
	if z := CalculateZScore(prices, 21); z != 2 {
		t.Errorf("expected 2, got %v", z)
	}
	// current is decoupled from the series
	if z := CalculateZScore(prices, 11); z != 0 {
		t.Errorf("expected 0 for current at the median, got %v", z)
	}
	if z := CalculateZScore(prices, 1); z != -2 {
		t.Errorf("expected -2, got %v", z)
	}
}

func TestCalculateZScore_Purity(t *testing.T) {
	prices := rampSeries(1, 40)
	a := CalculateZScore(prices, 40)
	b := CalculateZScore(prices, 40)
	if a != b {
		t.Errorf("repeated calls diverged: %v vs %v", a, b)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"unsorted input untouched", []float64{9, 5, 1}, 5},
	}
	for _, tt := range tests {
		if got := Median(tt.values); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{9, 5, 1}
	Median(values)
	if values[0] != 9 || values[1] != 5 || values[2] != 1 {
		t.Errorf("input slice was reordered: %v", values)
	}
}

func TestMedianAbsoluteDeviation(t *testing.T) {
	// 1..21 around 11: deviations 0..10 each appearing twice except 0
	if mad := MedianAbsoluteDeviation(rampSeries(1, 21), 11); mad != 5 {
		t.Errorf("expected 5, got %v", mad)
	}
	if mad := MedianAbsoluteDeviation(flatSeries(10, 3), 3); mad != 0 {
		t.Errorf("expected 0 for flat values, got %v", mad)
	}
}
