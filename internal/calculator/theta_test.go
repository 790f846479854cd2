package calculator

import "testing"

func TestCalculateTheta_WorkedExample(t *testing.T) {
	// atan2(-3, 105) ≈ -0.02857 rad ≈ -1.64°
	theta := CalculateTheta([]float64{100, 101, 99, 105, 102})
	if theta != -1.64 {
		t.Errorf("expected -1.64, got %v", theta)
	}
}

func TestCalculateTheta(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"empty series", nil, 0},
		{"single price", []float64{100}, 0},
		{"flat pair", []float64{100, 100}, 0},
		{"rising 45 degrees", []float64{5, 10}, 45},
		{"falling 45 degrees", []float64{5, 0}, -45},
		{"zero previous rising", []float64{0, 3}, 90},
		{"zero previous falling", []float64{0, -3}, -90},
	}
	for _, tt := range tests {
		if got := CalculateTheta(tt.prices); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestCalculateTheta_Range(t *testing.T) {
	series := [][]float64{
		{100, 250}, {100, 1}, {-1, 5}, {-1, -5}, {1, -1000}, {0.01, 900},
	}
	for _, s := range series {
		theta := CalculateTheta(s)
		if theta <= -180 || theta > 180 {
			t.Errorf("theta %v out of (-180, 180] for %v", theta, s)
		}
	}
}

func TestCalculateTheta_UsesLastTwoOnly(t *testing.T) {
	a := CalculateTheta([]float64{1, 2, 3, 105, 102})
	b := CalculateTheta([]float64{105, 102})
	if a != b {
		t.Errorf("theta should depend only on the last two prices: %v vs %v", a, b)
	}
}
