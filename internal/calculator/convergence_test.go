package calculator

import "testing"

func TestCalculateConvergenceR_ShortSeries(t *testing.T) {
	// Anything below 35 points is the neutral default, regardless of content.
	for _, n := range []int{0, 1, 34} {
		if r := CalculateConvergenceR(rampSeries(1, n)); r != 1.0 {
			t.Errorf("length %d: expected 1.0, got %v", n, r)
		}
	}
	if r := CalculateConvergenceR(flatSeries(34, 123)); r != 1.0 {
		t.Errorf("expected 1.0 for 34 flat points, got %v", r)
	}
}

func TestCalculateConvergenceR_FlatSeries(t *testing.T) {
	// MAD is 0 in both rolling windows → undefined → neutral
	if r := CalculateConvergenceR(flatSeries(40, 50)); r != 1.0 {
		t.Errorf("expected 1.0, got %v", r)
	}
}

func TestCalculateConvergenceR_DivergingSpike(t *testing.T) {
	// 0..33 then a spike to 100. Both rolling windows share MAD 8.5, so
	// r = 82.5/16.5 = 5 exactly, right at the clamp.
	prices := append(rampSeries(0, 33), 100)
	if r := CalculateConvergenceR(prices); r != 5 {
		t.Errorf("expected 5, got %v", r)
	}
}

func TestCalculateConvergenceR_Converging(t *testing.T) {
	// 0..33 then a repeat of 33: the anomaly fades, r = 15.5/16.5 ≈ 0.94.
	prices := append(rampSeries(0, 33), 33)
	if r := CalculateConvergenceR(prices); r != 0.94 {
		t.Errorf("expected 0.94, got %v", r)
	}
}

func TestCalculateConvergenceR_PriorZScoreZero(t *testing.T) {
	// The trimmed window [1..33, 17] has median 17 and last point 17, so
	// the prior z-score is 0 and the ratio is undefined.
	prices := append(rampSeries(1, 33), 17, 100)
	if r := CalculateConvergenceR(prices); r != 1.0 {
		t.Errorf("expected 1.0 when prior z-score is 0, got %v", r)
	}
}

func TestCalculateConvergenceR_Bounds(t *testing.T) {
	series := [][]float64{
		append(rampSeries(0, 33), 10000),
		append(rampSeries(0, 33), -10000),
		append(flatSeries(30, 100), 101, 99, 103, 97, 110, 90),
		rampSeries(1, 80),
	}
	for i, s := range series {
		r := CalculateConvergenceR(s)
		if r < -5 || r > 5 {
			t.Errorf("series %d: r=%v out of [-5, 5]", i, r)
		}
	}
}

func TestCalculateConvergenceR_Purity(t *testing.T) {
	prices := append(rampSeries(0, 33), 48, 52, 61)
	a := CalculateConvergenceR(prices)
	b := CalculateConvergenceR(prices)
	if a != b {
		t.Errorf("repeated calls diverged: %v vs %v", a, b)
	}
}

func TestRollingZScore(t *testing.T) {
	if _, ok := rollingZScore(rampSeries(1, 33), 34); ok {
		t.Error("expected undefined for fewer than 34 points")
	}
	if _, ok := rollingZScore(flatSeries(34, 5), 34); ok {
		t.Error("expected undefined when MAD is 0")
	}
	// 1..34: median 17.5, MAD 8.5 → z = 16.5/8.5
	z, ok := rollingZScore(rampSeries(1, 34), 34)
	if !ok {
		t.Fatal("expected defined z-score")
	}
	want := 16.5 / 8.5
	if z != want {
		t.Errorf("expected %v, got %v", want, z)
	}
	// Only the trailing 34 points matter.
	z2, _ := rollingZScore(rampSeries(-100, 34), 34)
	if z2 != z {
		t.Errorf("leading history leaked into the rolling window: %v vs %v", z2, z)
	}
}
