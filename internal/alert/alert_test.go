package alert

import (
	"testing"

	"PsiSentinel/internal/model"
)

func quietReport() *model.StockReport {
	return &model.StockReport{
		Symbol:           "AAPL",
		CurrentPrice:     100,
		FiftyTwoWeekHigh: 130,
		FiftyTwoWeekLow:  80,
		PsiEMADaily:      model.PsiEMA{Theta: 1.5, Z: 0.4, R: 1.1},
		PsiEMAWeekly:     model.PsiEMA{Theta: 3.0, Z: 0.9, R: 0.8},
	}
}

func rules(alerts []Alert) map[string]bool {
	m := make(map[string]bool)
	for _, a := range alerts {
		m[a.Rule] = true
	}
	return m
}

func TestEvaluate_QuietMarket(t *testing.T) {
	alerts := Evaluate(quietReport(), DefaultThresholds)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", alerts)
	}
}

func TestEvaluate_ZAnomaly(t *testing.T) {
	rep := quietReport()
	rep.PsiEMADaily.Z = -3.2
	alerts := Evaluate(rep, DefaultThresholds)
	if !rules(alerts)["z_anomaly"] {
		t.Fatalf("expected z_anomaly, got %v", alerts)
	}
	if alerts[0].Value != -3.2 || alerts[0].Symbol != "AAPL" {
		t.Errorf("unexpected alert payload: %+v", alerts[0])
	}
}

func TestEvaluate_RDivergenceAndClamp(t *testing.T) {
	rep := quietReport()
	rep.PsiEMADaily.R = 2.4
	if !rules(Evaluate(rep, DefaultThresholds))["r_divergence"] {
		t.Error("expected r_divergence at r=2.4")
	}

	rep.PsiEMADaily.R = -5
	if !rules(Evaluate(rep, DefaultThresholds))["r_clamped"] {
		t.Error("expected r_clamped at r=-5")
	}
}

func TestEvaluate_ThetaSteep(t *testing.T) {
	rep := quietReport()
	rep.PsiEMADaily.Theta = -42.5
	alerts := Evaluate(rep, DefaultThresholds)
	if !rules(alerts)["theta_steep"] {
		t.Fatalf("expected theta_steep, got %v", alerts)
	}
}

func TestEvaluate_52WeekRange(t *testing.T) {
	rep := quietReport()
	rep.CurrentPrice = 129
	if !rules(Evaluate(rep, DefaultThresholds))["near_52w_high"] {
		t.Error("expected near_52w_high at 129/130")
	}

	rep.CurrentPrice = 81
	if !rules(Evaluate(rep, DefaultThresholds))["near_52w_low"] {
		t.Error("expected near_52w_low at 81/80")
	}

	// Degenerate range (high == low) must not divide or trigger
	rep.FiftyTwoWeekHigh = 100
	rep.FiftyTwoWeekLow = 100
	rep.CurrentPrice = 100
	alerts := Evaluate(rep, DefaultThresholds)
	if r := rules(alerts); r["near_52w_high"] || r["near_52w_low"] {
		t.Errorf("expected no range alerts for degenerate range, got %v", alerts)
	}
}

func TestEvaluate_DisabledThresholds(t *testing.T) {
	rep := quietReport()
	rep.PsiEMADaily.Z = 10
	rep.PsiEMADaily.R = 5
	rep.PsiEMADaily.Theta = 90
	alerts := Evaluate(rep, Thresholds{})
	if len(alerts) != 0 {
		t.Errorf("zero thresholds disable rules, got %v", alerts)
	}
}

func TestEvaluate_Boundary(t *testing.T) {
	rep := quietReport()
	rep.PsiEMADaily.Z = 3.0 // exactly at threshold triggers
	if !rules(Evaluate(rep, DefaultThresholds))["z_anomaly"] {
		t.Error("expected trigger at exact threshold")
	}
	rep.PsiEMADaily.Z = 2.99
	if rules(Evaluate(rep, DefaultThresholds))["z_anomaly"] {
		t.Error("expected no trigger just below threshold")
	}
}
