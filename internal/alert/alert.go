package alert

import (
	"fmt"
	"math"

	"PsiSentinel/internal/model"
)

// Thresholds configures when a scanned report raises alerts.
type Thresholds struct {
	Z            float64 // daily |z| at or above this is an anomaly
	R            float64 // daily |r| at or above this is a divergence
	Theta        float64 // daily |theta| at or above this is a steep move
	RangePercent float64 // price within this % of the 52-week high/low
}

// DefaultThresholds are applied where the config leaves values unset.
var DefaultThresholds = Thresholds{
	Z:            3.0,
	R:            2.0,
	Theta:        30.0,
	RangePercent: 2.0,
}

// Alert is one triggered rule for a scanned ticker.
type Alert struct {
	Symbol  string
	Rule    string
	Value   float64
	Message string
}

// Evaluate runs all alert rules over a finished report. Pure: same
// report and thresholds always produce the same alerts.
func Evaluate(report *model.StockReport, th Thresholds) []Alert {
	var alerts []Alert
	daily := report.PsiEMADaily

	if th.Z > 0 && math.Abs(daily.Z) >= th.Z {
		alerts = append(alerts, Alert{
			Symbol:  report.Symbol,
			Rule:    "z_anomaly",
			Value:   daily.Z,
			Message: fmt.Sprintf("daily z-score %.2f beyond threshold %.2f", daily.Z, th.Z),
		})
	}

	if th.R > 0 && math.Abs(daily.R) >= th.R {
		rule, msg := "r_divergence", "anomaly intensifying"
		if math.Abs(daily.R) >= 5 {
			rule, msg = "r_clamped", "convergence ratio at clamp bound"
		}
		alerts = append(alerts, Alert{
			Symbol:  report.Symbol,
			Rule:    rule,
			Value:   daily.R,
			Message: fmt.Sprintf("daily r %.2f: %s", daily.R, msg),
		})
	}

	if th.Theta > 0 && math.Abs(daily.Theta) >= th.Theta {
		direction := "up"
		if daily.Theta < 0 {
			direction = "down"
		}
		alerts = append(alerts, Alert{
			Symbol:  report.Symbol,
			Rule:    "theta_steep",
			Value:   daily.Theta,
			Message: fmt.Sprintf("steep %s move, theta %.2f°", direction, daily.Theta),
		})
	}

	if th.RangePercent > 0 && report.FiftyTwoWeekHigh > report.FiftyTwoWeekLow {
		price := report.CurrentPrice
		if price >= report.FiftyTwoWeekHigh*(1-th.RangePercent/100) {
			alerts = append(alerts, Alert{
				Symbol:  report.Symbol,
				Rule:    "near_52w_high",
				Value:   price,
				Message: fmt.Sprintf("price %.2f within %.1f%% of 52-week high %.2f", price, th.RangePercent, report.FiftyTwoWeekHigh),
			})
		}
		if price <= report.FiftyTwoWeekLow*(1+th.RangePercent/100) {
			alerts = append(alerts, Alert{
				Symbol:  report.Symbol,
				Rule:    "near_52w_low",
				Value:   price,
				Message: fmt.Sprintf("price %.2f within %.1f%% of 52-week low %.2f", price, th.RangePercent, report.FiftyTwoWeekLow),
			})
		}
	}

	return alerts
}
