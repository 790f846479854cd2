package notifier

import (
	"fmt"
	"strings"
	"time"

	"PsiSentinel/internal/alert"
	"PsiSentinel/internal/model"
)

func fmtEMA(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatScanReport renders one ticker's scan into a Telegram message.
func FormatScanReport(report *model.StockReport) string {
	var b strings.Builder

	name := report.Symbol
	if report.ShortName != nil {
		name = fmt.Sprintf("%s (%s)", *report.ShortName, report.Symbol)
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", name, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Price: %.2f %s (%+.2f, %+.2f%%)\n",
		report.CurrentPrice, report.Currency,
		report.RegularMarketChange, report.RegularMarketChangePercent))
	b.WriteString(fmt.Sprintf("52w range: %.2f – %.2f\n\n", report.FiftyTwoWeekLow, report.FiftyTwoWeekHigh))

	for _, tf := range []struct {
		label  string
		bundle model.PsiEMA
	}{
		{"Daily (3mo)", report.PsiEMADaily},
		{"Weekly (13mo)", report.PsiEMAWeekly},
	} {
		b.WriteString(fmt.Sprintf("<b>Ψ-EMA %s</b> | %d candles\n", tf.label, tf.bundle.Candles))
		b.WriteString(fmt.Sprintf("  θ %+.2f° | z %+.2f | r %+.2f\n", tf.bundle.Theta, tf.bundle.Z, tf.bundle.R))
		b.WriteString(fmt.Sprintf("  EMA 13/21/34/55: %s / %s / %s / %s\n",
			fmtEMA(tf.bundle.EMA13), fmtEMA(tf.bundle.EMA21), fmtEMA(tf.bundle.EMA34), fmtEMA(tf.bundle.EMA55)))
	}

	if report.TrailingPE != nil {
		b.WriteString(fmt.Sprintf("\nP/E %.1f", *report.TrailingPE))
		if report.PriceToBook != nil {
			b.WriteString(fmt.Sprintf(" | P/B %.1f", *report.PriceToBook))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatAlerts renders triggered alerts for one ticker.
func FormatAlerts(symbol string, alerts []alert.Alert) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>%s</b> | %d alert(s)\n\n", symbol, len(alerts)))
	for _, a := range alerts {
		b.WriteString(fmt.Sprintf("• [%s] %s\n", a.Rule, a.Message))
	}
	return b.String()
}

// FormatWatchlistSummary renders the weekly one-line-per-ticker digest.
func FormatWatchlistSummary(reports []*model.StockReport, failed map[string]error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Weekly watchlist summary</b> | %s\n\n", time.Now().Format("2006-01-02")))

	for _, r := range reports {
		b.WriteString(fmt.Sprintf("%s  %.2f (%+.2f%%)  θ %+.2f°  z %+.2f  r %+.2f\n",
			r.Symbol, r.CurrentPrice, r.RegularMarketChangePercent,
			r.PsiEMAWeekly.Theta, r.PsiEMAWeekly.Z, r.PsiEMAWeekly.R))
	}
	for symbol, err := range failed {
		b.WriteString(fmt.Sprintf("%s  ❌ %v\n", symbol, err))
	}
	return b.String()
}
