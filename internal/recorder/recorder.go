package recorder

import (
	"time"

	"PsiSentinel/internal/model"
)

// ScanSnapshot holds one completed report for historical analysis.
type ScanSnapshot struct {
	Report *model.StockReport
}

// AlertEvent records a triggered alert rule.
type AlertEvent struct {
	Symbol  string
	Rule    string
	Value   float64
	Message string
}

// Recorder persists scan history for analysis.
type Recorder interface {
	RecordScan(snap *ScanSnapshot) error
	RecordAlert(evt *AlertEvent) error
	// LatestScan returns the newest daily bundle recorded for a symbol.
	LatestScan(symbol string) (*model.PsiEMA, time.Time, error)
	Close() error
}
