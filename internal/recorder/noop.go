package recorder

import (
	"errors"
	"time"

	"PsiSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *ScanSnapshot) error { return nil }
func (n *NoopRecorder) RecordAlert(_ *AlertEvent) error  { return nil }
func (n *NoopRecorder) Close() error                     { return nil }

func (n *NoopRecorder) LatestScan(_ string) (*model.PsiEMA, time.Time, error) {
	return nil, time.Time{}, errors.New("no scan history recorded")
}
