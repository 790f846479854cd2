package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"PsiSentinel/internal/alert"
	"PsiSentinel/internal/collector"
	"PsiSentinel/internal/metrics"
	"PsiSentinel/internal/model"
	"PsiSentinel/internal/notifier"
	"PsiSentinel/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the watch-mode cron tasks.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	Metrics    *metrics.Metrics
	Watchlist  []string
	Thresholds alert.Thresholds
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. metrics may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier,
	rec recorder.Recorder, m *metrics.Metrics, watchlist []string, th alert.Thresholds) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Notifier:   tn,
		Recorder:   rec,
		Metrics:    m,
		Watchlist:  watchlist,
		Thresholds: th,
		Ctx:        ctx,
	}
}

// RegisterAll registers the daily scan and weekly summary tasks.
func (s *Scheduler) RegisterAll(dailyCron, weeklyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyScan); err != nil {
		return fmt.Errorf("register daily scan: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklySummary); err != nil {
		return fmt.Errorf("register weekly summary: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyScan()
}

// scanOne collects a report, records it, and evaluates alert rules.
func (s *Scheduler) scanOne(symbol string) (*model.StockReport, error) {
	start := time.Now()
	report, err := s.Collector.Collect(symbol, time.Time{})
	if s.Metrics != nil {
		s.Metrics.ScanDuration.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.Metrics.ScansTotal.WithLabelValues(result).Inc()
	}
	if err != nil {
		return nil, err
	}

	if err := s.Recorder.RecordScan(&recorder.ScanSnapshot{Report: report}); err != nil {
		log.Printf("[ERROR] record scan %s: %v", report.Symbol, err)
	}

	alerts := alert.Evaluate(report, s.Thresholds)
	for _, a := range alerts {
		if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
			Symbol: a.Symbol, Rule: a.Rule, Value: a.Value, Message: a.Message,
		}); err != nil {
			log.Printf("[ERROR] record alert %s/%s: %v", a.Symbol, a.Rule, err)
		}
	}
	if len(alerts) > 0 {
		s.trySend(notifier.FormatAlerts(report.Symbol, alerts))
		if s.Metrics != nil {
			s.Metrics.AlertsTotal.Add(float64(len(alerts)))
		}
	}
	return report, nil
}

func (s *Scheduler) dailyScan() {
	log.Printf("[INFO] running daily scan over %d symbols", len(s.Watchlist))
	for _, symbol := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		if _, err := s.scanOne(symbol); err != nil {
			log.Printf("[ERROR] daily scan %s: %v", symbol, err)
		}
	}
}

func (s *Scheduler) weeklySummary() {
	log.Println("[INFO] running weekly summary")
	var reports []*model.StockReport
	failed := make(map[string]error)
	for _, symbol := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		report, err := s.scanOne(symbol)
		if err != nil {
			log.Printf("[ERROR] weekly scan %s: %v", symbol, err)
			failed[collector.SanitizeTicker(symbol)] = err
			continue
		}
		reports = append(reports, report)
	}
	s.trySend(notifier.FormatWatchlistSummary(reports, failed))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/scan":
		if len(fields) < 2 {
			return "Usage: /scan TICKER"
		}
		report, err := s.scanOne(fields[1])
		if err != nil {
			return fmt.Sprintf("❌ scan %s: %v", collector.SanitizeTicker(fields[1]), err)
		}
		return notifier.FormatScanReport(report)
	case "/last":
		if len(fields) < 2 {
			return "Usage: /last TICKER"
		}
		symbol := collector.SanitizeTicker(fields[1])
		bundle, ts, err := s.Recorder.LatestScan(symbol)
		if err != nil {
			return fmt.Sprintf("no history for %s: %v", symbol, err)
		}
		return fmt.Sprintf("%s @ %s\nθ %+.2f° | z %+.2f | r %+.2f (%d candles)",
			symbol, ts.Format("2006-01-02 15:04"), bundle.Theta, bundle.Z, bundle.R, bundle.Candles)
	case "/watchlist":
		return "Watching: " + strings.Join(s.Watchlist, ", ")
	default:
		return "Commands:\n• /scan TICKER\n• /last TICKER\n• /watchlist"
	}
}

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
