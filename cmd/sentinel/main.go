package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"PsiSentinel/internal/alert"
	"PsiSentinel/internal/cache"
	"PsiSentinel/internal/collector"
	"PsiSentinel/internal/config"
	"PsiSentinel/internal/metrics"
	"PsiSentinel/internal/model"
	"PsiSentinel/internal/notifier"
	"PsiSentinel/internal/recorder"
	"PsiSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env is optional; real env vars still override config either way
	_ = godotenv.Load()

	cfgPath := flag.String("config", defaultConfigPath(), "path to YAML config")
	watch := flag.Bool("watch", false, "run as a watch daemon instead of a one-shot report")
	endDate := flag.String("end", "", "truncate history at this date (YYYY-MM-DD)")
	pretty := flag.Bool("pretty", false, "indent the JSON report")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	if *watch {
		runWatch(cfg)
		return
	}

	ticker := flag.Arg(0)
	if ticker == "" {
		emitError(fmt.Errorf("usage: sentinel [-config path] [-end YYYY-MM-DD] [-pretty] TICKER"))
		os.Exit(1)
	}

	var end time.Time
	if *endDate != "" {
		end, err = time.Parse("2006-01-02", *endDate)
		if err != nil {
			emitError(fmt.Errorf("invalid end date %q: %w", *endDate, err))
			os.Exit(1)
		}
	}

	col := collector.NewCollector(newFetcher(cfg))
	report, err := col.Collect(ticker, end)
	if err != nil {
		emitError(err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		log.Fatalf("[FATAL] encode report: %v", err)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// emitError prints the single top-level error object that replaces a report.
func emitError(err error) {
	json.NewEncoder(os.Stdout).Encode(model.ErrorReport{Error: err.Error()})
}

// newFetcher picks the configured data source: a self-hosted bar API
// when base_url is set, Yahoo Finance otherwise.
func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.BaseURL != "" {
		return collector.NewRestFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	return collector.NewYahooFetcher(cfg.Proxy)
}

func thresholds(cfg *config.Config) alert.Thresholds {
	th := alert.DefaultThresholds
	if cfg.Alerts.Z > 0 {
		th.Z = cfg.Alerts.Z
	}
	if cfg.Alerts.R > 0 {
		th.R = cfg.Alerts.R
	}
	if cfg.Alerts.Theta > 0 {
		th.Theta = cfg.Alerts.Theta
	}
	if cfg.Alerts.RangePercent > 0 {
		th.RangePercent = cfg.Alerts.RangePercent
	}
	return th
}

func runWatch(cfg *config.Config) {
	log.Println("[INFO] PsiSentinel starting in watch mode...")
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Metrics
	var m *metrics.Metrics
	var msrv *metrics.Server
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		msrv = metrics.NewServer(cfg.Metrics.Addr)
		msrv.Start()
	}

	// Fetcher, optionally wrapped in the Redis bar cache
	fetcher := newFetcher(cfg)
	if cfg.Redis.Addr != "" {
		cached, err := cache.New(fetcher, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      time.Duration(cfg.Redis.TTLMinutes) * time.Minute,
		}, m)
		if err != nil {
			log.Printf("[WARN] init bar cache failed, fetching uncached: %v", err)
		} else {
			fetcher = cached
			defer cached.Close()
		}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher)

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Telegram notifier (optional: without credentials alerts are log-only)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, tn, rec, m, cfg.Watchlist, thresholds(cfg))
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily scan now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] PsiSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if msrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		msrv.Stop(shutdownCtx)
		shutdownCancel()
	}
	log.Println("[INFO] PsiSentinel stopped")
}
