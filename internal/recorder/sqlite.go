package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"PsiSentinel/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (Grafana reads while the daemon writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			change_percent REAL,
			daily_theta    REAL,
			daily_z        REAL,
			daily_r        REAL,
			daily_ema_13   REAL,
			daily_ema_21   REAL,
			daily_ema_34   REAL,
			daily_ema_55   REAL,
			daily_candles  INTEGER,
			weekly_theta   REAL,
			weekly_z       REAL,
			weekly_r       REAL,
			weekly_ema_13  REAL,
			weekly_ema_21  REAL,
			weekly_ema_34  REAL,
			weekly_ema_55  REAL,
			weekly_candles INTEGER,
			high_52w       REAL,
			low_52w        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_symbol ON scan_snapshots(symbol)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			rule      TEXT,
			value     REAL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps an optional EMA to a SQL NULL.
func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func (r *SQLiteRecorder) RecordScan(snap *ScanSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := snap.Report
	d, w := rep.PsiEMADaily, rep.PsiEMAWeekly

	_, err := r.db.Exec(`INSERT INTO scan_snapshots
		(timestamp, symbol, price, change_percent,
		 daily_theta, daily_z, daily_r,
		 daily_ema_13, daily_ema_21, daily_ema_34, daily_ema_55, daily_candles,
		 weekly_theta, weekly_z, weekly_r,
		 weekly_ema_13, weekly_ema_21, weekly_ema_34, weekly_ema_55, weekly_candles,
		 high_52w, low_52w)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rep.Symbol, rep.CurrentPrice, rep.RegularMarketChangePercent,
		d.Theta, d.Z, d.R,
		nullable(d.EMA13), nullable(d.EMA21), nullable(d.EMA34), nullable(d.EMA55), d.Candles,
		w.Theta, w.Z, w.R,
		nullable(w.EMA13), nullable(w.EMA21), nullable(w.EMA34), nullable(w.EMA55), w.Candles,
		rep.FiftyTwoWeekHigh, rep.FiftyTwoWeekLow,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, symbol, rule, value, message)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Rule, evt.Value, evt.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// LatestScan returns the most recent snapshot row for a symbol, mainly
// for the /scan command's "last seen" context.
func (r *SQLiteRecorder) LatestScan(symbol string) (*model.PsiEMA, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRow(`SELECT timestamp, daily_theta, daily_z, daily_r, daily_candles
		FROM scan_snapshots WHERE symbol = ? ORDER BY timestamp DESC LIMIT 1`, symbol)

	var ts int64
	var bundle model.PsiEMA
	if err := row.Scan(&ts, &bundle.Theta, &bundle.Z, &bundle.R, &bundle.Candles); err != nil {
		return nil, time.Time{}, err
	}
	bundle.Window = "3mo"
	return &bundle, time.Unix(ts, 0), nil
}
