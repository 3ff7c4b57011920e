package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists analysis history to a SQLite database.
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

	// WAL mode for better concurrent read performance (dashboards read while
	// the analyzer writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS condition_snapshots (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp             INTEGER NOT NULL,
			symbol                TEXT NOT NULL,
			reference_date        TEXT,
			reference_close       REAL,
			active_event_count    INTEGER,
			recent_event_count    INTEGER,
			total_weighted_change REAL,
			tier                  TEXT,
			rationale             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_condition_ts ON condition_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS distribution_events (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id     INTEGER NOT NULL,
			event_date      TEXT,
			close           REAL,
			volume          INTEGER,
			percent_change  REAL,
			volume_ratio    REAL,
			weighted_change REAL,
			FOREIGN KEY (snapshot_id) REFERENCES condition_snapshots(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_snapshot ON distribution_events(snapshot_id)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			start_date     TEXT,
			end_date       TEXT,
			total_periods  INTEGER,
			cagr_benchmark REAL,
			cagr_strategy  REAL,
			max_dd_benchmark REAL,
			max_dd_strategy  REAL,
			dd_reduction   REAL,
			time_invested  REAL,
			sharpe_benchmark REAL,
			sharpe_strategy  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ts ON backtest_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCondition(snap *ConditionSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cond := snap.Condition
	res, err := r.db.Exec(`INSERT INTO condition_snapshots
		(timestamp, symbol, reference_date, reference_close,
		 active_event_count, recent_event_count, total_weighted_change, tier, rationale)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol,
		cond.ReferenceDate.Format("2006-01-02"), cond.ReferenceClose,
		cond.ActiveEventCount, cond.RecentEventCount, cond.TotalWeightedChange,
		string(cond.Tier), cond.Rationale,
	)
	if err != nil {
		return err
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, evt := range snap.Events {
		if _, err := r.db.Exec(`INSERT INTO distribution_events
			(snapshot_id, event_date, close, volume, percent_change, volume_ratio, weighted_change)
			VALUES (?,?,?,?,?,?,?)`,
			snapshotID, evt.Date.Format("2006-01-02"), evt.Close, evt.Volume,
			evt.PercentChange, evt.VolumeChangeRatio, evt.WeightedChange,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBacktest(rec *BacktestRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := rec.Result.Metrics
	_, err := r.db.Exec(`INSERT INTO backtest_runs
		(timestamp, symbol, start_date, end_date, total_periods,
		 cagr_benchmark, cagr_strategy, max_dd_benchmark, max_dd_strategy,
		 dd_reduction, time_invested, sharpe_benchmark, sharpe_strategy)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol,
		m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02"), m.TotalPeriods,
		m.CAGRBenchmark, m.CAGRStrategy, m.MaxDrawdownBenchmark, m.MaxDrawdownStrategy,
		m.DrawdownReduction, m.TimeInvested, m.SharpeBenchmark, m.SharpeStrategy,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
