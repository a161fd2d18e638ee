// Package storage persists run history to a local SQLite database so the
// compare command can diff strategies across runs without re-executing
// them. Adapted from the teacher's cycles/opportunities schema-and-cache
// pattern, simplified to one row per run (a backtest run is already a
// single unit of signal, unlike a scan cycle's hundreds of markets).
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    ran_at           DATETIME NOT NULL,
    strategy_name    TEXT     NOT NULL,
    bankroll_method  TEXT     NOT NULL,
    seed             INTEGER  NOT NULL,
    config_snapshot  TEXT     NOT NULL,
    roi              REAL     NOT NULL DEFAULT 0,
    cagr             REAL     NOT NULL DEFAULT 0,
    max_drawdown_pct REAL     NOT NULL DEFAULT 0,
    sharpe           REAL     NOT NULL DEFAULT 0,
    sortino          REAL     NOT NULL DEFAULT 0,
    hit_rate         REAL     NOT NULL DEFAULT 0,
    total_bets       INTEGER  NOT NULL DEFAULT 0,
    metrics_json      TEXT     NOT NULL,
    montecarlo_json   TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy_name);
`

const retention = 180 * 24 * time.Hour

// SQLiteStorage implements ports.Storage over a pure-Go SQLite file.
type SQLiteStorage struct {
	db *sql.DB
}

// Open creates (or reuses) the database at path, applies the schema, and
// prunes runs older than the retention window.
func Open(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.Open: %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.Open: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun inserts one completed run's summary and metrics snapshot.
func (s *SQLiteStorage) SaveRun(ctx context.Context, rec ports.RunRecord) error {
	metricsJSON, err := json.Marshal(rec.Metrics)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: marshal metrics: %w", err)
	}
	var mcJSON []byte
	if rec.MonteCarlo != nil {
		mcJSON, err = json.Marshal(rec.MonteCarlo)
		if err != nil {
			return fmt.Errorf("storage.SaveRun: marshal montecarlo: %w", err)
		}
	}

	ranAt := rec.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
			(ran_at, strategy_name, bankroll_method, seed, config_snapshot,
			 roi, cagr, max_drawdown_pct, sharpe, sortino, hit_rate, total_bets,
			 metrics_json, montecarlo_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ranAt.Format(time.RFC3339), rec.StrategyName, rec.BankrollMethod, rec.Seed, rec.ConfigSnapshot,
		rec.Metrics.ROI, rec.Metrics.CAGR, rec.Metrics.MaxDrawdownPct,
		rec.Metrics.Sharpe, rec.Metrics.Sortino, rec.Metrics.HitRate, rec.Metrics.TotalBets,
		string(metricsJSON), nullableString(mcJSON),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: insert: %w", err)
	}
	return nil
}

// History returns the most recent limit runs, newest first.
func (s *SQLiteStorage) History(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ran_at, strategy_name, bankroll_method, seed, config_snapshot,
		       metrics_json, montecarlo_json
		FROM runs
		ORDER BY ran_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var out []ports.RunRecord
	for rows.Next() {
		var rec ports.RunRecord
		var ranAt string
		var metricsJSON string
		var mcJSON sql.NullString

		if err := rows.Scan(&rec.ID, &ranAt, &rec.StrategyName, &rec.BankrollMethod, &rec.Seed,
			&rec.ConfigSnapshot, &metricsJSON, &mcJSON); err != nil {
			return nil, fmt.Errorf("storage.History: scan: %w", err)
		}
		rec.RanAt, _ = time.Parse(time.RFC3339, ranAt)

		var m domain.SimulationMetrics
		if err := json.Unmarshal([]byte(metricsJSON), &m); err != nil {
			return nil, fmt.Errorf("storage.History: unmarshal metrics: %w", err)
		}
		rec.Metrics = m

		if mcJSON.Valid {
			var mc domain.MonteCarloResult
			if err := json.Unmarshal([]byte(mcJSON.String), &mc); err != nil {
				return nil, fmt.Errorf("storage.History: unmarshal montecarlo: %w", err)
			}
			rec.MonteCarlo = &mc
		}

		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStorage) Close() error { return s.db.Close() }

func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE ran_at < ?`, cutoff)
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
