// Package ports declares the boundary interfaces the simulation core is
// wired against: dataset loading, run-history persistence, and output
// rendering. Concrete adapters live in internal/dataset, internal/storage,
// and internal/report.
package ports

import (
	"context"
	"time"

	"github.com/hkondo/keibasim/internal/domain"
)

// DatasetLoader parses a race dataset from a path into the race data model.
// Invalid rows are dropped with a warning; invalid races are dropped
// wholesale; neither condition fails the load.
type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]domain.Race, DatasetReport, error)
}

// DatasetReport summarizes what the loader accepted and rejected, used by
// the validate command and surfaced in per-run output.
type DatasetReport struct {
	RowsRead      int
	RowsRejected  int
	RacesBuilt    int
	RacesRejected int
	Warnings      []string
}

// RunRecord is a single persisted run summary, written by run and compare
// and read back by compare.
type RunRecord struct {
	ID         int64
	RanAt      time.Time
	StrategyName string
	BankrollMethod string
	Seed       int64
	ConfigSnapshot string // YAML/JSON text, for reproducibility
	Metrics    domain.SimulationMetrics
	MonteCarlo *domain.MonteCarloResult // nil when the run was a single pass
}

// Storage persists run history for the compare command.
type Storage interface {
	SaveRun(ctx context.Context, rec RunRecord) error
	History(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

// ReportWriter renders a completed run to the console and to the output
// directory's JSON/CSV/TXT files (see §6.3).
type ReportWriter interface {
	PrintResult(result domain.SimulationResult, strategyName string) error
	PrintMonteCarlo(result domain.MonteCarloResult) error
	PrintCompare(records []RunRecord) error
	WriteFiles(dir string, result domain.SimulationResult, snapshot string) error
}
