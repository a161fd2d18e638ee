// Package report renders a completed run to the console and to the
// output directory's JSON/CSV/TXT files (§6.3). Adapted from the
// teacher's notify.Console table-and-summary rendering pattern, recast
// from opportunity tables to simulation metrics tables.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/ports"
)

// Console implements ports.ReportWriter, writing tables to an io.Writer
// and files to a configured output directory.
type Console struct {
	out io.Writer
}

// NewConsole builds a Console writing to stdout.
func NewConsole() *Console { return &Console{out: os.Stdout} }

// NewConsoleWriter builds a Console writing to w, for tests.
func NewConsoleWriter(w io.Writer) *Console { return &Console{out: w} }

// PrintResult renders one run's metrics table. No Go/No-Go verdict is
// printed here; PrintMonteCarlo prints it.
func (c *Console) PrintResult(result domain.SimulationResult, strategyName string) error {
	m := result.Metrics
	fmt.Fprintf(c.out, "\n=== %s — %d bets, %d fund snapshots ===\n", strategyName, m.TotalBets, len(result.FundHistory))

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("ROI", fmt.Sprintf("%.2f%%", m.ROI))
	table.Append("CAGR", fmt.Sprintf("%.2f%%", m.CAGR*100))
	table.Append("Max drawdown", fmt.Sprintf("%.2f%% (%d bets)", m.MaxDrawdownPct, m.MaxDrawdownDuration))
	table.Append("Sharpe", fmt.Sprintf("%.3f", m.Sharpe))
	table.Append("Sortino", sortinoLabel(m.Sortino))
	table.Append("VaR(95%)", fmt.Sprintf("%.4f", m.VaR))
	table.Append("CVaR(95%)", fmt.Sprintf("%.4f", m.CVaR))
	table.Append("Hit rate", fmt.Sprintf("%.1f%%", m.HitRate))
	table.Append("Max consecutive losses", fmt.Sprintf("%d", m.MaxConsecutiveLosses))
	table.Append("Total invested", m.TotalInvested.String())
	table.Append("Total payout", m.TotalPayout.String())
	table.Render()

	if m.UsedPlaceOddsApprox {
		fmt.Fprintln(c.out, "  note: one or more place tickets used the estimated place-odds fallback")
	}
	if result.Cancelled {
		fmt.Fprintln(c.out, "  note: run was cancelled before completion")
	}
	return nil
}

func sortinoLabel(s float64) string {
	if s == domain.SortinoInfinite {
		return "inf"
	}
	return fmt.Sprintf("%.3f", s)
}

// PrintMonteCarlo renders the Monte Carlo percentile table and Go/No-Go
// verdict.
func (c *Console) PrintMonteCarlo(result domain.MonteCarloResult) error {
	fmt.Fprintf(c.out, "\n=== Monte Carlo — %d trials, seed %d ===\n", result.NumTrials, result.Seed)

	table := tablewriter.NewWriter(c.out)
	table.Header("Statistic", "Final fund")
	table.Append("Mean", fmt.Sprintf("%.0f", result.Mean))
	table.Append("Median", fmt.Sprintf("%.0f", result.Median))
	table.Append("StdDev", fmt.Sprintf("%.0f", result.StdDev))
	table.Append("P5", fmt.Sprintf("%.0f", result.P5))
	table.Append("P25", fmt.Sprintf("%.0f", result.P25))
	table.Append("P75", fmt.Sprintf("%.0f", result.P75))
	table.Append("P95", fmt.Sprintf("%.0f", result.P95))
	table.Render()

	fmt.Fprintf(c.out, "  bankruptcy probability: %.1f%%\n", result.BankruptcyProb*100)
	if result.TargetAchievementProb > 0 {
		fmt.Fprintf(c.out, "  target achievement probability: %.1f%%\n", result.TargetAchievementProb*100)
	}

	verdict := "GO"
	if !result.GoNoGo.Go {
		verdict = "NO-GO"
	}
	fmt.Fprintf(c.out, "\n  verdict: %s\n", verdict)
	for _, r := range result.GoNoGo.ReasonsFor {
		fmt.Fprintf(c.out, "    + %s\n", r)
	}
	for _, r := range result.GoNoGo.ReasonsAgainst {
		fmt.Fprintf(c.out, "    - %s\n", r)
	}
	return nil
}

// PrintCompare renders a side-by-side table of prior runs.
func (c *Console) PrintCompare(records []ports.RunRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "no run history available")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Ran at", "Strategy", "Bankroll", "Seed", "ROI", "MaxDD", "Sharpe", "Bets")
	for _, rec := range records {
		table.Append(
			rec.RanAt.Format("2006-01-02 15:04"),
			rec.StrategyName,
			rec.BankrollMethod,
			fmt.Sprintf("%d", rec.Seed),
			fmt.Sprintf("%.1f%%", rec.Metrics.ROI),
			fmt.Sprintf("%.1f%%", rec.Metrics.MaxDrawdownPct),
			fmt.Sprintf("%.3f", rec.Metrics.Sharpe),
			fmt.Sprintf("%d", rec.Metrics.TotalBets),
		)
	}
	table.Render()
	return nil
}

// WriteFiles writes the per-run JSON, fund_history.csv, bet_history.csv,
// and summary.txt outputs to dir (§6.3).
func (c *Console) WriteFiles(dir string, result domain.SimulationResult, snapshot string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report.WriteFiles: mkdir %s: %w", dir, domain.ErrOutputWriteFailed)
	}

	if err := writeJSON(filepath.Join(dir, "result.json"), struct {
		Metrics        domain.SimulationMetrics `json:"metrics"`
		Cancelled      bool                     `json:"cancelled"`
		ConfigSnapshot string                   `json:"config_snapshot"`
	}{result.Metrics, result.Cancelled, snapshot}); err != nil {
		return err
	}

	if err := writeFundHistoryCSV(filepath.Join(dir, "fund_history.csv"), result); err != nil {
		return err
	}
	if err := writeBetHistoryCSV(filepath.Join(dir, "bet_history.csv"), result); err != nil {
		return err
	}
	if err := writeSummaryTXT(filepath.Join(dir, "summary.txt"), result); err != nil {
		return err
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteFiles: create %s: %w", path, domain.ErrOutputWriteFailed)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("report.WriteFiles: encode %s: %w", path, domain.ErrOutputWriteFailed)
	}
	return nil
}

func writeFundHistoryCSV(path string, result domain.SimulationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteFiles: create %s: %w", path, domain.ErrOutputWriteFailed)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"date", "race_id", "fund_before", "stake", "payout", "fund_after", "cumulative_profit", "drawdown"})

	peak := 0.0
	if len(result.FundHistory) > 0 {
		peak, _ = result.FundHistory[0].Float64()
	}
	initial := peak
	for _, bet := range result.BetHistory {
		after, _ := bet.FundAfter.Float64()
		if after > peak {
			peak = after
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (peak - after) / peak * 100
		}
		cumProfit := after - initial

		w.Write([]string{
			bet.RaceDate.Format("2006-01-02"),
			bet.RaceID,
			bet.FundBefore.String(),
			bet.Ticket.Amount.String(),
			bet.Payout.String(),
			bet.FundAfter.String(),
			fmt.Sprintf("%.2f", cumProfit),
			fmt.Sprintf("%.2f", drawdown),
		})
	}
	return nil
}

func writeBetHistoryCSV(path string, result domain.SimulationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteFiles: create %s: %w", path, domain.ErrOutputWriteFailed)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"race_id", "kind", "horses", "odds", "amount", "strategy", "is_hit", "payout"})

	for _, bet := range result.BetHistory {
		w.Write([]string{
			bet.RaceID,
			string(bet.Ticket.Kind),
			fmt.Sprint(bet.Ticket.HorseNumbers),
			fmt.Sprintf("%.2f", bet.Ticket.Odds),
			bet.Ticket.Amount.String(),
			bet.Ticket.StrategyName,
			fmt.Sprint(bet.IsHit),
			bet.Payout.String(),
		})
	}
	return nil
}

func writeSummaryTXT(path string, result domain.SimulationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteFiles: create %s: %w", path, domain.ErrOutputWriteFailed)
	}
	defer f.Close()

	m := result.Metrics
	fmt.Fprintf(f, "keibasim run summary — generated %s\n\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(f, "total bets:        %d\n", m.TotalBets)
	fmt.Fprintf(f, "ROI:               %.2f%%\n", m.ROI)
	fmt.Fprintf(f, "CAGR:              %.2f%%\n", m.CAGR*100)
	fmt.Fprintf(f, "max drawdown:      %.2f%%\n", m.MaxDrawdownPct)
	fmt.Fprintf(f, "sharpe:            %.3f\n", m.Sharpe)
	if m.Sortino == domain.SortinoInfinite || math.IsInf(m.Sortino, 1) {
		fmt.Fprintf(f, "sortino:           inf\n")
	} else {
		fmt.Fprintf(f, "sortino:           %.3f\n", m.Sortino)
	}
	fmt.Fprintf(f, "hit rate:          %.1f%%\n", m.HitRate)
	fmt.Fprintf(f, "max cons. losses:  %d\n", m.MaxConsecutiveLosses)
	if m.UsedPlaceOddsApprox {
		fmt.Fprintf(f, "\nnote: one or more place tickets used the estimated place-odds fallback\n")
	}
	return nil
}
