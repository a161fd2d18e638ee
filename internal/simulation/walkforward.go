package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/hkondo/keibasim/internal/domain"
)

// WalkForwardConfig parameterizes the rolling-window driver (§4.5.3).
type WalkForwardConfig struct {
	TrainPeriodDays int
	TestPeriodDays  int
	StepDays        int
}

// WalkForwardWindow tags one SimulationResult with the test window it was
// produced from.
type WalkForwardWindow struct {
	TestFrom, TestTo time.Time
	Result           domain.SimulationResult
}

// RunWalkForward slides a train/test window across the time axis and runs
// one single-pass replay per test window. Parameter optimization on the
// train window is a declared extension point; this driver always applies
// the same strategy/bankroll configuration already wired into d.
func RunWalkForward(ctx context.Context, d *Driver, races []domain.Race, cfg WalkForwardConfig) ([]WalkForwardWindow, error) {
	if cfg.TestPeriodDays <= 0 || cfg.StepDays <= 0 {
		return nil, fmt.Errorf("simulation.RunWalkForward: test_period_days and step_days must be positive: %w", domain.ErrConfigInvalid)
	}

	sorted := SortChronological(races)
	if len(sorted) == 0 {
		return nil, nil
	}

	lastDate := sorted[len(sorted)-1].Date()
	cursor := sorted[0].Date().AddDate(0, 0, cfg.TrainPeriodDays)

	var windows []WalkForwardWindow
	for {
		testFrom := cursor
		testTo := cursor.AddDate(0, 0, cfg.TestPeriodDays)
		if testTo.After(lastDate.AddDate(0, 0, 1)) {
			break
		}

		testRaces := racesInWindow(sorted, testFrom, testTo)
		res, err := d.Run(ctx, testRaces)
		if err != nil {
			return nil, fmt.Errorf("simulation.RunWalkForward: window %s-%s: %w", testFrom.Format("2006-01-02"), testTo.Format("2006-01-02"), err)
		}
		res.WindowFrom = int(testFrom.Unix() / 86400)
		res.WindowTo = int(testTo.Unix() / 86400)
		windows = append(windows, WalkForwardWindow{TestFrom: testFrom, TestTo: testTo, Result: res})

		cursor = cursor.AddDate(0, 0, cfg.StepDays)
	}
	return windows, nil
}

func racesInWindow(sorted []domain.Race, from, to time.Time) []domain.Race {
	var out []domain.Race
	for _, r := range sorted {
		d := r.Date()
		if !d.Before(from) && d.Before(to) {
			out = append(out, r)
		}
	}
	return out
}
