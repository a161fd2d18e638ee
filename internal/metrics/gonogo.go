package metrics

import (
	"fmt"

	"github.com/hkondo/keibasim/internal/domain"
)

// JudgeGoNoGo applies §4.6.3's Go/No-Go predicate over a run's per-run
// metrics and its Monte Carlo bankruptcy probability.
func JudgeGoNoGo(m domain.SimulationMetrics, bankruptcyProb float64) domain.GoNoGo {
	var forReasons, againstReasons []string

	noGo := false
	if bankruptcyProb >= 0.10 {
		noGo = true
		againstReasons = append(againstReasons, fmt.Sprintf("bankruptcy probability %.1f%% >= 10%%", bankruptcyProb*100))
	}
	if m.ROI < 120 {
		noGo = true
		againstReasons = append(againstReasons, fmt.Sprintf("ROI %.1f%% < 120%%", m.ROI))
	}
	if m.MaxConsecutiveLosses >= 30 {
		noGo = true
		againstReasons = append(againstReasons, fmt.Sprintf("max consecutive losses %d >= 30", m.MaxConsecutiveLosses))
	}

	goBankruptcy := bankruptcyProb <= 0.05
	goROI := m.ROI >= 150
	goDrawdown := m.MaxDrawdownPct <= 50

	if goBankruptcy {
		forReasons = append(forReasons, fmt.Sprintf("bankruptcy probability %.1f%% <= 5%%", bankruptcyProb*100))
	}
	if goROI {
		forReasons = append(forReasons, fmt.Sprintf("ROI %.1f%% >= 150%%", m.ROI))
	}
	if goDrawdown {
		forReasons = append(forReasons, fmt.Sprintf("max drawdown %.1f%% <= 50%%", m.MaxDrawdownPct))
	}

	decision := !noGo && goBankruptcy && goROI && goDrawdown

	return domain.GoNoGo{
		Go:             decision,
		ReasonsFor:     forReasons,
		ReasonsAgainst: againstReasons,
	}
}
