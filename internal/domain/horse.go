package domain

import "fmt"

// FinishDNF is the explicit "did not finish" marker for a horse that was
// disqualified or scratched. Replaces the source's actual_rank=99 sentinel
// (see DESIGN.md).
const FinishDNF = -1

const (
	minHorseNumber = 1
	maxHorseNumber = 18
)

// Horse is an immutable entrant in a race. Zero value is invalid; build one
// through NewHorse.
type Horse struct {
	Number          int
	Name            string
	Odds            float64 // win odds, > 0
	Popularity      int     // public-odds rank, 1 = most backed
	ActualRank      int     // 0 = unknown/not yet run, FinishDNF = scratched/DQ
	PredictedRank   int     // 1-based
	PredictedScore  float64 // in [0, 1]
	UpsetProb       float64 // in [0, 1], default 0
	IsUpsetCandidate bool
	PlaceOddsMin    float64 // optional, 0 means absent
	PlaceOddsMax    float64 // optional, 0 means absent
}

// NewHorse validates and constructs a Horse.
func NewHorse(number int, name string, odds float64, popularity, predictedRank int, predictedScore float64) (Horse, error) {
	if number < minHorseNumber || number > maxHorseNumber {
		return Horse{}, fmt.Errorf("domain.NewHorse: number %d: %w", number, ErrDatasetInvalidValue)
	}
	if odds <= 0 {
		return Horse{}, fmt.Errorf("domain.NewHorse: odds %v: %w", odds, ErrDatasetInvalidValue)
	}
	if predictedScore < 0 || predictedScore > 1 {
		return Horse{}, fmt.Errorf("domain.NewHorse: predicted_score %v: %w", predictedScore, ErrDatasetInvalidValue)
	}
	return Horse{
		Number:         number,
		Name:           name,
		Odds:           odds,
		Popularity:     popularity,
		PredictedRank:  predictedRank,
		PredictedScore: predictedScore,
	}, nil
}

// ExpectedValue is predicted_score * odds.
func (h Horse) ExpectedValue() float64 { return h.PredictedScore * h.Odds }

// InFrame reports whether the horse finished 1st-3rd.
func (h Horse) InFrame() bool { return h.ActualRank >= 1 && h.ActualRank <= 3 }

// DidNotFinish reports whether the horse was scratched or disqualified.
func (h Horse) DidNotFinish() bool { return h.ActualRank == FinishDNF }

// HasResult reports whether the horse has a recorded finishing position
// (including DNF), as opposed to an unknown/future race.
func (h Horse) HasResult() bool { return h.ActualRank != 0 }

// EstimatedPlaceOdds returns PlaceOddsMin when the dataset exposed one, or
// the deliberate approximation max(1.1, win_odds*0.35) otherwise. exact is
// false when the approximation was used, letting callers flag reduced
// confidence (see §9 design note on place-odds estimation).
func (h Horse) EstimatedPlaceOdds() (odds float64, exact bool) {
	if h.PlaceOddsMin > 0 {
		return h.PlaceOddsMin, true
	}
	est := h.Odds * 0.35
	if est < 1.1 {
		est = 1.1
	}
	return est, false
}
