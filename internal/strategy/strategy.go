// Package strategy implements the fourteen concrete ticket-generation
// strategies and the composite wrapper (§4.2). Each strategy is a small
// value type dispatched through a single Registry rather than a class
// hierarchy with virtual dispatch (§9 redesign note).
package strategy

import (
	"fmt"
	"sort"

	"github.com/hkondo/keibasim/internal/domain"
)

// Strategy maps one race into zero or more candidate tickets.
type Strategy interface {
	Name() string
	GenerateTickets(race domain.Race) []domain.Ticket
}

// Params is the decoded strategy-specific parameter bag from the
// configuration document's strategy.params section.
type Params map[string]any

func (p Params) float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

func (p Params) int(key string, def int) int {
	if v, ok := p[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return def
}

func (p Params) intList(key string) []int {
	v, ok := p[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case int:
			out = append(out, n)
		case float64:
			out = append(out, int(n))
		}
	}
	return out
}

// oddsRange is the common min_odds/max_odds gate every strategy respects.
type oddsRange struct {
	min, max float64 // 0 means unset on that side
}

func newOddsRange(p Params) oddsRange {
	return oddsRange{min: p.float("min_odds", 0), max: p.float("max_odds", 0)}
}

// horsesByUpsetProb returns every horse in race with UpsetProb >= threshold,
// sorted by descending UpsetProb. Unlike race.UpsetCandidates(), this does
// not require IsUpsetCandidate: §4.2 defines longshot_win/longshot_place
// purely by the upset_prob threshold, reserving the is_upset_candidate flag
// for skip_no_upset filtering and the pair/trio longshot partner selection.
func horsesByUpsetProb(race domain.Race, threshold float64) []domain.Horse {
	out := make([]domain.Horse, 0, len(race.Horses))
	for _, h := range race.Horses {
		if h.UpsetProb >= threshold {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpsetProb > out[j].UpsetProb })
	return out
}

func (o oddsRange) allows(odds float64) bool {
	if o.min > 0 && odds < o.min {
		return false
	}
	if o.max > 0 && odds > o.max {
		return false
	}
	return true
}

// Factory builds a Strategy from its decoded parameters.
type Factory func(params Params) (Strategy, error)

// Registry maps strategy names to their factories, mirroring the
// bankroll.Registry pattern used for sizing methods.
type Registry map[string]Factory

// NewRegistry returns the registry populated with all fourteen concrete
// strategies.
func NewRegistry() Registry {
	r := Registry{}
	r.Register("favorite_win", newFavoriteWin)
	r.Register("longshot_win", newLongshotWin)
	r.Register("value_win", newValueWin)
	r.Register("favorite_place", newFavoritePlace)
	r.Register("longshot_place", newLongshotPlace)
	r.Register("favorite_quinella", newFavoriteQuinella)
	r.Register("favorite_longshot_quinella", newFavoriteLongshotQuinella)
	r.Register("box_quinella", newBoxQuinella)
	r.Register("favorite_wide", newFavoriteWide)
	r.Register("favorite_longshot_wide", newFavoriteLongshotWide)
	r.Register("box_wide", newBoxWide)
	r.Register("favorite_trio", newFavoriteTrio)
	r.Register("favorite2_longshot_trio", newFavorite2LongshotTrio)
	r.Register("formation_trio", newFormationTrio)
	return r
}

// Register adds (or replaces) a factory under name.
func (r Registry) Register(name string, f Factory) { r[name] = f }

// Get builds the named strategy with the given parameters.
func (r Registry) Get(name string, params Params) (Strategy, error) {
	f, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("strategy.Get: %s: %w", name, domain.ErrStrategyUnknown)
	}
	s, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("strategy.Get: %s: %w", name, err)
	}
	return s, nil
}

// Names lists the registered strategy names, for the CLI list command.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	return names
}
