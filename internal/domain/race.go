package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Surface is the track surface a race is run on.
type Surface string

const (
	SurfaceTurf Surface = "turf"
	SurfaceDirt Surface = "dirt"
)

// TicketKind enumerates the seven supported wager types.
type TicketKind string

const (
	KindWin      TicketKind = "win"
	KindPlace    TicketKind = "place"
	KindQuinella TicketKind = "quinella"
	KindWide     TicketKind = "wide"
	KindExacta   TicketKind = "exacta"
	KindTrio     TicketKind = "trio"
	KindTrifecta TicketKind = "trifecta"
)

// Race is frozen after load: the identity fields (from which RaceID is
// derived), Horses and CombinationOdds are set once by the dataset loader
// and never mutated by the engine afterward.
type Race struct {
	Track        string
	Year         int
	KaisaiDate   int // meeting-day encoding, MMDD
	RaceNumber   int
	Surface      Surface
	Distance     int // meters
	Confidence   float64
	IsMaiden     bool
	IsBadWeather bool

	Horses []Horse // ordered by horse number

	// CombinationOdds holds the exposed per-combination odds tables for
	// quinella/wide/exacta/trio/trifecta, keyed by ticket kind and then by
	// the ticket's canonical combination key (see Ticket.Key). A strategy
	// that needs an odds value absent here must emit no ticket rather than
	// estimate one (§4.2).
	CombinationOdds map[TicketKind]map[string]float64
}

// OddsFor looks up the exposed odds for a combination ticket kind. ok is
// false when the dataset did not expose odds for this exact combination.
func (r Race) OddsFor(kind TicketKind, numbers []int) (odds float64, ok bool) {
	table, exists := r.CombinationOdds[kind]
	if !exists {
		return 0, false
	}
	key := combinationKey(kind, numbers)
	odds, ok = table[key]
	return odds, ok
}

// combinationKey canonicalizes a raw number list the same way Ticket.Key
// does, without requiring a constructed Ticket.
func combinationKey(kind TicketKind, numbers []int) string {
	nums := make([]int, len(numbers))
	copy(nums, numbers)
	if unorderedKinds[kind] {
		sort.Ints(nums)
	}
	s := string(kind)
	for _, n := range nums {
		s += "/" + strconv.Itoa(n)
	}
	return s
}

// RaceID is the canonical (track, year, kaisai_date, race_number) identity.
func (r Race) RaceID() string {
	return fmt.Sprintf("%s-%d-%04d-%02d", r.Track, r.Year, r.KaisaiDate, r.RaceNumber)
}

// Date reconstructs a calendar date from Year and KaisaiDate (interpreted
// as an MMDD meeting-day encoding) for chronological sorting and
// walk-forward windowing.
func (r Race) Date() time.Time {
	month := r.KaisaiDate / 100
	day := r.KaisaiDate % 100
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Date(r.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(r.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// SortKey is the tuple races are ordered by for chronological replay.
func (r Race) SortKey() (int, int, int) { return r.Year, r.KaisaiDate, r.RaceNumber }

// ByNumber finds a horse by its program number.
func (r Race) ByNumber(number int) (Horse, bool) {
	for _, h := range r.Horses {
		if h.Number == number {
			return h, true
		}
	}
	return Horse{}, false
}

// TopN returns the n horses with the lowest (best) PredictedRank, in
// ascending predicted-rank order. Fewer than n are returned if the field is
// smaller.
func (r Race) TopN(n int) []Horse {
	ordered := make([]Horse, len(r.Horses))
	copy(ordered, r.Horses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PredictedRank < ordered[j].PredictedRank
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	return ordered[:n]
}

// UpsetCandidates returns the horses flagged IsUpsetCandidate, ordered by
// descending UpsetProb.
func (r Race) UpsetCandidates() []Horse {
	var out []Horse
	for _, h := range r.Horses {
		if h.IsUpsetCandidate {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpsetProb > out[j].UpsetProb })
	return out
}

// HasResult reports whether every horse in the race carries a finishing
// position (settlement requires this; see ErrResultUnavailable).
func (r Race) HasResult() bool {
	for _, h := range r.Horses {
		if !h.HasResult() {
			return false
		}
	}
	return len(r.Horses) > 0
}

// FinishOrder returns every horse with a finishing position, ordered by
// ascending ActualRank (1st, 2nd, 3rd, ...). DNF horses and horses without
// a result are excluded.
func (r Race) FinishOrder() []Horse {
	var finishers []Horse
	for _, h := range r.Horses {
		if h.ActualRank >= 1 {
			finishers = append(finishers, h)
		}
	}
	sort.SliceStable(finishers, func(i, j int) bool { return finishers[i].ActualRank < finishers[j].ActualRank })
	return finishers
}

// Winner returns the horse that finished 1st, if the race has a result.
func (r Race) Winner() (Horse, bool) {
	order := r.FinishOrder()
	if len(order) == 0 || order[0].ActualRank != 1 {
		return Horse{}, false
	}
	return order[0], true
}

// FieldSize is the number of entrants (including later scratches/DQs).
func (r Race) FieldSize() int { return len(r.Horses) }
