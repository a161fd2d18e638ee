// Package filter implements the per-race accept/reject decision (§4.1):
// field size, confidence, surface, distance, track list/tier, maiden,
// weather, and upset-candidate gates, run once per race before any ticket
// is generated.
package filter

import (
	"fmt"

	"github.com/hkondo/keibasim/internal/domain"
)

// TrackMode selects how the Tracks list is interpreted.
type TrackMode string

const (
	TrackModeNone      TrackMode = "none"
	TrackModeWhitelist TrackMode = "whitelist"
	TrackModeBlacklist TrackMode = "blacklist"
)

// Tier multipliers applied to the eventual stake; tier1 is the default for
// any track absent from Tiers.
var tierMultiplier = map[string]float64{
	"tier1": 1.0,
	"tier2": 0.8,
	"tier3": 0.6,
}

// Config holds the race_filter configuration section (§6.2).
type Config struct {
	MinHorseCount  int
	MinConfidence  float64
	Surface        domain.Surface // empty means unset, any surface accepted
	DistanceMin    int
	DistanceMax    int
	TrackMode      TrackMode
	TrackList      []string
	TrackTiers     map[string]string // track -> "tier1"/"tier2"/"tier3"
	SkipMaiden     bool
	SkipBadWeather bool
	SkipNoUpset    bool
}

// DefaultConfig returns the spec's documented default (min_horse_count=12,
// everything else permissive).
func DefaultConfig() Config {
	return Config{
		MinHorseCount: 12,
		TrackMode:     TrackModeNone,
	}
}

// Decision is the outcome of evaluating one race.
type Decision struct {
	Accept        bool
	Reason        string
	TierMultiplier float64
}

// Filter evaluates races against a fixed Config.
type Filter struct {
	cfg Config
}

// New builds a Filter, validating that distance bounds are sane.
func New(cfg Config) (*Filter, error) {
	if cfg.DistanceMax > 0 && cfg.DistanceMin > cfg.DistanceMax {
		return nil, fmt.Errorf("filter.New: distance_min %d > distance_max %d: %w", cfg.DistanceMin, cfg.DistanceMax, domain.ErrConfigInvalid)
	}
	if cfg.MinHorseCount <= 0 {
		cfg.MinHorseCount = 12
	}
	return &Filter{cfg: cfg}, nil
}

// Evaluate decides whether a race is replayed, and at what tier multiplier.
func (f *Filter) Evaluate(race domain.Race) Decision {
	reject := Decision{Accept: false, TierMultiplier: 0}

	if race.FieldSize() < f.cfg.MinHorseCount {
		reject.Reason = fmt.Sprintf("field size %d below min_horse_count %d", race.FieldSize(), f.cfg.MinHorseCount)
		return reject
	}
	if f.cfg.MinConfidence > 0 && race.Confidence < f.cfg.MinConfidence {
		reject.Reason = fmt.Sprintf("confidence %.3f below min_confidence %.3f", race.Confidence, f.cfg.MinConfidence)
		return reject
	}
	if f.cfg.Surface != "" && race.Surface != f.cfg.Surface {
		reject.Reason = fmt.Sprintf("surface %s does not match configured %s", race.Surface, f.cfg.Surface)
		return reject
	}
	if f.cfg.DistanceMin > 0 && race.Distance < f.cfg.DistanceMin {
		reject.Reason = fmt.Sprintf("distance %d below distance_min %d", race.Distance, f.cfg.DistanceMin)
		return reject
	}
	if f.cfg.DistanceMax > 0 && race.Distance > f.cfg.DistanceMax {
		reject.Reason = fmt.Sprintf("distance %d above distance_max %d", race.Distance, f.cfg.DistanceMax)
		return reject
	}
	if ok, reason := f.evaluateTrackList(race.Track); !ok {
		reject.Reason = reason
		return reject
	}
	if f.cfg.SkipMaiden && race.IsMaiden {
		reject.Reason = "maiden race skipped"
		return reject
	}
	if f.cfg.SkipBadWeather && race.IsBadWeather {
		reject.Reason = "bad-weather race skipped"
		return reject
	}
	if f.cfg.SkipNoUpset && len(race.UpsetCandidates()) == 0 {
		reject.Reason = "no upset candidate in field"
		return reject
	}

	return Decision{
		Accept:         true,
		Reason:         "accepted",
		TierMultiplier: f.tierFor(race.Track),
	}
}

func (f *Filter) evaluateTrackList(track string) (ok bool, reason string) {
	switch f.cfg.TrackMode {
	case TrackModeWhitelist:
		if !contains(f.cfg.TrackList, track) {
			return false, fmt.Sprintf("track %s not on whitelist", track)
		}
	case TrackModeBlacklist:
		if contains(f.cfg.TrackList, track) {
			return false, fmt.Sprintf("track %s on blacklist", track)
		}
	}
	return true, ""
}

func (f *Filter) tierFor(track string) float64 {
	tier, ok := f.cfg.TrackTiers[track]
	if !ok {
		tier = "tier1"
	}
	mult, ok := tierMultiplier[tier]
	if !ok {
		mult = 1.0
	}
	return mult
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
