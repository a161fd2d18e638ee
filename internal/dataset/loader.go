// Package dataset loads the tab-separated race dataset (§6.1) into the
// race data model. Parsing and row/race validation are deliberately
// out-of-scope for the simulation core per §1; this package is the
// external collaborator the spec describes but does not specify.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/ports"
)

var requiredColumns = []string{
	"track", "year", "kaisai_date", "race_number", "surface", "distance",
	"horse_number", "horse_name", "win_odds", "popularity_rank",
	"actual_finish_rank", "predicted_rank", "predicted_score",
}

// Loader parses the TSV format described in §6.1 into domain.Race values,
// one per (track, year, kaisai_date, race_number) group.
type Loader struct{}

// New builds a Loader.
func New() *Loader { return &Loader{} }

// Load reads path and returns the races it could build, plus a report of
// what was skipped. Per §7, row-level problems downgrade to warnings and
// drop the row; race-level structural problems drop the race; the load
// itself only fails if the file cannot be opened or the header is
// missing a required column.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Race, ports.DatasetReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ports.DatasetReport{}, fmt.Errorf("dataset.Load: open %s: %w", path, domain.ErrDatasetNotFound)
	}
	defer f.Close()
	return l.parse(f, path)
}

func (l *Loader) parse(r io.Reader, source string) ([]domain.Race, ports.DatasetReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, ports.DatasetReport{}, fmt.Errorf("dataset.Load: %s: read header: %w", source, domain.ErrDatasetInvalidFormat)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, req := range requiredColumns {
		if _, ok := colIdx[req]; !ok {
			return nil, ports.DatasetReport{}, fmt.Errorf("dataset.Load: %s: missing column %s: %w", source, req, domain.ErrDatasetMissingColumn)
		}
	}

	report := ports.DatasetReport{}
	type raceKey struct {
		track string
		year, kaisaiDate, raceNumber int
	}
	races := make(map[raceKey]*domain.Race)
	var order []raceKey

	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			report.RowsRejected++
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		report.RowsRead++

		key, horse, extra, warnErr := parseRow(row, colIdx)
		if warnErr != nil {
			report.RowsRejected++
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %v", rowNum, warnErr))
			continue
		}

		race, ok := races[key]
		if !ok {
			race = &domain.Race{
				Track: key.track, Year: key.year, KaisaiDate: key.kaisaiDate, RaceNumber: key.raceNumber,
				Surface: extra.surface, Distance: extra.distance, Confidence: extra.confidence,
				IsMaiden: extra.isMaiden, IsBadWeather: extra.isBadWeather,
				CombinationOdds: map[domain.TicketKind]map[string]float64{},
			}
			races[key] = race
			order = append(order, key)
		}

		duplicate := false
		for _, existing := range race.Horses {
			if existing.Number == horse.Number {
				duplicate = true
				break
			}
		}
		if duplicate {
			report.RowsRejected++
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: duplicate horse number %d in race", rowNum, horse.Number))
			continue
		}
		race.Horses = append(race.Horses, horse)
		mergeCombinationOdds(race, horse.Number, extra.comboOdds)
	}

	result := make([]domain.Race, 0, len(order))
	for _, key := range order {
		race := races[key]
		if len(race.Horses) == 0 {
			report.RacesRejected++
			continue
		}
		sort.SliceStable(race.Horses, func(i, j int) bool { return race.Horses[i].Number < race.Horses[j].Number })
		result = append(result, *race)
		report.RacesBuilt++
	}
	return result, report, nil
}

type rowExtra struct {
	surface      domain.Surface
	distance     int
	confidence   float64
	isMaiden     bool
	isBadWeather bool
	comboOdds    map[string]comboEntry
}

type comboEntry struct {
	kind    domain.TicketKind
	numbers []int
	odds    float64
}

func parseRow(row []string, colIdx map[string]int) (key struct {
	track                        string
	year, kaisaiDate, raceNumber int
}, horse domain.Horse, extra rowExtra, err error) {
	get := func(name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	year, e1 := strconv.Atoi(get("year"))
	kaisaiDate, e2 := strconv.Atoi(get("kaisai_date"))
	raceNumber, e3 := strconv.Atoi(get("race_number"))
	number, e4 := strconv.Atoi(get("horse_number"))
	odds, e5 := strconv.ParseFloat(get("win_odds"), 64)
	popularity, e6 := strconv.Atoi(get("popularity_rank"))
	predictedRank, e7 := strconv.Atoi(get("predicted_rank"))
	predictedScore, e8 := strconv.ParseFloat(get("predicted_score"), 64)
	distance, e9 := strconv.Atoi(get("distance"))
	for _, e := range []error{e1, e2, e3, e4, e5, e6, e7, e8, e9} {
		if e != nil {
			err = fmt.Errorf("%w: %v", domain.ErrDatasetInvalidValue, e)
			return
		}
	}

	key.track = get("track")
	key.year = year
	key.kaisaiDate = kaisaiDate
	key.raceNumber = raceNumber

	horse, herr := domain.NewHorse(number, get("horse_name"), odds, popularity, predictedRank, predictedScore)
	if herr != nil {
		err = herr
		return
	}

	if rank := get("actual_finish_rank"); rank != "" {
		if v, e := strconv.Atoi(rank); e == nil {
			if v >= 90 {
				v = domain.FinishDNF
			}
			horse.ActualRank = v
		}
	}
	if v := get("upset_prob"); v != "" {
		if f, e := strconv.ParseFloat(v, 64); e == nil {
			horse.UpsetProb = f
		}
	}
	if v := get("is_upset_candidate"); v != "" {
		horse.IsUpsetCandidate = parseBool(v)
	}
	if v := get("place_odds_min"); v != "" {
		if f, e := strconv.ParseFloat(v, 64); e == nil {
			horse.PlaceOddsMin = f
		}
	}
	if v := get("place_odds_max"); v != "" {
		if f, e := strconv.ParseFloat(v, 64); e == nil {
			horse.PlaceOddsMax = f
		}
	}

	extra.distance = distance
	switch strings.ToLower(get("surface")) {
	case "dirt":
		extra.surface = domain.SurfaceDirt
	default:
		extra.surface = domain.SurfaceTurf
	}
	if v := get("confidence"); v != "" {
		if f, e := strconv.ParseFloat(v, 64); e == nil {
			extra.confidence = f
		}
	}
	extra.isMaiden = parseBool(get("is_maiden"))
	extra.isBadWeather = parseBool(get("is_bad_weather"))
	extra.comboOdds = parseComboColumns(row, colIdx, number)

	return
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// parseComboColumns recognizes optional columns named
// "<kind>_odds_<partner>[_<partner>]" (e.g. "quinella_odds_5",
// "trifecta_odds_5_9") as the per-combination odds table entry for this
// horse combined with the listed partners (§6.1).
func parseComboColumns(row []string, colIdx map[string]int, horseNumber int) map[string]comboEntry {
	kinds := map[string]domain.TicketKind{
		"quinella": domain.KindQuinella, "wide": domain.KindWide,
		"exacta": domain.KindExacta, "trio": domain.KindTrio, "trifecta": domain.KindTrifecta,
	}
	out := map[string]comboEntry{}
	for name, idx := range colIdx {
		if idx >= len(row) {
			continue
		}
		parts := strings.Split(name, "_odds_")
		if len(parts) != 2 {
			continue
		}
		kind, ok := kinds[parts[0]]
		if !ok {
			continue
		}
		raw := strings.TrimSpace(row[idx])
		if raw == "" {
			continue
		}
		odds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		partners := strings.Split(parts[1], "_")
		numbers := []int{horseNumber}
		for _, p := range partners {
			n, err := strconv.Atoi(p)
			if err == nil {
				numbers = append(numbers, n)
			}
		}
		out[name] = comboEntry{kind: kind, numbers: numbers, odds: odds}
	}
	return out
}

func mergeCombinationOdds(race *domain.Race, _ int, combos map[string]comboEntry) {
	for _, c := range combos {
		table, ok := race.CombinationOdds[c.kind]
		if !ok {
			table = map[string]float64{}
			race.CombinationOdds[c.kind] = table
		}
		key := domain.NewTicket(c.kind, c.numbers, 0, "", 0).Key()
		table[key] = c.odds
	}
}
