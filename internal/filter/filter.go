package filter

import (
	"strings"
	"time"

	"dealdesk/internal/record"
)

// DateRange bounds created_at; both ends must be set for the filter to apply.
type DateRange struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// State is the closed set of dashboard filter criteria. Exactly these seven
// fields are persisted; unknown keys in stored payloads are dropped on load.
type State struct {
	Search          string     `json:"search"`
	DealTypes       []string   `json:"dealTypes"`
	Statuses        []string   `json:"statuses"`
	Schools         []string   `json:"schools"`
	DateRange       DateRange  `json:"dateRange"`
	FMVRange        [2]float64 `json:"fmvRange"`
	AnalysisResults []string   `json:"analysisResults"`
}

const (
	defaultFMVMin = 0
	defaultFMVMax = 100000
)

// Defaults returns the unfiltered state.
func Defaults() State {
	return State{
		DealTypes:       []string{},
		Statuses:        []string{},
		Schools:         []string{},
		FMVRange:        [2]float64{defaultFMVMin, defaultFMVMax},
		AnalysisResults: []string{},
	}
}

// Apply returns the records matching every active criterion. Empty criteria
// are no-ops, so the default state passes everything through.
func Apply(deals []record.Raw, st State) []record.Raw {
	if deals == nil {
		return []record.Raw{}
	}
	pred := Predicate(st)
	out := make([]record.Raw, 0, len(deals))
	for _, d := range deals {
		if pred(record.Normalize(d)) {
			out = append(out, d)
		}
	}
	return out
}

// Predicate composes the filter state into a single AND of sub-predicates
// over normalized records.
func Predicate(st State) func(record.Normalized) bool {
	search := strings.ToLower(strings.TrimSpace(st.Search))
	types := toSet(st.DealTypes)
	statuses := toSet(st.Statuses)
	schools := toSet(st.Schools)
	fmvActive := st.FMVRange[0] > defaultFMVMin || st.FMVRange[1] < defaultFMVMax

	return func(r record.Normalized) bool {
		if search != "" && !matchesSearch(r, search) {
			return false
		}
		if len(types) > 0 && !types[r.DealType] {
			return false
		}
		if len(statuses) > 0 && !statuses[r.Status] {
			return false
		}
		// A record without a school is not excluded by a school filter.
		if len(schools) > 0 && r.School != "" && !schools[r.School] {
			return false
		}
		if !matchesDateRange(r, st.DateRange) {
			return false
		}
		if fmvActive && !matchesFMVRange(r, st.FMVRange) {
			return false
		}
		if len(st.AnalysisResults) > 0 && !matchesAnalysisResults(r, st.AnalysisResults) {
			return false
		}
		return true
	}
}

func matchesSearch(r record.Normalized, term string) bool {
	fields := []string{
		r.BrandPartner,
		r.PayorName,
		r.School,
		r.AthleteName,
		r.Description,
		r.DealType,
		r.Status,
		r.ClearinghousePrediction,
		r.ValuationPrediction,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func matchesDateRange(r record.Normalized, dr DateRange) bool {
	if dr.StartDate == nil || dr.EndDate == nil {
		return true
	}
	when := r.CreatedAt
	ok := r.CreatedOK
	if !ok {
		when, ok = r.UpdatedAt, r.UpdatedOK
	}
	if !ok {
		return false
	}
	start := *dr.StartDate
	end := endOfDay(*dr.EndDate)
	return !when.Before(start) && !when.After(end)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

func matchesFMVRange(r record.Normalized, fmvRange [2]float64) bool {
	v := r.Value()
	return v >= fmvRange[0] && v <= fmvRange[1]
}

// Analysis-result matching is substring-based against both prediction
// fields, in either family.
func matchesAnalysisResults(r record.Normalized, wanted []string) bool {
	predictions := []string{r.ClearinghousePrediction, r.ValuationPrediction}
	for _, want := range wanted {
		w := strings.ToLower(want)
		for _, p := range predictions {
			if p != "" && strings.Contains(strings.ToLower(p), w) {
				return true
			}
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
