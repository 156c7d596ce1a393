package filter

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"dealdesk/internal/record"
)

// StorageKey is the durable-store key holding the serialized filter state.
const StorageKey = "dashboard.filters"

// DurableStore is the injected persistence primitive for filter state.
// Implementations are fire-and-forget: they swallow and log their own
// failures rather than surfacing them to the store.
type DurableStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Patch is a partial filter update; nil fields are left untouched.
type Patch struct {
	Search          *string     `json:"search"`
	DealTypes       *[]string   `json:"dealTypes"`
	Statuses        *[]string   `json:"statuses"`
	Schools         *[]string   `json:"schools"`
	DateRange       *DateRange  `json:"dateRange"`
	FMVRange        *[2]float64 `json:"fmvRange"`
	AnalysisResults *[]string   `json:"analysisResults"`
}

// ExportedState is the externally shared snapshot of the filter state.
type ExportedState struct {
	State
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"resultCount"`
}

// Store owns a FilterState and the deal set it filters. Every mutation is
// persisted through the injected durable store; construction restores any
// previously persisted state, falling back to defaults on corrupt payloads.
type Store struct {
	mu      sync.Mutex
	durable DurableStore
	logger  *zap.Logger

	deals []record.Raw
	state State

	filtered []record.Raw
	dirty    bool
}

// NewStore builds a store over the given deals, restoring persisted filter
// state when present.
func NewStore(deals []record.Raw, durable DurableStore, logger *zap.Logger) *Store {
	s := &Store{
		durable: durable,
		logger:  logger,
		deals:   deals,
		state:   Defaults(),
		dirty:   true,
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	if s.durable == nil {
		return
	}
	raw, ok := s.durable.Get(StorageKey)
	if !ok || raw == "" {
		return
	}
	merged, err := mergeOverDefaults([]byte(raw))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("discarding corrupt persisted filter state", zap.Error(err))
		}
		return
	}
	s.state = merged
}

// StateFromJSON merges a JSON payload over the default state, so partial
// payloads behave like partial updates.
func StateFromJSON(data []byte) (State, error) {
	return mergeOverDefaults(data)
}

// mergeOverDefaults merges a persisted or imported payload over the default
// state, field by field. Unknown fields are ignored; an invalid fmv range
// reverts to the default.
func mergeOverDefaults(data []byte) (State, error) {
	var partial Patch
	if err := json.Unmarshal(data, &partial); err != nil {
		return Defaults(), err
	}
	st := Defaults()
	applyPatch(&st, partial)
	return st, nil
}

func applyPatch(st *State, p Patch) {
	if p.Search != nil {
		st.Search = *p.Search
	}
	if p.DealTypes != nil {
		st.DealTypes = cloneStrings(*p.DealTypes)
	}
	if p.Statuses != nil {
		st.Statuses = cloneStrings(*p.Statuses)
	}
	if p.Schools != nil {
		st.Schools = cloneStrings(*p.Schools)
	}
	if p.DateRange != nil {
		st.DateRange = *p.DateRange
	}
	if p.FMVRange != nil {
		r := *p.FMVRange
		if r[0] > r[1] {
			r[0], r[1] = r[1], r[0]
		}
		st.FMVRange = r
	}
	if p.AnalysisResults != nil {
		st.AnalysisResults = cloneStrings(*p.AnalysisResults)
	}
}

// Filters returns a copy of the current state.
func (s *Store) Filters() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// SetDeals replaces the record set the store filters over.
func (s *Store) SetDeals(deals []record.Raw) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = deals
	s.dirty = true
}

// Update applies a partial state change and persists the result.
func (s *Store) Update(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applyPatch(&s.state, p)
	s.dirty = true
	s.persist()
}

// UpdateFilter sets a single field by its JSON name. Unknown keys and
// values of the wrong shape are ignored.
func (s *Store) UpdateFilter(key string, value any) {
	p, ok := patchForKey(key, value)
	if !ok {
		if s.logger != nil {
			s.logger.Warn("ignoring unknown or mistyped filter update", zap.String("key", key))
		}
		return
	}
	s.Update(p)
}

// Reset restores all filters to their defaults and persists.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Defaults()
	s.dirty = true
	s.persist()
}

// Clear resets a single field to its default.
func (s *Store) Clear(key string) {
	defaults := Defaults()
	var p Patch
	switch key {
	case "search":
		p.Search = &defaults.Search
	case "dealTypes":
		p.DealTypes = &defaults.DealTypes
	case "statuses":
		p.Statuses = &defaults.Statuses
	case "schools":
		p.Schools = &defaults.Schools
	case "dateRange":
		p.DateRange = &defaults.DateRange
	case "fmvRange":
		p.FMVRange = &defaults.FMVRange
	case "analysisResults":
		p.AnalysisResults = &defaults.AnalysisResults
	default:
		return
	}
	s.Update(p)
}

// ApplyPreset applies a named quick-filter bundle. Returns false for an
// unknown preset name.
func (s *Store) ApplyPreset(name string) bool {
	var p Patch
	switch name {
	case "recent":
		end := time.Now()
		start := end.Add(-30 * 24 * time.Hour)
		p.DateRange = &DateRange{StartDate: &start, EndDate: &end}
	case "high-value":
		r := [2]float64{25000, 100000}
		p.FMVRange = &r
	case "active", "draft", "completed":
		statuses := []string{name}
		p.Statuses = &statuses
	case "simple", "clearinghouse", "valuation":
		types := []string{name}
		p.DealTypes = &types
	default:
		return false
	}
	s.Update(p)
	return true
}

// Export returns the current state together with a timestamp and the
// current result count.
func (s *Store) Export() ExportedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExportedState{
		State:       cloneState(s.state),
		Timestamp:   time.Now().UTC(),
		ResultCount: len(s.filteredLocked()),
	}
}

// Import replaces the state with a validated merge of the payload over
// defaults. Returns false when the payload is not a JSON object.
func (s *Store) Import(data []byte) bool {
	merged, err := mergeOverDefaults(data)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("rejecting invalid imported filter state", zap.Error(err))
		}
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = merged
	s.dirty = true
	s.persist()
	return true
}

// FilteredDeals applies the current predicate to the deal set. The result
// is memoized until the filters or the deals change.
func (s *Store) FilteredDeals() []record.Raw {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *Store) filteredLocked() []record.Raw {
	if s.dirty {
		s.filtered = Apply(s.deals, s.state)
		s.dirty = false
	}
	return s.filtered
}

// ActiveFilterCount reports how many of the seven fields are constraining.
func (s *Store) ActiveFilterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return activeCount(s.state)
}

// HasActiveFilters reports whether any filter is constraining.
func (s *Store) HasActiveFilters() bool {
	return s.ActiveFilterCount() > 0
}

func activeCount(st State) int {
	count := 0
	if strings.TrimSpace(st.Search) != "" {
		count++
	}
	if len(st.DealTypes) > 0 {
		count++
	}
	if len(st.Statuses) > 0 {
		count++
	}
	if len(st.Schools) > 0 {
		count++
	}
	if st.DateRange.StartDate != nil && st.DateRange.EndDate != nil {
		count++
	}
	if st.FMVRange[0] > defaultFMVMin || st.FMVRange[1] < defaultFMVMax {
		count++
	}
	if len(st.AnalysisResults) > 0 {
		count++
	}
	return count
}

// Summary renders one human-readable line per active filter field.
func (s *Store) Summary() []string {
	s.mu.Lock()
	st := cloneState(s.state)
	s.mu.Unlock()

	summary := []string{}
	if strings.TrimSpace(st.Search) != "" {
		summary = append(summary, fmt.Sprintf("Search: %q", st.Search))
	}
	if len(st.DealTypes) > 0 {
		summary = append(summary, "Types: "+strings.Join(st.DealTypes, ", "))
	}
	if len(st.Statuses) > 0 {
		summary = append(summary, "Status: "+strings.Join(st.Statuses, ", "))
	}
	if len(st.Schools) > 0 {
		text := strings.Join(st.Schools, ", ")
		if len(st.Schools) > 2 {
			text = fmt.Sprintf("%s +%d more", strings.Join(st.Schools[:2], ", "), len(st.Schools)-2)
		}
		summary = append(summary, "Schools: "+text)
	}
	if st.DateRange.StartDate != nil && st.DateRange.EndDate != nil {
		summary = append(summary, fmt.Sprintf("Date: %s - %s",
			st.DateRange.StartDate.Format("Jan 2, 2006"),
			st.DateRange.EndDate.Format("Jan 2, 2006")))
	}
	if st.FMVRange[0] > defaultFMVMin || st.FMVRange[1] < defaultFMVMax {
		summary = append(summary, fmt.Sprintf("FMV: %s - %s",
			compactMoney(st.FMVRange[0]), compactMoney(st.FMVRange[1])))
	}
	if len(st.AnalysisResults) > 0 {
		summary = append(summary, "Analysis: "+strings.Join(st.AnalysisResults, ", "))
	}
	return summary
}

func (s *Store) persist() {
	if s.durable == nil {
		return
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to serialize filter state", zap.Error(err))
		}
		return
	}
	s.durable.Set(StorageKey, string(data))
}

func patchForKey(key string, value any) (Patch, bool) {
	var p Patch
	switch key {
	case "search":
		v, ok := value.(string)
		if !ok {
			return p, false
		}
		p.Search = &v
	case "dealTypes", "statuses", "schools", "analysisResults":
		items, ok := toStringSlice(value)
		if !ok {
			return p, false
		}
		switch key {
		case "dealTypes":
			p.DealTypes = &items
		case "statuses":
			p.Statuses = &items
		case "schools":
			p.Schools = &items
		default:
			p.AnalysisResults = &items
		}
	case "dateRange":
		dr, ok := toDateRange(value)
		if !ok {
			return p, false
		}
		p.DateRange = &dr
	case "fmvRange":
		r, ok := toFMVRange(value)
		if !ok {
			return p, false
		}
		p.FMVRange = &r
	default:
		return p, false
	}
	return p, true
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return cloneStrings(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toDateRange(value any) (DateRange, bool) {
	switch v := value.(type) {
	case DateRange:
		return v, true
	case *DateRange:
		if v == nil {
			return DateRange{}, true
		}
		return *v, true
	case map[string]any:
		var dr DateRange
		if t, ok := record.SafeDate(v["startDate"]); ok {
			dr.StartDate = &t
		}
		if t, ok := record.SafeDate(v["endDate"]); ok {
			dr.EndDate = &t
		}
		return dr, true
	default:
		return DateRange{}, false
	}
}

func toFMVRange(value any) ([2]float64, bool) {
	switch v := value.(type) {
	case [2]float64:
		return v, true
	case []float64:
		if len(v) != 2 {
			return [2]float64{}, false
		}
		return [2]float64{v[0], v[1]}, true
	case []any:
		if len(v) != 2 {
			return [2]float64{}, false
		}
		return [2]float64{record.SafeNumber(v[0]), record.SafeNumber(v[1])}, true
	default:
		return [2]float64{}, false
	}
}

func cloneState(st State) State {
	out := st
	out.DealTypes = cloneStrings(st.DealTypes)
	out.Statuses = cloneStrings(st.Statuses)
	out.Schools = cloneStrings(st.Schools)
	out.AnalysisResults = cloneStrings(st.AnalysisResults)
	return out
}

func cloneStrings(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func compactMoney(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("$%.0fK", v/1000)
	}
	return fmt.Sprintf("$%.0f", v)
}
