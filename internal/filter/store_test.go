package filter

import (
	"encoding/json"
	"strings"
	"testing"

	"dealdesk/internal/record"
)

type fakeDurable struct {
	values map[string]string
	sets   int
}

func (f *fakeDurable) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeDurable) Set(key, value string) {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	f.sets++
}

func TestNewStore_RestoresPersistedState(t *testing.T) {
	durable := &fakeDurable{values: map[string]string{
		StorageKey: `{"search":"nike","statuses":["active"],"unknownField":true}`,
	}}
	s := NewStore(nil, durable, nil)

	st := s.Filters()
	if st.Search != "nike" {
		t.Fatalf("search=%q want=nike", st.Search)
	}
	if len(st.Statuses) != 1 || st.Statuses[0] != "active" {
		t.Fatalf("statuses=%v want [active]", st.Statuses)
	}
	// Untouched fields keep their defaults; unknown keys are dropped.
	if st.FMVRange != [2]float64{0, 100000} {
		t.Fatalf("fmvRange=%v want default", st.FMVRange)
	}
}

func TestNewStore_CorruptPayloadFallsBackToDefaults(t *testing.T) {
	durable := &fakeDurable{values: map[string]string{StorageKey: `{not json`}}
	s := NewStore(nil, durable, nil)
	if s.HasActiveFilters() {
		t.Fatalf("corrupt payload produced active filters: %+v", s.Filters())
	}
}

func TestUpdate_PersistsEveryMutation(t *testing.T) {
	durable := &fakeDurable{}
	s := NewStore(nil, durable, nil)

	search := "jordan"
	s.Update(Patch{Search: &search})
	if durable.sets != 1 {
		t.Fatalf("sets=%d want=1", durable.sets)
	}
	if !strings.Contains(durable.values[StorageKey], "jordan") {
		t.Fatalf("persisted payload missing update: %s", durable.values[StorageKey])
	}

	// A new store over the same durable store sees the mutation.
	s2 := NewStore(nil, durable, nil)
	if s2.Filters().Search != "jordan" {
		t.Fatalf("restored search=%q want=jordan", s2.Filters().Search)
	}
}

func TestImport_SwapsInvertedFMVRange(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	if !s.Import([]byte(`{"fmvRange":[50000,1000]}`)) {
		t.Fatalf("import rejected valid payload")
	}
	if got := s.Filters().FMVRange; got != [2]float64{1000, 50000} {
		t.Fatalf("fmvRange=%v want swapped", got)
	}
}

func TestImport_RejectsNonObject(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	search := "keep"
	s.Update(Patch{Search: &search})
	if s.Import([]byte(`"just a string"`)) {
		t.Fatalf("import accepted non-object payload")
	}
	if s.Filters().Search != "keep" {
		t.Fatalf("failed import clobbered state")
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	search := "x"
	s.Update(Patch{Search: &search, Statuses: &[]string{"active"}})
	if s.ActiveFilterCount() != 2 {
		t.Fatalf("active=%d want=2", s.ActiveFilterCount())
	}
	s.Reset()
	if s.HasActiveFilters() {
		t.Fatalf("reset left active filters: %+v", s.Filters())
	}
}

func TestClear_SingleField(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	search := "x"
	s.Update(Patch{Search: &search, Schools: &[]string{"State"}})
	s.Clear("search")
	st := s.Filters()
	if st.Search != "" {
		t.Fatalf("search=%q want cleared", st.Search)
	}
	if len(st.Schools) != 1 {
		t.Fatalf("clear touched unrelated field: %v", st.Schools)
	}
}

func TestApplyPreset(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	if !s.ApplyPreset("high-value") {
		t.Fatalf("high-value preset rejected")
	}
	if got := s.Filters().FMVRange; got != [2]float64{25000, 100000} {
		t.Fatalf("fmvRange=%v want [25000 100000]", got)
	}
	if !s.ApplyPreset("completed") {
		t.Fatalf("completed preset rejected")
	}
	if got := s.Filters().Statuses; len(got) != 1 || got[0] != "completed" {
		t.Fatalf("statuses=%v want [completed]", got)
	}
	if s.ApplyPreset("nope") {
		t.Fatalf("unknown preset accepted")
	}
}

func TestFilteredDeals_MemoizedAndRefreshed(t *testing.T) {
	deals := []record.Raw{
		{"id": "1", "status": "active"},
		{"id": "2", "status": "draft"},
	}
	s := NewStore(deals, &fakeDurable{}, nil)
	s.Update(Patch{Statuses: &[]string{"active"}})
	if got := s.FilteredDeals(); len(got) != 1 || got[0]["id"] != "1" {
		t.Fatalf("filtered=%v want deal 1", got)
	}

	s.SetDeals(append(deals, record.Raw{"id": "3", "status": "active"}))
	if got := s.FilteredDeals(); len(got) != 2 {
		t.Fatalf("after SetDeals filtered=%d want=2", len(got))
	}
}

func TestExport_CarriesResultCount(t *testing.T) {
	deals := []record.Raw{
		{"id": "1", "status": "active"},
		{"id": "2", "status": "draft"},
	}
	s := NewStore(deals, &fakeDurable{}, nil)
	s.Update(Patch{Statuses: &[]string{"draft"}})

	exported := s.Export()
	if exported.ResultCount != 1 {
		t.Fatalf("resultCount=%d want=1", exported.ResultCount)
	}
	if exported.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}

	// Round trip: an exported state is importable.
	data, err := json.Marshal(exported)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s2 := NewStore(deals, &fakeDurable{}, nil)
	if !s2.Import(data) {
		t.Fatalf("exported state not importable")
	}
	if got := s2.Filters().Statuses; len(got) != 1 || got[0] != "draft" {
		t.Fatalf("round-tripped statuses=%v", got)
	}
}

func TestUpdateFilter_IgnoresUnknownKeysAndBadShapes(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	s.UpdateFilter("bogus", "x")
	s.UpdateFilter("search", 42)
	if s.HasActiveFilters() {
		t.Fatalf("invalid updates changed state: %+v", s.Filters())
	}
	s.UpdateFilter("search", "nike")
	if s.Filters().Search != "nike" {
		t.Fatalf("valid update ignored")
	}
}

func TestSummary_ActiveFieldsOnly(t *testing.T) {
	s := NewStore(nil, &fakeDurable{}, nil)
	if got := s.Summary(); len(got) != 0 {
		t.Fatalf("default summary=%v want empty", got)
	}
	search := "nike"
	s.Update(Patch{
		Search:  &search,
		Schools: &[]string{"A", "B", "C"},
	})
	summary := s.Summary()
	if len(summary) != 2 {
		t.Fatalf("summary=%v want 2 lines", summary)
	}
	if !strings.Contains(summary[1], "+1 more") {
		t.Fatalf("school summary=%q want truncation", summary[1])
	}
}
