package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dealdesk/internal/analytics"
	"dealdesk/internal/filter"
	"dealdesk/internal/models"
)

func testDeal(status string, fmv float64, created time.Time) models.Deal {
	return models.Deal{
		BrandPartner: "Nike",
		School:       "State University",
		DealType:     "simple",
		Status:       status,
		FMV:          decimal.NewFromFloat(fmv),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestAnalyticsService_Overview(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo(
		testDeal("active", 10000, now.AddDate(0, 0, -5)),
		testDeal("completed", 20000, now.AddDate(0, 0, -10)),
		testDeal("draft", 500, now.AddDate(-1, 0, 0)),
	)
	svc := &AnalyticsService{
		Repo:         repo,
		Engine:       &analytics.Engine{Now: func() time.Time { return now }},
		DefaultRange: "30d",
	}

	res, err := svc.Overview(context.Background(), "")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if res.Current.TotalDeals != 2 {
		t.Fatalf("total=%d want=2 (year-old deal outside default range)", res.Current.TotalDeals)
	}
	if res.Current.TotalValue != 30000 {
		t.Fatalf("value=%v want=30000", res.Current.TotalValue)
	}
}

func TestAnalyticsService_RangeTokenFallbacks(t *testing.T) {
	svc := &AnalyticsService{DefaultRange: "7d"}
	if got := svc.rangeToken(""); got != "7d" {
		t.Fatalf("rangeToken('')=%q want=7d", got)
	}
	if got := svc.rangeToken(" 90d "); got != "90d" {
		t.Fatalf("rangeToken(90d)=%q", got)
	}
	if got := (&AnalyticsService{}).rangeToken(""); got != analytics.Range30d {
		t.Fatalf("unset default=%q want=30d", got)
	}
}

func TestDealService_MutationsRefreshFilterStore(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo(testDeal("active", 10000, now))
	analyticsSvc := &AnalyticsService{
		Repo:   repo,
		Engine: &analytics.Engine{Now: func() time.Time { return now }},
	}

	records, err := analyticsSvc.Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	store := filter.NewStore(records, nil, nil)
	svc := &DealService{Repo: repo, Filters: store, Analytics: analyticsSvc}

	next := testDeal("draft", 500, now)
	if err := svc.Create(context.Background(), &next); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := len(store.FilteredDeals()); got != 2 {
		t.Fatalf("filter store sees %d deals after create, want 2", got)
	}

	if err := svc.Delete(context.Background(), next.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(store.FilteredDeals()); got != 1 {
		t.Fatalf("filter store sees %d deals after delete, want 1", got)
	}
}

func TestDealService_QueryFiltersAndSorts(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo(
		testDeal("active", 30000, now.AddDate(0, 0, -1)),
		testDeal("active", 10000, now.AddDate(0, 0, -2)),
		testDeal("draft", 20000, now.AddDate(0, 0, -3)),
	)
	svc := &DealService{
		Repo:      repo,
		Analytics: &AnalyticsService{Repo: repo, Engine: &analytics.Engine{}},
	}

	st := filter.Defaults()
	st.Statuses = []string{"active"}
	got, err := svc.Query(context.Background(), st, filter.SortConfig{Key: "fmv", Direction: "ascending"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("query got %d records want 2", len(got))
	}
	first, _ := got[0]["fmv"].(float64)
	second, _ := got[1]["fmv"].(float64)
	if first != 10000 || second != 30000 {
		t.Fatalf("sort order %v/%v want 10000/30000", first, second)
	}
}

func TestDashboardSettingsService_RoundTrip(t *testing.T) {
	repo := newStubRepo()
	svc := &DashboardSettingsService{Repo: repo}

	if _, ok := svc.Get(filter.StorageKey); ok {
		t.Fatalf("empty store returned a value")
	}
	svc.Set(filter.StorageKey, `{"search":"nike"}`)
	got, ok := svc.Get(filter.StorageKey)
	if !ok {
		t.Fatalf("value not found after set")
	}
	if !strings.Contains(got, "nike") {
		t.Fatalf("value=%q want search payload", got)
	}
}

func TestSnapshotService_Capture(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo(
		testDeal("active", 10000, now.AddDate(0, 0, -5)),
		testDeal("completed", 20000, now.AddDate(0, 0, -6)),
	)
	svc := &SnapshotService{
		Repo: repo,
		Analytics: &AnalyticsService{
			Repo:   repo,
			Engine: &analytics.Engine{Now: func() time.Time { return now }},
		},
		Range: "30d",
	}

	if err := svc.Capture(context.Background()); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(repo.snapshots) != 1 {
		t.Fatalf("snapshots=%d want=1", len(repo.snapshots))
	}
	snap := repo.snapshots[0]
	if snap.RangeToken != "30d" {
		t.Fatalf("range=%q want=30d", snap.RangeToken)
	}
	if snap.TotalDeals != 2 {
		t.Fatalf("total=%d want=2", snap.TotalDeals)
	}
	if len(snap.Payload) == 0 {
		t.Fatalf("payload empty")
	}
}
