package export

import (
	"strings"
	"testing"
	"time"

	"dealdesk/internal/analytics"
	"dealdesk/internal/record"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1500, "$1,500"},
		{1234567.89, "$1,234,568"},
		{-500, "-$500"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Fatalf("FormatCurrency(%v)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	got := ReportFilename("kpi_report", "30d", now)
	if got != "kpi_report_30d_2024-06-15" {
		t.Fatalf("filename=%q", got)
	}
}

func TestDealsReport_FallbacksAndFormatting(t *testing.T) {
	rows := DealsReport([]record.Raw{
		{
			"id": "1", "brand_partner": "Nike", "deal_type": "clearinghouse",
			"status": "active", "fmv": 1500.0, "created_at": "2024-06-01",
			"school": "State University",
		},
		{"id": "2"},
	})
	if len(rows) != 2 {
		t.Fatalf("rows=%d want=2", len(rows))
	}

	first := ToCSV(rows[:1])
	if !strings.Contains(first, "1500.00") {
		t.Fatalf("fmv not formatted with cents: %q", first)
	}
	if !strings.Contains(first, "2024-06-01") {
		t.Fatalf("created date missing: %q", first)
	}

	second := rows[1]
	if second[1].Value != "N/A" {
		t.Fatalf("missing brand partner=%v want N/A", second[1].Value)
	}
	if second[2].Value != "simple" {
		t.Fatalf("missing type=%v want simple", second[2].Value)
	}
	if second[3].Value != "draft" {
		t.Fatalf("missing status=%v want draft", second[3].Value)
	}
}

func TestKPIReport_TrendFormatting(t *testing.T) {
	res := analytics.Result{
		Current:  analytics.Aggregate{TotalDeals: 2, TotalValue: 30000, AvgDealValue: 15000, CompletionRate: 50},
		Previous: analytics.Aggregate{TotalDeals: 1, TotalValue: 10000, AvgDealValue: 10000, CompletionRate: 100},
		Trends:   analytics.Trends{TotalDeals: 100, TotalValue: 200, CompletionRate: -50},
	}
	rows := KPIReport(res)
	if len(rows) != 6 {
		t.Fatalf("rows=%d want=6", len(rows))
	}
	csv := ToCSV(rows)
	if !strings.Contains(csv, "100.0%") {
		t.Fatalf("trend percent missing: %q", csv)
	}
	if !strings.Contains(csv, `"$30,000"`) {
		t.Fatalf("currency not formatted: %q", csv)
	}
	if !strings.Contains(csv, "-50.0%") {
		t.Fatalf("negative trend missing: %q", csv)
	}
}

func TestCompensationReport_Percentages(t *testing.T) {
	rows := CompensationReport([]analytics.CompensationBucket{
		{Range: "$0 - $1,000", Count: 3},
		{Range: "$1,001 - $5,000", Count: 1},
	})
	csv := ToCSV(rows)
	if !strings.Contains(csv, "75.0%") || !strings.Contains(csv, "25.0%") {
		t.Fatalf("percentages wrong: %q", csv)
	}
}

func TestCompensationReport_ZeroTotal(t *testing.T) {
	rows := CompensationReport([]analytics.CompensationBucket{{Range: "$0 - $1,000"}})
	if rows[0][2].Value != "0%" {
		t.Fatalf("zero-total percentage=%v want 0%%", rows[0][2].Value)
	}
}

func TestBuildComprehensive_Envelope(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	report := BuildComprehensive(
		"30d",
		analytics.Result{Current: analytics.Aggregate{TotalDeals: 3, TotalValue: 45000}},
		make([]analytics.MonthBucket, 12),
		nil, nil,
		analytics.Accuracy{Clearinghouse: 50},
		now,
	)
	if report.Summary["Date Range"] != "30d" {
		t.Fatalf("date range=%v", report.Summary["Date Range"])
	}
	if report.Summary["Total Value"] != "$45,000" {
		t.Fatalf("total value=%v", report.Summary["Total Value"])
	}
	if report.Summary["Report Generated"] != "2024-06-15T10:00:00Z" {
		t.Fatalf("generated=%v", report.Summary["Report Generated"])
	}
	if len(report.MonthlyData) != 12 {
		t.Fatalf("monthly len=%d want=12", len(report.MonthlyData))
	}
	if report.PredictionAccuracy.Clearinghouse != 50 {
		t.Fatalf("accuracy=%v", report.PredictionAccuracy.Clearinghouse)
	}
}
