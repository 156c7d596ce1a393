package export

import (
	"fmt"
	"strings"
	"time"

	"dealdesk/internal/analytics"
	"dealdesk/internal/record"
)

// ComprehensiveReport is the JSON envelope bundling every analytics view.
type ComprehensiveReport struct {
	Summary            map[string]any                 `json:"summary"`
	Trends             analytics.Trends               `json:"trends"`
	MonthlyData        []analytics.MonthBucket        `json:"monthlyData"`
	DealTypes          []analytics.TypeBreakdown      `json:"dealTypes"`
	CompensationRanges []analytics.CompensationBucket `json:"compensationRanges"`
	PredictionAccuracy analytics.Accuracy             `json:"predictionAccuracy"`
}

// DealsReport tabulates raw deal records for CSV export.
func DealsReport(deals []record.Raw) []Row {
	rows := make([]Row, 0, len(deals))
	for _, d := range deals {
		r := record.Normalize(d)
		created := ""
		if r.CreatedOK {
			created = r.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, Row{
			{"Deal ID", orNA(r.ID)},
			{"Brand Partner", orNA(r.BrandPartner)},
			{"Deal Type", r.Type()},
			{"Status", orDefault(r.Status, "draft")},
			{"FMV", fmt.Sprintf("%.2f", r.FMV)},
			{"Created Date", created},
			{"School", orNA(r.School)},
			{"Clearinghouse Prediction", orNA(r.ClearinghousePrediction)},
			{"Clearinghouse Result", orNA(r.ClearinghouseResult)},
			{"Valuation Range", orNA(r.ValuationRange)},
		})
	}
	return rows
}

// KPIReport tabulates current/previous aggregates with their trends.
func KPIReport(res analytics.Result) []Row {
	metric := func(name, current, previous string, trend float64) Row {
		return Row{
			{"Metric", name},
			{"Current", current},
			{"Previous", previous},
			{"Trend", fmt.Sprintf("%.1f%%", trend)},
		}
	}
	cur, prev, tr := res.Current, res.Previous, res.Trends
	return []Row{
		metric("Total Deals", fmt.Sprint(cur.TotalDeals), fmt.Sprint(prev.TotalDeals), tr.TotalDeals),
		metric("Total Value", FormatCurrency(cur.TotalValue), FormatCurrency(prev.TotalValue), tr.TotalValue),
		metric("Active Deals", fmt.Sprint(cur.ActiveDeals), fmt.Sprint(prev.ActiveDeals), tr.ActiveDeals),
		metric("Completed Deals", fmt.Sprint(cur.CompletedDeals), fmt.Sprint(prev.CompletedDeals), tr.CompletedDeals),
		metric("Average Deal Value", FormatCurrency(cur.AvgDealValue), FormatCurrency(prev.AvgDealValue), tr.AvgDealValue),
		metric("Completion Rate",
			fmt.Sprintf("%.1f%%", cur.CompletionRate),
			fmt.Sprintf("%.1f%%", prev.CompletionRate),
			tr.CompletionRate),
	}
}

// MonthlyReport tabulates the trailing-12-month series.
func MonthlyReport(series []analytics.MonthBucket) []Row {
	rows := make([]Row, 0, len(series))
	for _, m := range series {
		avg := "$0"
		if m.Deals > 0 {
			avg = FormatCurrency(m.Value / float64(m.Deals))
		}
		rows = append(rows, Row{
			{"Month", m.Month},
			{"Total Deals", m.Deals},
			{"Total Value", FormatCurrency(m.Value)},
			{"Active Deals", m.Active},
			{"Completed Deals", m.Completed},
			{"Average Deal Value", avg},
		})
	}
	return rows
}

// DealTypeReport tabulates the deal-type breakdown.
func DealTypeReport(types []analytics.TypeBreakdown) []Row {
	rows := make([]Row, 0, len(types))
	for _, t := range types {
		avg := "$0"
		if t.Count > 0 {
			avg = FormatCurrency(t.Value / float64(t.Count))
		}
		rows = append(rows, Row{
			{"Deal Type", t.Type},
			{"Count", t.Count},
			{"Total Value", FormatCurrency(t.Value)},
			{"Average Value", avg},
		})
	}
	return rows
}

// CompensationReport tabulates the FMV histogram with per-band shares.
func CompensationReport(bands []analytics.CompensationBucket) []Row {
	total := 0
	for _, b := range bands {
		total += b.Count
	}
	rows := make([]Row, 0, len(bands))
	for _, b := range bands {
		pct := "0%"
		if total > 0 {
			pct = fmt.Sprintf("%.1f%%", float64(b.Count)/float64(total)*100)
		}
		rows = append(rows, Row{
			{"Compensation Range", b.Range},
			{"Deal Count", b.Count},
			{"Percentage", pct},
		})
	}
	return rows
}

// AccuracyReport tabulates prediction accuracy per analysis family.
func AccuracyReport(acc analytics.Accuracy) []Row {
	return []Row{
		{
			{"Prediction Type", "Clearinghouse"},
			{"Accuracy", fmt.Sprintf("%.1f%%", acc.Clearinghouse)},
		},
		{
			{"Prediction Type", "Valuation"},
			{"Accuracy", fmt.Sprintf("%.1f%%", acc.Valuation)},
		},
	}
}

// BuildComprehensive assembles the full JSON report envelope.
func BuildComprehensive(
	rangeToken string,
	kpis analytics.Result,
	monthly []analytics.MonthBucket,
	dealTypes []analytics.TypeBreakdown,
	compensation []analytics.CompensationBucket,
	accuracy analytics.Accuracy,
	now time.Time,
) ComprehensiveReport {
	return ComprehensiveReport{
		Summary: map[string]any{
			"Report Generated":   now.Format(time.RFC3339),
			"Date Range":         rangeToken,
			"Total Deals":        kpis.Current.TotalDeals,
			"Total Value":        FormatCurrency(kpis.Current.TotalValue),
			"Active Deals":       kpis.Current.ActiveDeals,
			"Completed Deals":    kpis.Current.CompletedDeals,
			"Draft Deals":        kpis.Current.DraftDeals,
			"Average Deal Value": FormatCurrency(kpis.Current.AvgDealValue),
			"Completion Rate":    fmt.Sprintf("%.1f%%", kpis.Current.CompletionRate),
		},
		Trends:             kpis.Trends,
		MonthlyData:        monthly,
		DealTypes:          dealTypes,
		CompensationRanges: compensation,
		PredictionAccuracy: accuracy,
	}
}

// ReportFilename stamps an export name with the range token and date.
func ReportFilename(prefix, rangeToken string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", prefix, rangeToken, now.Format("2006-01-02"))
}

// FormatCurrency renders an amount as dollars with comma separators and no
// cents, matching the dashboard's display format.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	intStr := fmt.Sprintf("%.0f", amount)
	if len(intStr) > 3 {
		var parts []string
		for len(intStr) > 3 {
			parts = append([]string{intStr[len(intStr)-3:]}, parts...)
			intStr = intStr[:len(intStr)-3]
		}
		parts = append([]string{intStr}, parts...)
		intStr = strings.Join(parts, ",")
	}
	if negative {
		return "-$" + intStr
	}
	return "$" + intStr
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
